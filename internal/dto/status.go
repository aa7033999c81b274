package dto

// OrderState is display-terminal, not payment-terminal: the chain may still
// be settling, but the storefront has nothing further to wait on.
type OrderState string

const (
	StateUnknown         OrderState = "UNKNOWN"
	StateAwaitingPayment OrderState = "AWAITING_PAYMENT"
	StateConfirmed       OrderState = "CONFIRMED"
)

// OrderStatus is the merged view served to confirmation and verification
// screens. DetailsMissing flags a confirmed payment whose order snapshot was
// never stored (or was cleared).
type OrderStatus struct {
	OrderID        string         `json:"orderId"`
	State          OrderState     `json:"state"`
	Order          *Order         `json:"order,omitempty"`
	Payment        *PaymentResult `json:"payment,omitempty"`
	DetailsMissing bool           `json:"detailsMissing,omitempty"`
}
