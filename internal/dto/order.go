package dto

// Order is the product snapshot written once when checkout begins.
// It is never updated afterwards; re-running checkout for the same id
// overwrites the whole record.
type Order struct {
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Currency  string  `json:"currency"`
	Emoji     string  `json:"emoji,omitempty"`
	Timestamp string  `json:"timestamp"`
}

// OrderInfo is the richer record behind the verification scanner. It mirrors
// what the storefront knew at checkout plus whatever a later payment-detail
// fetch recovered.
type OrderInfo struct {
	OrderID       string  `json:"orderId"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Status        string  `json:"status,omitempty"`
	ProductName   string  `json:"productName,omitempty"`
	ProductID     string  `json:"productId,omitempty"`
	OwnerAddress  string  `json:"ownerAddress,omitempty"`
	SenderAddress string  `json:"senderAddress,omitempty"`
	TxHash        string  `json:"txHash,omitempty"`
	Timestamp     string  `json:"timestamp,omitempty"`
}
