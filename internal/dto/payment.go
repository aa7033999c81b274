package dto

// MsgTypePaymentComplete marks a canonical, already-normalized event.
const MsgTypePaymentComplete = "payment_complete"

// PaymentResult records a completed payment for one order id.
// First writer wins: once stored it is never overwritten.
type PaymentResult struct {
	TxHash     string `json:"txHash"`
	ChainID    int    `json:"chainId"`
	ReceivedAt string `json:"receivedAt,omitempty"`
}

// PaymentEvent is the single canonical shape every signal source collapses
// into. It is what local subscribers, bridge clients and the MQ all see.
type PaymentEvent struct {
	Type    string `json:"type"`
	OrderID string `json:"orderId"`
	TxHash  string `json:"txHash"`
	ChainID int    `json:"chainId"`
}

// PaymentMessage is the raw cross-context message shape. The order id may
// arrive under orderId or memo; orderId wins when both are set. Target is set
// by browser-extension chatter and marks the message as noise.
type PaymentMessage struct {
	Type    string `json:"type,omitempty"`
	TxHash  string `json:"txHash"`
	ChainID int    `json:"chainId"`
	OrderID string `json:"orderId,omitempty"`
	Memo    string `json:"memo,omitempty"`
	Target  string `json:"target,omitempty"`
}
