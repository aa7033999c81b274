package dto

type CheckoutReq struct {
	Amount      float64 `json:"amount" binding:"required"`
	Currency    string  `json:"currency" binding:"required"`
	Description string  `json:"description"`
	OrderID     string  `json:"orderId"`
	Emoji       string  `json:"emoji"`
	ProductID   string  `json:"productId"`
	RedirectURL string  `json:"redirectUrl"`
}

type CheckoutResp struct {
	OrderID     string `json:"orderId"`
	Status      string `json:"status"`
	RedirectURL string `json:"redirectUrl"`
	TxHash      string `json:"txHash,omitempty"`
	ChainID     int    `json:"chainId,omitempty"`
}

type AuthChallengeReq struct {
	Address string `json:"address" binding:"required"`
}

type AuthChallenge struct {
	Statement string `json:"statement"`
	Address   string `json:"address"`
	Nonce     string `json:"nonce"`
	IssuedAt  string `json:"issuedAt"`
}

type AuthLoginReq struct {
	Address   string `json:"address" binding:"required"`
	Nonce     string `json:"nonce" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

type AuthLoginResp struct {
	Token   string `json:"token"`
	Address string `json:"address"`
	IsAdmin bool   `json:"isAdmin"`
}
