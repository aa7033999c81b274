// Package yodl talks to the external payment SDK. Wallet interaction,
// settlement and receipt production all happen on the SDK's side; this client
// only initiates payments and reads back what the SDK reports.
package yodl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"merchant-yapp/internal/constant"
)

type Client struct {
	apiURL    string
	recipient string
	hc        *http.Client
}

// NewClient prefers the merchant ENS over the raw address as the payment
// recipient, matching how the payment links are built.
func NewClient(apiURL, merchantAddress, merchantENS string) *Client {
	recipient := merchantENS
	if recipient == "" {
		recipient = merchantAddress
	}
	return &Client{
		apiURL:    apiURL,
		recipient: recipient,
		hc:        &http.Client{Timeout: 10 * time.Second},
	}
}

// Payment is what the SDK resolves a request with. TxHash may be empty when
// control was transferred away instead (redirect flow); Memo round-trips the
// order id.
type Payment struct {
	TxHash  string `json:"txHash,omitempty"`
	ChainID int    `json:"chainId,omitempty"`
	Memo    string `json:"memo,omitempty"`
}

type PaymentRequest struct {
	AddressOrENS string  `json:"addressOrEns"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
	Memo         string  `json:"memo"`
	RedirectURL  string  `json:"redirectUrl"`
}

// RequestPayment initiates a payment with memo = orderID. The call may block
// for as long as the user takes to act in the external flow, so it runs under
// the caller's context; deadline expiry maps to the payment-timeout code,
// anything else to payment-initiation.
func (c *Client) RequestPayment(ctx context.Context, amount float64, currency, memo, redirectURL string) (*Payment, error) {
	reqBody := PaymentRequest{
		AddressOrENS: c.recipient,
		Amount:       amount,
		Currency:     currency,
		Memo:         memo,
		RedirectURL:  redirectURL,
	}
	b, _ := json.Marshal(reqBody)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/payments", bytes.NewReader(b))
	if err != nil {
		return nil, constant.Wrap(constant.CodePaymentInitiation, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, constant.Wrap(constant.CodePaymentTimeout, err)
		}
		return nil, constant.Wrap(constant.CodePaymentInitiation, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, constant.Wrap(constant.CodePaymentInitiation, err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return nil, constant.Wrap(constant.CodePaymentInitiation,
			fmt.Errorf("bad status code: %d, body: %s", resp.StatusCode, string(body)))
	}

	// 202 or an empty body means the flow continued out-of-band; completion
	// arrives later via redirect or message.
	p := &Payment{Memo: memo}
	if len(body) > 0 {
		if err := json.Unmarshal(body, p); err != nil {
			return nil, constant.Wrap(constant.CodePaymentInitiation, err)
		}
		if p.Memo == "" {
			p.Memo = memo
		}
	}
	return p, nil
}

// PaymentDetails is the supplementary record fetched by tx hash when the
// local keyspace has nothing for a scanned order.
type PaymentDetails struct {
	TxHash        string  `json:"txHash"`
	ChainID       int     `json:"chainId"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	SenderAddress string  `json:"senderAddress"`
	Timestamp     string  `json:"timestamp"`
}

func (c *Client) FetchPaymentDetails(ctx context.Context, txHash string) (*PaymentDetails, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"/payments/"+txHash, nil)
	if err != nil {
		return nil, constant.Wrap(constant.CodePaymentInitiation, err)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, constant.Wrap(constant.CodePaymentTimeout, err)
		}
		return nil, constant.Wrap(constant.CodePaymentInitiation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, constant.Wrap(constant.CodePaymentInitiation,
			fmt.Errorf("bad status code: %d", resp.StatusCode))
	}
	var d PaymentDetails
	if err := json.NewDecoder(resp.Body).Decode(&d); err != nil {
		return nil, constant.Wrap(constant.CodePaymentInitiation, err)
	}
	if d.TxHash == "" {
		d.TxHash = txHash
	}
	return &d, nil
}
