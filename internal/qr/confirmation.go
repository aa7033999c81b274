// Package qr builds and parses the confirmation urls that double as QR
// payloads. A scanned url must be enough to reconstruct an order view with no
// network access, so the optional product fields ride in the query string.
package qr

import (
	"fmt"
	"net/url"
	"strconv"

	"merchant-yapp/internal/dto"
)

// Payload is everything a confirmation url can carry. Only OrderID is
// mandatory.
type Payload struct {
	OrderID string
	TxHash  string
	ChainID int
	Order   *dto.Order
}

// ConfirmationURL builds the redirect/QR url for an order. base is the public
// storefront origin.
func ConfirmationURL(base, orderID string, ord *dto.Order, txHash string, chainID int) (string, error) {
	if orderID == "" {
		return "", fmt.Errorf("empty order id")
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	u.Path = "/confirmation"
	q := url.Values{}
	q.Set("orderId", orderID)
	if txHash != "" {
		q.Set("txHash", txHash)
		q.Set("chainId", strconv.Itoa(chainID))
	}
	if ord != nil {
		q.Set("name", ord.Name)
		q.Set("price", strconv.FormatFloat(ord.Price, 'f', -1, 64))
		q.Set("currency", ord.Currency)
		if ord.Emoji != "" {
			q.Set("emoji", ord.Emoji)
		}
		if ord.Timestamp != "" {
			q.Set("timestamp", ord.Timestamp)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ParseConfirmation decodes a scanned confirmation url.
func ParseConfirmation(raw string) (*Payload, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	orderID := q.Get("orderId")
	if orderID == "" {
		// legacy urls carried the id under memo
		orderID = q.Get("memo")
	}
	if orderID == "" {
		return nil, fmt.Errorf("confirmation url missing orderId")
	}
	p := &Payload{OrderID: orderID, TxHash: q.Get("txHash")}
	p.ChainID, _ = strconv.Atoi(q.Get("chainId"))

	if name := q.Get("name"); name != "" {
		price, _ := strconv.ParseFloat(q.Get("price"), 64)
		p.Order = &dto.Order{
			Name:      name,
			Price:     price,
			Currency:  q.Get("currency"),
			Emoji:     q.Get("emoji"),
			Timestamp: q.Get("timestamp"),
		}
	}
	return p, nil
}

// StripPaymentParams removes txHash and chainId from a url string, leaving
// the rest of the query intact. Used when echoing a cleaned confirmation url
// back to the client.
func StripPaymentParams(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	q.Del("txHash")
	q.Del("chainId")
	u.RawQuery = q.Encode()
	return u.String()
}
