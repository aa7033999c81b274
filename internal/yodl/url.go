package yodl

import (
	"net/url"
	"strconv"
)

// ParsePaymentFromURL recovers a payment from redirect-return query
// parameters. The SDK appends txHash and chainId to the redirect url it was
// given; the memo (the order id) rides along because the confirmation url was
// built with it at checkout time. Returns nil when no txHash is present.
func ParsePaymentFromURL(u *url.URL) *Payment {
	q := u.Query()
	txHash := q.Get("txHash")
	if txHash == "" {
		return nil
	}
	chainID, _ := strconv.Atoi(q.Get("chainId"))
	memo := q.Get("memo")
	if memo == "" {
		memo = q.Get("orderId")
	}
	return &Payment{TxHash: txHash, ChainID: chainID, Memo: memo}
}

// CleanPaymentURL strips the raw settlement parameters so a reload of the
// cleaned url cannot re-trigger processing of stale redirect data.
func CleanPaymentURL(u *url.URL) *url.URL {
	clean := *u
	q := clean.Query()
	q.Del("txHash")
	q.Del("chainId")
	clean.RawQuery = q.Encode()
	return &clean
}
