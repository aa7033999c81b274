package service

import (
	"context"
	"errors"
	"time"

	"merchant-yapp/internal/constant"
	"merchant-yapp/internal/dto"
	"merchant-yapp/internal/logger"
	"merchant-yapp/internal/qr"
	"merchant-yapp/internal/store"
	"merchant-yapp/internal/yodl"
)

// StatusResolver produces the merged, display-ready view of one order.
// It is read-only except for write-through: an optimistic tx hash or a
// fetched payment detail is persisted so the store ends up consistent with
// what the caller was shown.
type StatusResolver struct {
	store        *store.Store
	yodl         *yodl.Client
	fetchTimeout time.Duration
}

func NewStatusResolver(st *store.Store, yc *yodl.Client, fetchTimeout time.Duration) *StatusResolver {
	if fetchTimeout <= 0 {
		fetchTimeout = 10 * time.Second
	}
	return &StatusResolver{store: st, yodl: yc, fetchTimeout: fetchTimeout}
}

// Resolve merges order and payment records into one state.
//
// Priority: a directly supplied tx hash confirms immediately (written through
// first-writer-wins, so a differing stored result survives and is what gets
// displayed); otherwise the stored payment result decides; the order snapshot
// is fetched either way for display. Neither record -> order-not-found.
func (r *StatusResolver) Resolve(ctx context.Context, orderID, txHash string, chainID int) (*dto.OrderStatus, error) {
	if orderID == "" {
		return nil, constant.NewError(constant.CodeOrderNotFound)
	}
	st := &dto.OrderStatus{OrderID: orderID, State: dto.StateUnknown}

	if txHash != "" {
		// Optimistic short-circuit: the hash just arrived with the caller,
		// no need to wait on a store read to call it confirmed.
		st.State = dto.StateConfirmed
		stored, _, err := r.store.PutPaymentResult(ctx, orderID, dto.PaymentResult{
			TxHash:     txHash,
			ChainID:    chainID,
			ReceivedAt: time.Now().UTC().Format(time.RFC3339),
		})
		if err != nil {
			logger.Payment.Warnf("write-through for %s failed: %v", orderID, err)
			st.Payment = &dto.PaymentResult{TxHash: txHash, ChainID: chainID}
		} else {
			st.Payment = stored
		}
	} else if p, err := r.store.GetPaymentResult(ctx, orderID); err == nil {
		st.State = dto.StateConfirmed
		st.Payment = p
	}

	// Order metadata is display-only; absence is non-fatal.
	if o, err := r.store.GetOrder(ctx, orderID); err == nil {
		st.Order = o
	} else if info, err := r.store.GetOrderInfo(ctx, orderID); err == nil {
		st.Order = &dto.Order{
			Name:      info.ProductName,
			Price:     info.Amount,
			Currency:  info.Currency,
			Timestamp: info.Timestamp,
		}
	}

	if st.State != dto.StateConfirmed {
		if st.Order == nil {
			return nil, constant.NewError(constant.CodeOrderNotFound)
		}
		st.State = dto.StateAwaitingPayment
		return st, nil
	}
	if st.Order == nil {
		st.DetailsMissing = true
	}
	return st, nil
}

// VerifyScan reconstructs an order view from a scanned confirmation url.
// The QR payload itself can fill in product details the local keyspace never
// had; failing that, a known tx hash is looked up with the payment SDK and
// the recovered record written through for the next scan.
func (r *StatusResolver) VerifyScan(ctx context.Context, rawURL string) (*dto.OrderStatus, error) {
	payload, err := qr.ParseConfirmation(rawURL)
	if err != nil {
		return nil, constant.Wrap(constant.CodeBadRequest, err)
	}

	st, err := r.Resolve(ctx, payload.OrderID, payload.TxHash, payload.ChainID)
	if err != nil {
		if constant.CodeOf(err) == constant.CodeOrderNotFound && payload.Order != nil {
			// Offline reconstruction: nothing stored locally, but the QR
			// carries the snapshot.
			return &dto.OrderStatus{
				OrderID: payload.OrderID,
				State:   dto.StateAwaitingPayment,
				Order:   payload.Order,
			}, nil
		}
		return nil, err
	}

	if st.DetailsMissing && payload.Order != nil {
		st.Order = payload.Order
		st.DetailsMissing = false
	}

	if st.DetailsMissing && st.Payment != nil && r.yodl != nil {
		fctx, cancel := context.WithTimeout(ctx, r.fetchTimeout)
		defer cancel()
		if d, ferr := r.yodl.FetchPaymentDetails(fctx, st.Payment.TxHash); ferr == nil {
			info := dto.OrderInfo{
				OrderID:       payload.OrderID,
				Amount:        d.Amount,
				Currency:      d.Currency,
				Status:        "completed",
				SenderAddress: d.SenderAddress,
				TxHash:        d.TxHash,
				Timestamp:     d.Timestamp,
			}
			if err := r.store.PutOrderInfo(ctx, payload.OrderID, info); err != nil {
				logger.Payment.Warnf("store recovered details for %s failed: %v", payload.OrderID, err)
			}
			st.Order = &dto.Order{Price: d.Amount, Currency: d.Currency, Timestamp: d.Timestamp}
			st.DetailsMissing = false
		} else if !errors.Is(ferr, context.Canceled) {
			logger.Payment.Warnf("payment detail fetch for %s failed: %v", st.Payment.TxHash, ferr)
		}
	}
	return st, nil
}
