package service

import (
	"context"
	"time"

	"merchant-yapp/internal/constant"
	"merchant-yapp/internal/dto"
	"merchant-yapp/internal/event"
	"merchant-yapp/internal/idgen"
	"merchant-yapp/internal/logger"
	"merchant-yapp/internal/qr"
	"merchant-yapp/internal/store"
	"merchant-yapp/internal/yodl"
)

type CheckoutService struct {
	store      *store.Store
	yodl       *yodl.Client
	normalizer *PaymentNormalizer
	bus        *event.Bus
	baseURL    string
	payTimeout time.Duration
}

func NewCheckoutService(st *store.Store, yc *yodl.Client, n *PaymentNormalizer, bus *event.Bus, baseURL string, payTimeout time.Duration) *CheckoutService {
	if payTimeout <= 0 {
		payTimeout = 5 * time.Minute
	}
	return &CheckoutService{
		store:      st,
		yodl:       yc,
		normalizer: n,
		bus:        bus,
		baseURL:    baseURL,
		payTimeout: payTimeout,
	}
}

// Create starts one checkout attempt: persist the order snapshot, then ask
// the SDK for payment with memo = order id. The snapshot goes in BEFORE the
// payment request so a completion signal can never arrive for an order the
// store has not heard of; a failed snapshot write degrades to a warning
// (payment can still settle, the view just loses its details).
func (s *CheckoutService) Create(ctx context.Context, req dto.CheckoutReq) (*dto.CheckoutResp, error) {
	if req.Amount <= 0 || req.Currency == "" {
		return nil, constant.NewError(constant.CodeCheckoutInvalid)
	}

	orderID := req.OrderID
	if orderID == "" {
		orderID = idgen.OrderID("order")
	}
	now := time.Now().UTC().Format(time.RFC3339)

	emoji := req.Emoji
	if emoji == "" {
		emoji = "💰"
	}
	ord := dto.Order{
		Name:      req.Description,
		Price:     req.Amount,
		Currency:  req.Currency,
		Emoji:     emoji,
		Timestamp: now,
	}
	if err := s.store.PutOrder(ctx, orderID, ord); err != nil {
		logger.Payment.Warnf("order snapshot for %s not stored: %v", orderID, err)
	}
	info := dto.OrderInfo{
		OrderID:     orderID,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Status:      "pending",
		ProductName: req.Description,
		ProductID:   req.ProductID,
		Timestamp:   now,
	}
	if err := s.store.PutOrderInfo(ctx, orderID, info); err != nil {
		logger.Payment.Warnf("order info for %s not stored: %v", orderID, err)
	}

	redirectURL := req.RedirectURL
	if redirectURL == "" {
		u, err := qr.ConfirmationURL(s.baseURL, orderID, &ord, "", 0)
		if err != nil {
			return nil, constant.Wrap(constant.CodeCheckoutInvalid, err)
		}
		redirectURL = u
	}

	cctx, cancel := context.WithTimeout(ctx, s.payTimeout)
	defer cancel()
	p, err := s.yodl.RequestPayment(cctx, req.Amount, req.Currency, orderID, redirectURL)
	if err != nil {
		return nil, err
	}

	resp := &dto.CheckoutResp{OrderID: orderID, Status: "PENDING", RedirectURL: redirectURL}
	if p != nil && p.TxHash != "" {
		// Same-call settlement: the third signal source.
		if evt, perr := s.normalizer.Process(ctx, SignalFromDirect(orderID, p)); perr == nil {
			resp.Status = string(dto.StateConfirmed)
			resp.TxHash = evt.TxHash
			resp.ChainID = evt.ChainID
		}
	}
	return resp, nil
}

// AwaitConfirmation blocks until a payment result exists for the order or the
// context expires. The subscription lives exactly as long as this one wait;
// nothing is left registered when the caller goes away.
func (s *CheckoutService) AwaitConfirmation(ctx context.Context, orderID string) (*dto.PaymentEvent, error) {
	sub := s.bus.Subscribe(orderID)
	defer sub.Release()

	// Check after subscribing so a result landing in between is not missed.
	if p, err := s.store.GetPaymentResult(ctx, orderID); err == nil {
		return &dto.PaymentEvent{
			Type:    dto.MsgTypePaymentComplete,
			OrderID: orderID,
			TxHash:  p.TxHash,
			ChainID: p.ChainID,
		}, nil
	}

	select {
	case evt := <-sub.C:
		return &evt, nil
	case <-ctx.Done():
		return nil, constant.NewError(constant.CodePaymentTimeout)
	}
}
