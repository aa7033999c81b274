package service

import (
	"context"
	"sync"
	"time"

	"merchant-yapp/internal/constant"
	"merchant-yapp/internal/dto"
	"merchant-yapp/internal/event"
	"merchant-yapp/internal/logger"
	"merchant-yapp/internal/metrics"
	"merchant-yapp/internal/store"
	"merchant-yapp/internal/yodl"
)

type SignalSource string

const (
	SourceRedirect SignalSource = "redirect"
	SourceMessage  SignalSource = "message"
	SourceDirect   SignalSource = "direct"
)

// Signal is one raw completion report, from any of the three sources,
// reduced to the fields the normalizer cares about.
type Signal struct {
	Source  SignalSource
	OrderID string
	TxHash  string
	ChainID int
}

func SignalFromRedirect(p *yodl.Payment) Signal {
	if p == nil {
		return Signal{Source: SourceRedirect}
	}
	return Signal{Source: SourceRedirect, OrderID: p.Memo, TxHash: p.TxHash, ChainID: p.ChainID}
}

// SignalFromMessage prefers orderId over memo when both are present.
func SignalFromMessage(m dto.PaymentMessage) Signal {
	orderID := m.OrderID
	if orderID == "" {
		orderID = m.Memo
	}
	return Signal{Source: SourceMessage, OrderID: orderID, TxHash: m.TxHash, ChainID: m.ChainID}
}

func SignalFromDirect(orderID string, p *yodl.Payment) Signal {
	if p == nil {
		return Signal{Source: SourceDirect, OrderID: orderID}
	}
	return Signal{Source: SourceDirect, OrderID: orderID, TxHash: p.TxHash, ChainID: p.ChainID}
}

// Broadcaster is an outward leg of the canonical broadcast (websocket bridge,
// MQ fanout). Outward legs fire at most once per payment result.
type Broadcaster interface {
	Broadcast(evt dto.PaymentEvent)
}

// PaymentNormalizer collapses the three signal sources into one canonical
// payment_complete event per order.
//
// Rules, in order: a signal without both order id and tx hash is discarded
// untouched; the first accepted signal persists the result and broadcasts
// outward exactly once; later duplicates are swallowed by the store but still
// notify local subscribers, because a listener that missed the first event
// has not observed confirmation yet. Local notification and outward
// broadcast are deliberately different things: rebroadcasting duplicates
// outward would let an embedding context echo events back forever.
type PaymentNormalizer struct {
	store *store.Store
	bus   *event.Bus
	outs  []Broadcaster

	mu       sync.Mutex
	inflight map[string]*orderLock
}

type orderLock struct {
	mu   sync.Mutex
	refs int
}

func NewPaymentNormalizer(st *store.Store, bus *event.Bus, outs ...Broadcaster) *PaymentNormalizer {
	return &PaymentNormalizer{
		store:    st,
		bus:      bus,
		outs:     outs,
		inflight: make(map[string]*orderLock),
	}
}

// Process runs one raw signal through validation, persistence and broadcast.
// Returns the canonical event, or an error when the signal was discarded or
// the store refused the write.
func (n *PaymentNormalizer) Process(ctx context.Context, sig Signal) (*dto.PaymentEvent, error) {
	metrics.SignalsReceived.WithLabelValues(string(sig.Source)).Inc()

	if sig.OrderID == "" || sig.TxHash == "" {
		metrics.SignalsRejected.WithLabelValues(string(sig.Source)).Inc()
		logger.Payment.Warnf("signal from %s missing order id or tx hash, discarded", sig.Source)
		return nil, constant.NewError(constant.CodeSignalInvalid)
	}

	// One in-flight normalization per order id: a concurrent signal for the
	// same order waits here and then observes the first one's write.
	unlock := n.lockOrder(sig.OrderID)
	defer unlock()

	res, created, err := n.store.PutPaymentResult(ctx, sig.OrderID, dto.PaymentResult{
		TxHash:     sig.TxHash,
		ChainID:    sig.ChainID,
		ReceivedAt: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}

	evt := dto.PaymentEvent{
		Type:    dto.MsgTypePaymentComplete,
		OrderID: sig.OrderID,
		TxHash:  res.TxHash,
		ChainID: res.ChainID,
	}

	// Local listeners hear about every accepted signal, stored or swallowed:
	// "already stored" is not the same as "already told the caller".
	n.bus.Publish(evt)

	if created {
		metrics.SignalsAccepted.WithLabelValues(string(sig.Source)).Inc()
		logger.Payment.Infof("payment confirmed order=%s tx=%s chain=%d source=%s",
			sig.OrderID, res.TxHash, res.ChainID, sig.Source)
		for _, out := range n.outs {
			out.Broadcast(evt)
		}
	} else {
		metrics.SignalsSwallowed.WithLabelValues(string(sig.Source)).Inc()
		logger.Payment.Infof("duplicate signal for order=%s swallowed, kept tx=%s", sig.OrderID, res.TxHash)
	}

	return &evt, nil
}

// HandleMessage feeds a raw cross-context message through normalization.
// Messages tagged by browser extensions (target set) are noise and dropped
// before validation even counts them.
func (n *PaymentNormalizer) HandleMessage(m dto.PaymentMessage) {
	if m.Target != "" {
		return
	}
	_, _ = n.Process(context.Background(), SignalFromMessage(m))
}

func (n *PaymentNormalizer) lockOrder(orderID string) func() {
	n.mu.Lock()
	l := n.inflight[orderID]
	if l == nil {
		l = &orderLock{}
		n.inflight[orderID] = l
	}
	l.refs++
	n.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		n.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(n.inflight, orderID)
		}
		n.mu.Unlock()
	}
}
