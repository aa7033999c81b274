package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"merchant-yapp/internal/constant"
	"merchant-yapp/internal/dto"
	"merchant-yapp/internal/event"
	"merchant-yapp/internal/store"
)

type countingBroadcaster struct {
	mu     sync.Mutex
	events []dto.PaymentEvent
}

func (b *countingBroadcaster) Broadcast(evt dto.PaymentEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, evt)
}

func (b *countingBroadcaster) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}

func newTestNormalizer() (*PaymentNormalizer, *store.Store, *event.Bus, *countingBroadcaster) {
	st := store.New(store.NewMemoryKV())
	bus := event.NewBus()
	out := &countingBroadcaster{}
	return NewPaymentNormalizer(st, bus, out), st, bus, out
}

func TestInvalidSignalDiscarded(t *testing.T) {
	n, st, bus, out := newTestNormalizer()
	ctx := context.Background()
	sub := bus.Subscribe("order_x")
	defer sub.Release()

	cases := []Signal{
		{Source: SourceMessage, TxHash: "0xabc"},                 // no order id
		{Source: SourceRedirect, OrderID: "order_x"},             // no tx hash
		{Source: SourceDirect},                                   // neither
	}
	for _, sig := range cases {
		evt, err := n.Process(ctx, sig)
		if evt != nil {
			t.Errorf("discarded signal produced event: %+v", evt)
		}
		if constant.CodeOf(err) != constant.CodeSignalInvalid {
			t.Errorf("expected signal-invalid code, got %v", err)
		}
	}

	if _, err := st.GetPaymentResult(ctx, "order_x"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("discarded signal mutated the store")
	}
	if out.count() != 0 {
		t.Errorf("discarded signal broadcast %d events", out.count())
	}
	select {
	case evt := <-sub.C:
		t.Errorf("discarded signal notified subscriber: %+v", evt)
	default:
	}
}

func TestDuplicateSignalSingleBroadcast(t *testing.T) {
	n, st, bus, out := newTestNormalizer()
	ctx := context.Background()
	sub := bus.Subscribe("order_B")
	defer sub.Release()

	first, err := n.Process(ctx, Signal{Source: SourceRedirect, OrderID: "order_B", TxHash: "0xabc", ChainID: 10})
	if err != nil {
		t.Fatalf("first signal failed: %v", err)
	}
	// the message listener fires later with the same completion
	second, err := n.Process(ctx, Signal{Source: SourceMessage, OrderID: "order_B", TxHash: "0xabc", ChainID: 10})
	if err != nil {
		t.Fatalf("duplicate signal failed: %v", err)
	}

	if out.count() != 1 {
		t.Errorf("expected exactly one outward broadcast, got %d", out.count())
	}
	if first.TxHash != second.TxHash {
		t.Errorf("canonical events diverged: %q vs %q", first.TxHash, second.TxHash)
	}
	// both signals notified the local subscriber
	for i := 0; i < 2; i++ {
		select {
		case <-sub.C:
		default:
			t.Fatalf("subscriber saw %d notification(s), want 2", i)
		}
	}

	stored, err := st.GetPaymentResult(ctx, "order_B")
	if err != nil || stored.TxHash != "0xabc" {
		t.Errorf("stored result wrong: %+v, %v", stored, err)
	}
}

func TestDuplicateWithDifferentHashKeepsFirst(t *testing.T) {
	n, st, _, out := newTestNormalizer()
	ctx := context.Background()

	if _, err := n.Process(ctx, Signal{Source: SourceDirect, OrderID: "order_c", TxHash: "0xfirst", ChainID: 1}); err != nil {
		t.Fatalf("first signal failed: %v", err)
	}
	evt, err := n.Process(ctx, Signal{Source: SourceMessage, OrderID: "order_c", TxHash: "0xlate", ChainID: 10})
	if err != nil {
		t.Fatalf("late signal failed: %v", err)
	}
	if evt.TxHash != "0xfirst" {
		t.Errorf("late signal event carries %q, want the stored first hash", evt.TxHash)
	}
	stored, _ := st.GetPaymentResult(ctx, "order_c")
	if stored.TxHash != "0xfirst" {
		t.Errorf("first result lost: %+v", stored)
	}
	if out.count() != 1 {
		t.Errorf("late signal re-broadcast outward, count=%d", out.count())
	}
}

func TestMessageMemoFallback(t *testing.T) {
	sig := SignalFromMessage(dto.PaymentMessage{TxHash: "0xdead", ChainID: 10, Memo: "order_A"})
	if sig.OrderID != "order_A" {
		t.Errorf("memo not used as order id: %+v", sig)
	}
	sig = SignalFromMessage(dto.PaymentMessage{TxHash: "0xdead", OrderID: "order_1", Memo: "order_2"})
	if sig.OrderID != "order_1" {
		t.Errorf("orderId should win over memo: %+v", sig)
	}
}

func TestConcurrentSignalsSingleBroadcast(t *testing.T) {
	n, st, _, out := newTestNormalizer()
	ctx := context.Background()

	hashes := []string{"0xa", "0xb", "0xc", "0xd", "0xe", "0xf", "0x1", "0x2"}
	var wg sync.WaitGroup
	for _, h := range hashes {
		wg.Add(1)
		go func(tx string) {
			defer wg.Done()
			_, _ = n.Process(ctx, Signal{Source: SourceMessage, OrderID: "order_race", TxHash: tx, ChainID: 1})
		}(h)
	}
	wg.Wait()

	if out.count() != 1 {
		t.Errorf("expected one broadcast for %d concurrent signals, got %d", len(hashes), out.count())
	}
	stored, err := st.GetPaymentResult(ctx, "order_race")
	if err != nil {
		t.Fatalf("no result stored: %v", err)
	}
	if out.events[0].TxHash != stored.TxHash {
		t.Errorf("broadcast %q does not match stored %q", out.events[0].TxHash, stored.TxHash)
	}
}
