package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"merchant-yapp/internal/constant"
	"merchant-yapp/internal/dto"
	"merchant-yapp/internal/event"
	"merchant-yapp/internal/store"
	"merchant-yapp/internal/yodl"
)

func newCheckout(st *store.Store, bus *event.Bus, sdkURL string, timeout time.Duration) *CheckoutService {
	yc := yodl.NewClient(sdkURL, "0xmerchant", "merchant.eth")
	n := NewPaymentNormalizer(st, bus)
	return NewCheckoutService(st, yc, n, bus, "http://localhost:8080", timeout)
}

func TestCreateStoresOrderBeforeInitiation(t *testing.T) {
	st := store.New(store.NewMemoryKV())
	bus := event.NewBus()

	var sawOrder atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req yodl.PaymentRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		// the snapshot must already exist when the SDK is called
		if _, err := st.GetOrder(r.Context(), req.Memo); err == nil {
			sawOrder.Store(true)
		}
		_ = json.NewEncoder(w).Encode(yodl.Payment{TxHash: "0xdirect", ChainID: 10, Memo: req.Memo})
	}))
	defer srv.Close()

	svc := newCheckout(st, bus, srv.URL, time.Minute)
	resp, err := svc.Create(context.Background(), dto.CheckoutReq{
		Amount: 5, Currency: "USD", Description: "Coffee", Emoji: "☕",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !sawOrder.Load() {
		t.Errorf("order snapshot was not stored before payment initiation")
	}
	if resp.Status != string(dto.StateConfirmed) || resp.TxHash != "0xdirect" {
		t.Errorf("direct settlement not reflected: %+v", resp)
	}
	stored, err := st.GetPaymentResult(context.Background(), resp.OrderID)
	if err != nil || stored.TxHash != "0xdirect" {
		t.Errorf("direct result not persisted: %+v, %v", stored, err)
	}
}

func TestCreateRedirectFlowStaysPending(t *testing.T) {
	st := store.New(store.NewMemoryKV())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	svc := newCheckout(st, event.NewBus(), srv.URL, time.Minute)
	resp, err := svc.Create(context.Background(), dto.CheckoutReq{Amount: 3, Currency: "EUR", Description: "Tea"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if resp.Status != "PENDING" || resp.TxHash != "" {
		t.Errorf("redirect flow should stay pending: %+v", resp)
	}
	if resp.RedirectURL == "" {
		t.Errorf("no confirmation url generated")
	}
	if _, err := st.GetPaymentResult(context.Background(), resp.OrderID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("pending order must have no payment result")
	}
}

func TestCreateTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	svc := newCheckout(store.New(store.NewMemoryKV()), event.NewBus(), srv.URL, 50*time.Millisecond)
	_, err := svc.Create(context.Background(), dto.CheckoutReq{Amount: 5, Currency: "USD"})
	if constant.CodeOf(err) != constant.CodePaymentTimeout {
		t.Errorf("expected payment-timeout code, got %v", err)
	}
}

func TestCreateInitiationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusInternalServerError)
	}))
	defer srv.Close()

	svc := newCheckout(store.New(store.NewMemoryKV()), event.NewBus(), srv.URL, time.Minute)
	_, err := svc.Create(context.Background(), dto.CheckoutReq{Amount: 5, Currency: "USD"})
	if constant.CodeOf(err) != constant.CodePaymentInitiation {
		t.Errorf("expected payment-initiation code, got %v", err)
	}
}

func TestCreateRejectsInvalidRequest(t *testing.T) {
	svc := newCheckout(store.New(store.NewMemoryKV()), event.NewBus(), "http://unused", time.Minute)
	for _, req := range []dto.CheckoutReq{
		{Amount: 0, Currency: "USD"},
		{Amount: 5},
	} {
		if _, err := svc.Create(context.Background(), req); constant.CodeOf(err) != constant.CodeCheckoutInvalid {
			t.Errorf("expected checkout-invalid for %+v, got %v", req, err)
		}
	}
}

func TestAwaitConfirmationTimeout(t *testing.T) {
	st := store.New(store.NewMemoryKV())
	bus := event.NewBus()
	svc := NewCheckoutService(st, nil, nil, bus, "http://localhost:8080", time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err := svc.AwaitConfirmation(ctx, "order_slow")
	if constant.CodeOf(err) != constant.CodePaymentTimeout {
		t.Errorf("expected payment-timeout code, got %v", err)
	}
}

func TestAwaitConfirmationSeesSignal(t *testing.T) {
	st := store.New(store.NewMemoryKV())
	bus := event.NewBus()
	n := NewPaymentNormalizer(st, bus)
	svc := NewCheckoutService(st, nil, n, bus, "http://localhost:8080", time.Minute)

	done := make(chan *dto.PaymentEvent, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		evt, err := svc.AwaitConfirmation(ctx, "order_live")
		if err != nil {
			t.Errorf("AwaitConfirmation failed: %v", err)
		}
		done <- evt
	}()

	// give the waiter a beat to subscribe, then fire the signal
	time.Sleep(20 * time.Millisecond)
	if _, err := n.Process(context.Background(), Signal{Source: SourceRedirect, OrderID: "order_live", TxHash: "0xlive", ChainID: 1}); err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	select {
	case evt := <-done:
		if evt == nil || evt.TxHash != "0xlive" {
			t.Errorf("waiter got %+v", evt)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("waiter never woke up")
	}
}

// A result persisted before the wait starts is returned without blocking.
func TestAwaitConfirmationAlreadyStored(t *testing.T) {
	st := store.New(store.NewMemoryKV())
	bus := event.NewBus()
	svc := NewCheckoutService(st, nil, nil, bus, "http://localhost:8080", time.Minute)

	_, _, _ = st.PutPaymentResult(context.Background(), "order_done", dto.PaymentResult{TxHash: "0xdone", ChainID: 1})
	evt, err := svc.AwaitConfirmation(context.Background(), "order_done")
	if err != nil {
		t.Fatalf("AwaitConfirmation failed: %v", err)
	}
	if evt.TxHash != "0xdone" {
		t.Errorf("got %+v", evt)
	}
}
