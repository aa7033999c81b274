package store

import (
	"context"
	"encoding/json"
	"errors"

	"merchant-yapp/internal/constant"
	"merchant-yapp/internal/dto"
	"merchant-yapp/internal/logger"

	"github.com/go-redis/redis/v8"
)

// Keyspace shared with the storefront client: order_<id> holds the product
// snapshot, payment_<id> the settlement result, order_info_<id> the richer
// record the verification scanner reads. All values are JSON.
//
// Visibility is local to this instance's keyspace. Nothing here is replicated
// across tabs, devices or deployments; a scan on another device sees only
// what the QR payload carries.
type Store struct {
	kv KV
}

func New(kv KV) *Store {
	return &Store{kv: kv}
}

func NewRedis(client *redis.Client) *Store {
	return &Store{kv: NewRedisKV(client)}
}

func orderKey(id string) string     { return "order_" + id }
func paymentKey(id string) string   { return "payment_" + id }
func orderInfoKey(id string) string { return "order_info_" + id }

// PutOrder persists the product snapshot. Orders are last-writer-wins:
// a repeated checkout for the same id replaces the record wholesale.
func (s *Store) PutOrder(ctx context.Context, orderID string, o dto.Order) error {
	return s.put(ctx, orderKey(orderID), o)
}

func (s *Store) GetOrder(ctx context.Context, orderID string) (*dto.Order, error) {
	var o dto.Order
	if err := s.get(ctx, orderKey(orderID), &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// PutPaymentResult enforces first-writer-wins: if a result already exists for
// the order id the stored record is returned untouched and created is false.
// Deliberately a distinct operation from PutOrder so the two write policies
// cannot be swapped by accident.
func (s *Store) PutPaymentResult(ctx context.Context, orderID string, r dto.PaymentResult) (*dto.PaymentResult, bool, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, false, constant.Wrap(constant.CodeStorage, err)
	}
	created, err := s.kv.SetNX(ctx, paymentKey(orderID), string(b))
	if err != nil {
		return nil, false, constant.Wrap(constant.CodeStorage, err)
	}
	if created {
		return &r, true, nil
	}
	existing, err := s.GetPaymentResult(ctx, orderID)
	if err != nil {
		return nil, false, constant.Wrap(constant.CodeStorage, err)
	}
	return existing, false, nil
}

func (s *Store) GetPaymentResult(ctx context.Context, orderID string) (*dto.PaymentResult, error) {
	var r dto.PaymentResult
	if err := s.get(ctx, paymentKey(orderID), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// PutOrderInfo follows order semantics: last writer wins.
func (s *Store) PutOrderInfo(ctx context.Context, orderID string, info dto.OrderInfo) error {
	return s.put(ctx, orderInfoKey(orderID), info)
}

func (s *Store) GetOrderInfo(ctx context.Context, orderID string) (*dto.OrderInfo, error) {
	var info dto.OrderInfo
	if err := s.get(ctx, orderInfoKey(orderID), &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (s *Store) put(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return constant.Wrap(constant.CodeStorage, err)
	}
	if err := s.kv.Set(ctx, key, string(b)); err != nil {
		return constant.Wrap(constant.CodeStorage, err)
	}
	return nil
}

// get degrades every failure to a miss: a broken backend or a corrupt value
// is logged and treated like an absent key, the record is not load-bearing
// enough to fail the whole view over.
func (s *Store) get(ctx context.Context, key string, v any) error {
	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		logger.Payment.Warnf("store read %s failed, treating as miss: %v", key, err)
		return ErrNotFound
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		logger.Payment.Warnf("store decode %s failed, treating as miss: %v", key, err)
		return ErrNotFound
	}
	return nil
}
