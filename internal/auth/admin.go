// Package auth gates the admin scanner behind a signed-message challenge.
//
// Trust boundary, on purpose: the wallet layer produces and proves the
// signature; this side only checks that a signature was presented and that
// the address (or ENS name) is on the configured allow-list. There is no
// server-side recovery of the signer from the signature. That is how the
// storefront has always behaved; hardening it here would silently change
// the product's trust model.
package auth

import (
	"strings"
	"sync"
	"time"

	"merchant-yapp/internal/config"
	"merchant-yapp/internal/constant"
	"merchant-yapp/internal/dto"

	"github.com/google/uuid"
)

type Verifier struct {
	admins    map[string]struct{}
	statement string

	mu       sync.Mutex
	nonces   map[string]string // address -> outstanding nonce
	sessions map[string]string // token -> address
}

func NewVerifier(cfg config.SecurityCfg) *Verifier {
	admins := make(map[string]struct{})
	for _, a := range cfg.Admins {
		if a.Address != "" {
			admins[NormalizeAddress(a.Address)] = struct{}{}
		}
		if a.ENS != "" {
			admins[NormalizeAddress(a.ENS)] = struct{}{}
		}
	}
	return &Verifier{
		admins:    admins,
		statement: cfg.AuthStatement,
		nonces:    make(map[string]string),
		sessions:  make(map[string]string),
	}
}

func NormalizeAddress(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

func (v *Verifier) IsAdmin(addr string) bool {
	_, ok := v.admins[NormalizeAddress(addr)]
	return ok
}

// Challenge issues the fixed statement plus a fresh nonce for the address.
// A new challenge replaces any outstanding one.
func (v *Verifier) Challenge(addr string) dto.AuthChallenge {
	nonce := uuid.NewString()
	key := NormalizeAddress(addr)

	v.mu.Lock()
	v.nonces[key] = nonce
	v.mu.Unlock()

	return dto.AuthChallenge{
		Statement: v.statement,
		Address:   addr,
		Nonce:     nonce,
		IssuedAt:  time.Now().UTC().Format(time.RFC3339),
	}
}

// Login checks the presented signature against the outstanding challenge and
// the allow-list, and opens a session. A non-admin address is refused even
// with a valid challenge, never silently granted.
func (v *Verifier) Login(req dto.AuthLoginReq) (*dto.AuthLoginResp, error) {
	key := NormalizeAddress(req.Address)

	v.mu.Lock()
	nonce, ok := v.nonces[key]
	v.mu.Unlock()
	if !ok || nonce != req.Nonce {
		return nil, constant.NewError(constant.CodeUnauthorized)
	}
	if strings.TrimSpace(req.Signature) == "" {
		return nil, constant.NewError(constant.CodeUnauthorized)
	}
	if !v.IsAdmin(req.Address) {
		return nil, constant.NewError(constant.CodeUnauthorized)
	}

	token := uuid.NewString()
	v.mu.Lock()
	delete(v.nonces, key)
	v.sessions[token] = key
	v.mu.Unlock()

	return &dto.AuthLoginResp{Token: token, Address: req.Address, IsAdmin: true}, nil
}

// Session resolves a bearer token to its admin address.
func (v *Verifier) Session(token string) (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	addr, ok := v.sessions[token]
	return addr, ok
}

func (v *Verifier) SignOut(token string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.sessions, token)
}
