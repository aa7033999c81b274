package auth

import (
	"testing"

	"merchant-yapp/internal/config"
	"merchant-yapp/internal/constant"
	"merchant-yapp/internal/dto"
)

func testVerifier() *Verifier {
	return NewVerifier(config.SecurityCfg{
		Admins: []config.AdminIdentity{
			{ENS: "Merchant.ETH", Address: "0xAbCd000000000000000000000000000000000001"},
		},
		AuthStatement: "Sign in to Merchant Yapp admin",
	})
}

func TestIsAdminNormalizesIdentity(t *testing.T) {
	v := testVerifier()
	cases := []struct {
		addr string
		want bool
	}{
		{"0xabcd000000000000000000000000000000000001", true},
		{" 0xABCD000000000000000000000000000000000001 ", true},
		{"merchant.eth", true},
		{"MERCHANT.ETH", true},
		{"0xother00000000000000000000000000000000002", false},
		{"", false},
	}
	for _, c := range cases {
		if got := v.IsAdmin(c.addr); got != c.want {
			t.Errorf("IsAdmin(%q) = %v, want %v", c.addr, got, c.want)
		}
	}
}

func TestLoginHappyPath(t *testing.T) {
	v := testVerifier()
	ch := v.Challenge("merchant.eth")
	if ch.Nonce == "" || ch.Statement == "" {
		t.Fatalf("incomplete challenge: %+v", ch)
	}

	resp, err := v.Login(dto.AuthLoginReq{Address: "merchant.eth", Nonce: ch.Nonce, Signature: "0xsigned"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if !resp.IsAdmin || resp.Token == "" {
		t.Errorf("bad login response: %+v", resp)
	}
	if addr, ok := v.Session(resp.Token); !ok || addr != "merchant.eth" {
		t.Errorf("session not opened: %q %v", addr, ok)
	}

	// nonce is single-use
	if _, err := v.Login(dto.AuthLoginReq{Address: "merchant.eth", Nonce: ch.Nonce, Signature: "0xsigned"}); err == nil {
		t.Errorf("nonce replay accepted")
	}
}

func TestLoginNonAdminDenied(t *testing.T) {
	v := testVerifier()
	ch := v.Challenge("0xother00000000000000000000000000000000002")
	_, err := v.Login(dto.AuthLoginReq{
		Address: "0xother00000000000000000000000000000000002", Nonce: ch.Nonce, Signature: "0xsigned",
	})
	if constant.CodeOf(err) != constant.CodeUnauthorized {
		t.Errorf("expected unauthorized, got %v", err)
	}
}

func TestLoginRejectsBadChallenge(t *testing.T) {
	v := testVerifier()
	ch := v.Challenge("merchant.eth")

	if _, err := v.Login(dto.AuthLoginReq{Address: "merchant.eth", Nonce: "stale", Signature: "0xs"}); err == nil {
		t.Errorf("wrong nonce accepted")
	}
	if _, err := v.Login(dto.AuthLoginReq{Address: "merchant.eth", Nonce: ch.Nonce, Signature: "  "}); err == nil {
		t.Errorf("blank signature accepted")
	}
}

func TestSignOut(t *testing.T) {
	v := testVerifier()
	ch := v.Challenge("merchant.eth")
	resp, err := v.Login(dto.AuthLoginReq{Address: "merchant.eth", Nonce: ch.Nonce, Signature: "0xs"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	v.SignOut(resp.Token)
	if _, ok := v.Session(resp.Token); ok {
		t.Errorf("session survived sign-out")
	}
}
