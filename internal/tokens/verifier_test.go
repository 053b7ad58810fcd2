package tokens

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestVerifier_RequireAccess(t *testing.T) {
	c := newTestCodec(t)
	svc := NewService(c, 0, 0)
	ver := NewVerifier(c)

	tok, err := svc.IssueAccess(map[string]interface{}{"name": "Ann", "email": "ann@x.com"})
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}
	claims, err := ver.Require(tok, TypeAccess)
	if err != nil {
		t.Fatalf("Require error: %v", err)
	}
	if claims["email"] != "ann@x.com" {
		t.Fatalf("unexpected claims: %v", claims)
	}
}

// A refresh token presented where an access token is required must be
// rejected with a type-specific error, and vice versa.
func TestVerifier_TypeMismatch(t *testing.T) {
	c := newTestCodec(t)
	svc := NewService(c, 0, 0)
	ver := NewVerifier(c)

	refresh, err := svc.IssueRefresh(map[string]interface{}{"name": "Ann"})
	if err != nil {
		t.Fatalf("IssueRefresh error: %v", err)
	}
	_, err = ver.Require(refresh, TypeAccess)
	if !errors.Is(err, ErrWrongTokenType) {
		t.Fatalf("expected ErrWrongTokenType, got: %v", err)
	}
	if !strings.Contains(err.Error(), "access token required") {
		t.Fatalf("error should name the required type: %v", err)
	}
	if _, err := ver.Require(refresh, TypeRefresh); err != nil {
		t.Fatalf("refresh token should satisfy refresh requirement: %v", err)
	}

	access, err := svc.IssueAccess(map[string]interface{}{"name": "Ann"})
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}
	if _, err := ver.Require(access, TypeRefresh); !errors.Is(err, ErrWrongTokenType) {
		t.Fatalf("expected ErrWrongTokenType, got: %v", err)
	}
}

func TestVerifier_InvalidToken(t *testing.T) {
	c := newTestCodec(t)
	ver := NewVerifier(c)
	if _, err := ver.Require("garbage", TypeAccess); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got: %v", err)
	}
}

func TestVerifier_ExpiredToken(t *testing.T) {
	c := newTestCodec(t)
	ver := NewVerifier(c)
	tok, err := c.Encode(jwt.MapClaims{"type": TypeAccess, "exp": time.Now().Add(-time.Second).Unix()})
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if _, err := ver.Require(tok, TypeAccess); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for expired token, got: %v", err)
	}
}

// The type claim must never be trusted before signature verification: a
// forged token claiming type=access fails as invalid, not as wrong-type.
func TestVerifier_ForgedTokenNeverReachesTypeCheck(t *testing.T) {
	c := newTestCodec(t)
	ver := NewVerifier(c)
	forger, _ := NewCodec("attacker-controlled-secret-xxxxxxxx", "HS256")
	tok, err := forger.Encode(jwt.MapClaims{"type": TypeAccess, "exp": time.Now().Add(time.Minute).Unix()})
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	_, err = ver.Require(tok, TypeAccess)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got: %v", err)
	}
	if errors.Is(err, ErrWrongTokenType) {
		t.Fatalf("forged token must not reach the type check")
	}
}
