package app

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

func TestBridgeServiceGenerateToken(t *testing.T) {
	secret := "test-secret"
	svc := NewBridgeService(secret, "menteur", time.Hour)

	tokenString, err := svc.GenerateToken("alice", "room-1")
	if err != nil {
		t.Fatalf("generate token error: %v", err)
	}

	claims := parseBridgeClaims(t, tokenString, secret)
	if got := stringClaim(t, claims, "iss"); got != "menteur" {
		t.Fatalf("iss = %s, want menteur", got)
	}
	if got := stringClaim(t, claims, "sub"); got != "alice" {
		t.Fatalf("sub = %s, want alice", got)
	}
	if got := stringClaim(t, claims, "chn"); got != "room-1" {
		t.Fatalf("chn = %s, want room-1", got)
	}
	if stringClaim(t, claims, "jti") == "" {
		t.Fatal("jti must be set")
	}
}

func TestBridgeServiceVerifyRoundTrip(t *testing.T) {
	svc := NewBridgeService("test-secret", "menteur", time.Hour)
	tokenString, err := svc.GenerateToken("bob", "room-2")
	if err != nil {
		t.Fatalf("generate token error: %v", err)
	}

	got, err := svc.Verify(tokenString)
	if err != nil {
		t.Fatalf("verify error: %v", err)
	}
	if got != (BridgeClaims{Identity: "bob", ChannelID: "room-2"}) {
		t.Fatalf("claims = %+v", got)
	}
}

func TestBridgeServiceVerifyRejects(t *testing.T) {
	good := NewBridgeService("test-secret", "menteur", time.Hour)

	expired, err := NewBridgeService("test-secret", "menteur", -time.Minute).GenerateToken("bob", "room")
	if err != nil {
		t.Fatalf("generate expired: %v", err)
	}
	otherKey, err := NewBridgeService("other-secret", "menteur", time.Hour).GenerateToken("bob", "room")
	if err != nil {
		t.Fatalf("generate other key: %v", err)
	}
	otherIssuer, err := NewBridgeService("test-secret", "someone-else", time.Hour).GenerateToken("bob", "room")
	if err != nil {
		t.Fatalf("generate other issuer: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "expired", token: expired},
		{name: "wrong key", token: otherKey},
		{name: "wrong issuer", token: otherIssuer},
		{name: "garbage", token: "not.a.token"},
		{name: "empty", token: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := good.Verify(tt.token); !errors.Is(err, ErrInvalidBridgeToken) {
				t.Fatalf("err = %v, want ErrInvalidBridgeToken", err)
			}
		})
	}
}

func TestBridgeServiceRequiresConfig(t *testing.T) {
	svc := NewBridgeService("", "menteur", time.Hour)
	if svc.Enabled() {
		t.Fatal("service without secret must be disabled")
	}
	if _, err := svc.GenerateToken("alice", "room"); !errors.Is(err, ErrBridgeDisabled) {
		t.Fatalf("generate err = %v, want ErrBridgeDisabled", err)
	}
	if _, err := svc.Verify("x"); !errors.Is(err, ErrBridgeDisabled) {
		t.Fatalf("verify err = %v, want ErrBridgeDisabled", err)
	}
}

func TestBridgeServiceRequiresIdentityAndChannel(t *testing.T) {
	svc := NewBridgeService("secret", "menteur", time.Hour)
	if _, err := svc.GenerateToken("", "room"); err == nil {
		t.Fatal("expected error for empty identity")
	}
	if _, err := svc.GenerateToken("alice", ""); err == nil {
		t.Fatal("expected error for empty channel")
	}
}

func parseBridgeClaims(t *testing.T, tokenString, secret string) jwt.MapClaims {
	t.Helper()

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		t.Fatalf("parse token error: %v", err)
	}
	if !token.Valid {
		t.Fatal("token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("claims are not map claims")
	}
	return claims
}

func stringClaim(t *testing.T, claims jwt.MapClaims, name string) string {
	t.Helper()
	value, ok := claims[name]
	if !ok {
		t.Fatalf("missing %s claim", name)
	}
	str, ok := value.(string)
	if !ok {
		t.Fatalf("%s claim is not a string", name)
	}
	return str
}
