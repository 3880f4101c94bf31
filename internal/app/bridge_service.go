package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
	"github.com/google/uuid"
)

var (
	ErrBridgeDisabled     = errors.New("bridge tokens are not configured")
	ErrInvalidBridgeToken = errors.New("invalid bridge token")
)

// BridgeClaims identifies the player and channel a gateway may act for.
type BridgeClaims struct {
	Identity  string
	ChannelID string
}

// BridgeService signs and checks the tokens that let an external chat
// gateway issue commands on behalf of a player.
type BridgeService struct {
	secret string
	issuer string
	ttl    time.Duration
}

func NewBridgeService(secret, issuer string, ttl time.Duration) *BridgeService {
	return &BridgeService{secret: secret, issuer: issuer, ttl: ttl}
}

// Enabled reports whether a signing secret is configured.
func (s *BridgeService) Enabled() bool {
	return s != nil && s.secret != "" && s.issuer != ""
}

func (s *BridgeService) GenerateToken(identity, channelID string) (string, error) {
	if !s.Enabled() {
		return "", ErrBridgeDisabled
	}
	if identity == "" {
		return "", fmt.Errorf("identity is required")
	}
	if channelID == "" {
		return "", fmt.Errorf("channel is required")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss": s.issuer,
		"sub": identity,
		"chn": channelID,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
		"jti": uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// Verify checks the signature, expiry and issuer of tokenString.
func (s *BridgeService) Verify(tokenString string) (BridgeClaims, error) {
	if !s.Enabled() {
		return BridgeClaims{}, ErrBridgeDisabled
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return BridgeClaims{}, fmt.Errorf("%w: %v", ErrInvalidBridgeToken, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return BridgeClaims{}, ErrInvalidBridgeToken
	}
	if !claims.VerifyIssuer(s.issuer, true) {
		return BridgeClaims{}, fmt.Errorf("%w: wrong issuer", ErrInvalidBridgeToken)
	}

	identity, _ := claims["sub"].(string)
	channelID, _ := claims["chn"].(string)
	if identity == "" || channelID == "" {
		return BridgeClaims{}, fmt.Errorf("%w: missing subject or channel", ErrInvalidBridgeToken)
	}
	return BridgeClaims{Identity: identity, ChannelID: channelID}, nil
}
