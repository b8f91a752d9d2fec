package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/potatoland/potatoland/shared/domain"
)

var (
	ErrTokenExpired = errors.New("invitation token expired")
	ErrTokenInvalid = errors.New("invitation token invalid")
)

type invitationClaims struct {
	UserId  domain.UserId  `json:"userId"`
	Role    domain.Role    `json:"role"`
	BoardId domain.BoardId `json:"boardId"`
	jwt.RegisteredClaims
}

// Invitation signs and verifies invitation tokens with HS256.
type Invitation struct {
	secretKey []byte
	now       func() time.Time
}

func NewInvitation(secretKey string) *Invitation {
	return &Invitation{secretKey: []byte(secretKey), now: time.Now}
}

// WithClock replaces the time source, for tests.
func (i *Invitation) WithClock(now func() time.Time) *Invitation {
	i.now = now
	return i
}

// Sign issues a token for payload that expires expiresInHours after now.
func (i *Invitation) Sign(payload domain.InvitationPayload, expiresInHours int) (string, error) {
	if expiresInHours <= 0 {
		return "", fmt.Errorf("expiry must be positive, got %dh", expiresInHours)
	}
	issued := i.now()
	claims := invitationClaims{
		UserId:  payload.UserId,
		Role:    payload.Role,
		BoardId: payload.BoardId,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(time.Duration(expiresInHours) * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secretKey)
	if err != nil {
		return "", fmt.Errorf("sign invitation token: %w", err)
	}
	return token, nil
}

// Verify returns the payload of a valid token. Failures wrap ErrTokenExpired
// or ErrTokenInvalid.
func (i *Invitation) Verify(tokenString string) (domain.InvitationPayload, error) {
	var claims invitationClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims,
		func(token *jwt.Token) (interface{}, error) { return i.secretKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.InvitationPayload{}, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return domain.InvitationPayload{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	return domain.InvitationPayload{UserId: claims.UserId, Role: claims.Role, BoardId: claims.BoardId}, nil
}
