// Package channeltoken mints and verifies the optional channel-addressing
// token: a short-lived JWT binding a connection attempt to a (room_id,
// player_id) pair so a websocket upgrade can be addressed without a
// query-string room/player pair the client could forge for someone else's
// seat. It is not an authentication scheme — profiles carry no
// credential — only a signed routing claim, checked by the bootstrap
// surface's upgrade route through Minter.Verify.
package channeltoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/kazerdira/wolverix/backend/internal/models"
)

var ErrInvalidToken = errors.New("channeltoken: invalid or expired token")

type claims struct {
	RoomID   string          `json:"room_id"`
	PlayerID models.PlayerID `json:"player_id"`
	jwt.RegisteredClaims
}

// Minter mints and verifies channel-addressing tokens under one secret.
type Minter struct {
	secret []byte
	ttl    time.Duration
}

func NewMinter(secret string, ttl time.Duration) *Minter {
	return &Minter{secret: []byte(secret), ttl: ttl}
}

// Mint issues a token scoped to exactly one room+player pair, valid for
// the minter's configured TTL.
func (m *Minter) Mint(roomID string, playerID models.PlayerID) (string, error) {
	now := models.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RoomID: roomID, PlayerID: playerID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	})
	return token.SignedString(m.secret)
}

// Verify parses a token string and returns the room and player it
// addresses, or ErrInvalidToken if it is malformed, expired, or signed
// with the wrong secret.
func (m *Minter) Verify(tokenString string) (roomID string, playerID models.PlayerID, err error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", "", ErrInvalidToken
	}
	c, ok := parsed.Claims.(*claims)
	if !ok {
		return "", "", ErrInvalidToken
	}
	return c.RoomID, c.PlayerID, nil
}
