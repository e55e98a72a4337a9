package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tu-usuario/inventario-inei/internal/domain"
)

// CookieCodec serializa la sesión como JWT firmado (HS256) para guardarla en
// una cookie del navegador: el equivalente del localStorage del frontend
// original, con firma para que el cliente no pueda fabricar sesiones.
// La expiración real de la credencial la decide el backend; el TTL de la
// cookie solo limita cuánto vive el envoltorio.
type CookieCodec struct {
	secret []byte
	ttl    time.Duration
}

type cookieClaims struct {
	jwt.RegisteredClaims
	Token string          `json:"token"`
	User  json.RawMessage `json:"user"`
}

// NewCookieCodec crea el codec. El secret no puede estar vacío.
func NewCookieCodec(secret string, ttl time.Duration) (*CookieCodec, error) {
	if secret == "" {
		return nil, fmt.Errorf("session: SESSION_SECRET vacío")
	}
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &CookieCodec{secret: []byte(secret), ttl: ttl}, nil
}

// Encode firma la sesión como JWT. Rechaza sesiones parciales.
func (c *CookieCodec) Encode(s Session) (string, error) {
	if !s.Completa() {
		return "", ErrSesionParcial
	}
	user, err := json.Marshal(s.User)
	if err != nil {
		return "", err
	}
	now := time.Now()
	claims := cookieClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.User.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		Token: s.Token,
		User:  user,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(c.secret)
}

// Decode valida la firma y reconstruye la sesión. Cualquier cookie alterada,
// truncada o vencida se lee como "sin sesión" (nunca una sesión parcial).
func (c *CookieCodec) Decode(value string) (Session, bool) {
	if value == "" {
		return Session{}, false
	}
	tok, err := jwt.ParseWithClaims(value, &cookieClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil || !tok.Valid {
		return Session{}, false
	}
	claims, ok := tok.Claims.(*cookieClaims)
	if !ok {
		return Session{}, false
	}
	var user domain.UserProfile
	if err := json.Unmarshal(claims.User, &user); err != nil {
		return Session{}, false
	}
	s := Session{Token: claims.Token, User: user}
	if !s.Completa() {
		return Session{}, false
	}
	return s, true
}
