package web

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/inventario-inei/internal/session"
)

// CookieStore adaptador de session.Store sobre la cookie firmada de la
// petición actual: el equivalente del localStorage del navegador. Vive lo
// que dura la petición; el estado real viaja en la cookie.
type CookieStore struct {
	c       *fiber.Ctx
	codec   *session.CookieCodec
	name    string
	ttl     time.Duration
	cached  *session.Session // refleja mutaciones hechas en esta petición
	borrada bool
}

// NewCookieStore construye el store para la petición dada.
func NewCookieStore(c *fiber.Ctx, codec *session.CookieCodec, name string, ttl time.Duration) *CookieStore {
	return &CookieStore{c: c, codec: codec, name: name, ttl: ttl}
}

func (s *CookieStore) Get() (session.Session, bool) {
	if s.borrada {
		return session.Session{}, false
	}
	if s.cached != nil {
		return *s.cached, true
	}
	sess, ok := s.codec.Decode(s.c.Cookies(s.name))
	if !ok {
		return session.Session{}, false
	}
	s.cached = &sess
	return sess, true
}

func (s *CookieStore) Set(sess session.Session) error {
	value, err := s.codec.Encode(sess)
	if err != nil {
		return err
	}
	s.c.Cookie(&fiber.Cookie{
		Name:     s.name,
		Value:    value,
		Expires:  time.Now().Add(s.ttl),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	s.cached = &sess
	s.borrada = false
	return nil
}

func (s *CookieStore) Clear() {
	s.c.Cookie(&fiber.Cookie{
		Name:     s.name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	s.cached = nil
	s.borrada = true
}
