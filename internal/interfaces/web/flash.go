package web

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
)

const flashCookie = "inei_flash"

// Flash es un aviso de un solo uso que sobrevive a una redirección: se
// escribe en una cookie y se consume al renderizar la siguiente vista.
type Flash struct {
	Tipo    string `json:"tipo"` // success | error | info
	Mensaje string `json:"mensaje"`
}

// PonerFlash guarda el aviso para la próxima petición.
func PonerFlash(c *fiber.Ctx, tipo, mensaje string) {
	raw, err := json.Marshal(Flash{Tipo: tipo, Mensaje: mensaje})
	if err != nil {
		return
	}
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Expires:  time.Now().Add(time.Minute),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
}

// LeerFlash consume el aviso pendiente, si lo hay, y borra la cookie.
func LeerFlash(c *fiber.Ctx) *Flash {
	value := c.Cookies(flashCookie)
	if value == "" {
		return nil
	}
	c.Cookie(&fiber.Cookie{
		Name:     flashCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
	})
	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var f Flash
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	return &f
}
