package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/zvMateo/Combustible-MultiTentant-sub002/internal/application/session"
)

// AccessTokenCookie cookie con la credencial persistida.
const AccessTokenCookie = "access_token"

var _ session.CredentialStore = (*cookieCredentials)(nil)

// cookieCredentials guarda la credencial en una cookie HttpOnly. Para clientes que no
// manejan cookies también se acepta Authorization: Bearer.
type cookieCredentials struct {
	c      *fiber.Ctx
	secure bool
}

func (k *cookieCredentials) Load() (string, bool) {
	if v := k.c.Cookies(AccessTokenCookie); v != "" {
		return v, true
	}
	parts := strings.SplitN(k.c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		if tok := strings.TrimSpace(parts[1]); tok != "" {
			return tok, true
		}
	}
	return "", false
}

func (k *cookieCredentials) Save(token string) {
	k.c.Cookie(&fiber.Cookie{
		Name:     AccessTokenCookie,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   k.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (k *cookieCredentials) Clear() {
	k.c.Cookie(&fiber.Cookie{
		Name:     AccessTokenCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   k.secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
