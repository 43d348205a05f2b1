package middleware

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"

	"github.com/labstack/echo/v4"
)

// callerID identifies the caller for rate-limit keys: the chef id when a
// session was already resolved, a digest of the presented token otherwise,
// and "guest" for anonymous requests. Raw tokens never end up in keys.
func callerID(c echo.Context) string {
	if chef, ok := ChefFrom(c); ok {
		return strconv.FormatInt(chef.ID, 10)
	}
	if tok := TokenFrom(c); tok != "" {
		sum := sha1.Sum([]byte(tok))
		return "t" + hex.EncodeToString(sum[:6])
	}
	return "guest"
}
