package security

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/rs/cors"
)

// CORSMethods are the methods advertised to allowed origins.
var CORSMethods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodOptions,
	http.MethodHead,
}

// NewCORS builds the cross-origin policy: the listed origins may call any
// method with any header, credentials included. Preflight requests are
// answered here and never reach the handlers.
func NewCORS(allowedOrigins []string, logger *slog.Logger) *cors.Cors {
	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   CORSMethods,
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	if logger != nil && logger.Enabled(context.Background(), slog.LevelDebug) {
		c.Log = slogAdapter{logger}
	}
	return c
}

type slogAdapter struct{ l *slog.Logger }

func (a slogAdapter) Printf(format string, v ...any) {
	a.l.Debug("cors", "detail", fmt.Sprintf(format, v...))
}
