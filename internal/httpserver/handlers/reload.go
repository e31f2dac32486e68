package handlers

import (
	"net/http"

	"github.com/vladlyt/mj/internal/httpserver/deps"
	"github.com/vladlyt/mj/internal/logger"
)

// Reload asks the config reloader to re-read the config document
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case d.ReloadTrigger <- struct{}{}:
			d.Logger.Info("manual config reload triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			w.WriteHeader(http.StatusAccepted)
			writeText(w, d, "✅ Reload triggered\n")
		default:
			w.WriteHeader(http.StatusTooManyRequests)
			writeText(w, d, "⏳ Reload already pending, please wait\n")
		}
	}
}

func writeText(w http.ResponseWriter, d deps.Deps, msg string) {
	if _, err := w.Write([]byte(msg)); err != nil {
		d.Logger.Debug("failed to write response", logger.Error(err))
	}
}
