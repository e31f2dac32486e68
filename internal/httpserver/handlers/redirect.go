package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vladlyt/mj/internal/domain"
	"github.com/vladlyt/mj/internal/httpserver/deps"
	"github.com/vladlyt/mj/internal/logger"
)

// usageTimeout bounds the best-effort counter update so a slow Redis never
// delays a redirect.
const usageTimeout = 250 * time.Millisecond

// Redirect sends the caller to the canonical URL of the {token} room.
// An optional ?name= overrides the default display name.
func Redirect(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := chi.URLParam(r, "token")
		if unescaped, err := url.PathUnescape(token); err == nil {
			token = unescaped
		}
		if token == "" {
			http.Error(w, "missing room token", http.StatusBadRequest)
			return
		}

		res := d.Resolver.Classify(token)
		// A qualified token is passed through as-is, so it must be a link
		// on the room host and not merely mention it.
		if res.Kind == domain.KindQualified && !strings.HasPrefix(token, d.Resolver.Host()+"/") {
			d.Logger.Warn("rejected foreign room link", logger.String("token", token))
			http.Error(w, "room link must start with "+d.Resolver.Host()+"/", http.StatusBadRequest)
			return
		}
		target := d.Resolver.BuildURL(token, r.URL.Query().Get("name"))

		d.Logger.Info("redirect",
			logger.String("token", token),
			logger.String("kind", res.Kind.String()),
			logger.String("room", res.RoomID))

		if d.Usage != nil {
			ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), usageTimeout)
			if err := d.Usage.IncrementUsage(ctx, token); err != nil {
				d.Logger.Warn("failed to count redirect", logger.Error(err))
			}
			cancel()
		}

		http.Redirect(w, r, target, http.StatusFound)
	}
}

type aliasResponse struct {
	Alias  string `json:"alias"`
	RoomID string `json:"room_id"`
	URL    string `json:"url"`
}

// Aliases lists every alias with its canonical URL. With ?q= only aliases
// matching q are listed, best match first.
func Aliases(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries := d.Aliases.List()
		if q := r.URL.Query().Get("q"); q != "" {
			ranked := domain.SuggestAliases(q, entries, 0)
			entries = make([]domain.Alias, len(ranked))
			for i, s := range ranked {
				entries[i] = s.Alias
			}
		}
		out := make([]aliasResponse, 0, len(entries))
		for _, a := range entries {
			out = append(out, aliasResponse{
				Alias:  a.Name,
				RoomID: a.RoomID,
				URL:    d.Resolver.BuildURL(a.RoomID, ""),
			})
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(out)
	}
}
