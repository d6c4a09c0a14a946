package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/DoyleJ11/battleship-backend/internal/hub"
	"github.com/DoyleJ11/battleship-backend/internal/results"
	"go.uber.org/zap"
)

const (
	defaultMatchLimit = 20
	maxMatchLimit     = 100
)

// History is the read side of the match store.
type History interface {
	Recent(ctx context.Context, limit int) ([]results.MatchRecord, error)
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func Stats(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		st, err := h.Stats(ctx)
		if err != nil {
			log.Warn("stats unavailable", zap.Error(err))
			http.Error(w, "hub unavailable", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

func Matches(history History, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultMatchLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
				return
			}
			limit = min(n, maxMatchLimit)
		}

		recs, err := history.Recent(r.Context(), limit)
		if err != nil {
			log.Error("loading match history failed", zap.Error(err))
			http.Error(w, "failed to load matches", http.StatusInternalServerError)
			return
		}
		if recs == nil {
			recs = []results.MatchRecord{}
		}
		writeJSON(w, http.StatusOK, recs)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
