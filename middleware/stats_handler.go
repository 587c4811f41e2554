package middleware

import (
	"encoding/json"
	"net/http"

	"qa-service/middleware/domain"

	"go.uber.org/zap"
)

type statsResponse struct {
	domain.StatsSnapshot
	InFlight    *int `json:"in_flight,omitempty"`
	MaxInFlight *int `json:"max_in_flight,omitempty"`
}

// StatsHandler expõe o snapshot de estatísticas e, se gauge != nil, a ocupação do pool.
func StatsHandler(reader domain.StatsReader, gauge domain.SlotGauge, logger *zap.SugaredLogger) http.Handler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		snap, err := reader.Snapshot(r.Context())
		if err != nil {
			logger.Errorw("failed to read stats", "request_id", RequestIDFrom(r.Context()), "error", err)
			http.Error(w, "stats unavailable", http.StatusServiceUnavailable)
			return
		}

		resp := statsResponse{StatsSnapshot: snap}
		if gauge != nil {
			inUse, c := gauge.InUse(), gauge.Cap()
			resp.InFlight, resp.MaxInFlight = &inUse, &c
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.Errorw("failed to encode stats", "error", err)
		}
	})
}
