package application

import (
	"context"
	"strings"

	"qa-service/middleware/domain"
)

// StatsService normaliza eventos antes de entregá-los ao StatsStore.
type StatsService struct {
	Store domain.StatsStore
	// TrackClients mantém Client no evento; desligado, o campo é descartado para
	// não explodir a cardinalidade do backend.
	TrackClients bool
}

func (s StatsService) Record(ctx context.Context, ev domain.RequestEvent) error {
	if s.Store == nil {
		return nil
	}
	ev.Method = strings.ToUpper(strings.TrimSpace(ev.Method))
	ev.Route = strings.TrimSpace(ev.Route)
	if ev.Route == "" {
		ev.Route = "unmatched"
	}
	if !s.TrackClients {
		ev.Client = ""
	}
	return s.Store.Record(ctx, ev)
}
