package infra

import (
	"context"
	"sync"

	"qa-service/middleware/domain"
)

var (
	_ domain.StatsStore  = (*MemoryStatsStore)(nil)
	_ domain.StatsReader = (*MemoryStatsStore)(nil)
)

// MemoryStatsStore é uma implementação simples em memória.
// É o backend padrão; não faz expiração.
type MemoryStatsStore struct {
	mu       sync.Mutex
	total    domain.Counters
	byRoute  map[string]domain.Counters
	byClient map[string]domain.Counters
}

func NewMemoryStatsStore() *MemoryStatsStore {
	return &MemoryStatsStore{
		total:    domain.Counters{},
		byRoute:  make(map[string]domain.Counters),
		byClient: make(map[string]domain.Counters),
	}
}

func (s *MemoryStatsStore) Record(_ context.Context, ev domain.RequestEvent) error {
	class := ev.StatusClass()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.total[class]++
	incr(s.byRoute, ev.Route, class)
	if ev.Client != "" {
		incr(s.byClient, ev.Client, class)
	}
	return nil
}

func incr(m map[string]domain.Counters, key, class string) {
	c, ok := m[key]
	if !ok {
		c = domain.Counters{}
		m[key] = c
	}
	c[class]++
}

func (s *MemoryStatsStore) Snapshot(_ context.Context) (domain.StatsSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := domain.StatsSnapshot{
		Total:   copyCounters(s.total),
		ByRoute: make(map[string]domain.Counters, len(s.byRoute)),
	}
	for k, v := range s.byRoute {
		out.ByRoute[k] = copyCounters(v)
	}
	if len(s.byClient) > 0 {
		out.ByClient = make(map[string]domain.Counters, len(s.byClient))
		for k, v := range s.byClient {
			out.ByClient[k] = copyCounters(v)
		}
	}
	return out, nil
}

func copyCounters(c domain.Counters) domain.Counters {
	out := make(domain.Counters, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
