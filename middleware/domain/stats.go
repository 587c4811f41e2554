package domain

import (
	"context"
	"time"
)

// RequestEvent representa uma requisição já respondida.
//
// Route deve ser o padrão registrado no mux (ex.: "PUT /questions/{id}") e não o path
// cru, senão cada id vira uma série nova.
type RequestEvent struct {
	Client string
	Method string
	Route  string
	Status int

	Duration time.Duration
	At       time.Time
}

// StatusClass devolve "2xx", "4xx", etc.
func (e RequestEvent) StatusClass() string {
	return StatusClass(e.Status)
}

func StatusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}

// Counters conta respostas por classe de status.
type Counters map[string]int64

func (c Counters) Total() int64 {
	var n int64
	for _, v := range c {
		n += v
	}
	return n
}

// StatsSnapshot é uma cópia das estatísticas acumuladas.
type StatsSnapshot struct {
	Total    Counters            `json:"total"`
	ByRoute  map[string]Counters `json:"by_route"`
	ByClient map[string]Counters `json:"by_client,omitempty"`
}

// StatsStore é a estratégia de persistência das estatísticas.
//
// Implementações podem armazenar em Redis, memória, etc.
// O middleware trata erro como best-effort (não derruba a requisição).
type StatsStore interface {
	Record(ctx context.Context, ev RequestEvent) error
}

// StatsReader é implementado por stores que conseguem devolver um snapshot.
type StatsReader interface {
	Snapshot(ctx context.Context) (StatsSnapshot, error)
}
