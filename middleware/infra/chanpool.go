package infra

import (
	"context"

	"qa-service/middleware/domain"
)

var (
	_ domain.SlotPool  = (*ChanPool)(nil)
	_ domain.SlotGauge = (*ChanPool)(nil)
)

// ChanPool é um semáforo baseado em channel com capacidade `max`.
type ChanPool struct {
	sem chan struct{}
}

func NewChanPool(max int) *ChanPool {
	return &ChanPool{sem: make(chan struct{}, max)}
}

func (p *ChanPool) Acquire(ctx context.Context) (func(), bool) {
	// ctx já cancelado não deve ganhar vaga mesmo com o canal livre.
	if ctx.Err() != nil {
		return nil, false
	}
	select {
	case p.sem <- struct{}{}:
		return func() { <-p.sem }, true
	case <-ctx.Done():
		return nil, false
	}
}

func (p *ChanPool) InUse() int { return len(p.sem) }
func (p *ChanPool) Cap() int { return cap(p.sem) }
