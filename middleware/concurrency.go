package middleware

import (
	"errors"
	"net/http"
	"time"

	"qa-service/middleware/application"
	"qa-service/middleware/domain"

	"go.uber.org/zap"
)

type ConcurrencyOptions struct {
	Pool           domain.SlotPool
	RejectStatus   int
	AcquireTimeout time.Duration
	Logger         *zap.SugaredLogger
}

// ConcurrencyMiddleware limita o número de requisições em andamento.
//
// Sem vaga dentro de AcquireTimeout a resposta é RejectStatus (503 por padrão).
// Se o cliente desistir enquanto espera, nada é escrito.
func ConcurrencyMiddleware(opts ConcurrencyOptions) func(next http.Handler) http.Handler {
	if opts.Pool == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	if opts.RejectStatus == 0 {
		opts.RejectStatus = http.StatusServiceUnavailable
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}

	svc := application.ConcurrencyService{
		Pool:           opts.Pool,
		AcquireTimeout: opts.AcquireTimeout,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			release, err := svc.Acquire(r.Context())
			if err != nil {
				if errors.Is(err, domain.ErrNoSlot) {
					opts.Logger.Warnw("rejecting request, no concurrency slot",
						"request_id", RequestIDFrom(r.Context()), "path", r.URL.Path)
					http.Error(w, http.StatusText(opts.RejectStatus), opts.RejectStatus)
					return
				}
				opts.Logger.Debugw("client gone while waiting for slot",
					"request_id", RequestIDFrom(r.Context()), "error", err)
				return
			}
			defer release()

			next.ServeHTTP(w, r)
		})
	}
}
