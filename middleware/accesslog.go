package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"qa-service/middleware/application"
	"qa-service/middleware/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-Id"

type requestIDKey struct{}

// RequestIDFrom devolve o request id colocado no contexto pelo AccessLog ("" se ausente).
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// WithRequestID devolve um contexto carregando id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

type AccessLogOptions struct {
	Logger *zap.SugaredLogger
	Stats  domain.StatsStore
	KeyFn  KeyFunc
	// TrackClients repassa a chave do cliente ao StatsStore.
	TrackClients bool
	// TrustRequestID reaproveita um X-Request-Id vindo do cliente.
	TrustRequestID bool
	// Now existe para testes.
	Now func() time.Time
}

// AccessLog atribui um request id, mede a requisição e, ao final, loga
// "method path status elapsed headers" e registra o evento de estatística.
//
// Erros do StatsStore são apenas logados.
func AccessLog(opts AccessLogOptions) func(next http.Handler) http.Handler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	if opts.KeyFn == nil {
		opts.KeyFn = ClientKeyFunc("", false)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	stats := application.StatsService{Store: opts.Stats, TrackClients: opts.TrackClients}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := opts.Now()

			id := ""
			if opts.TrustRequestID {
				id = strings.TrimSpace(r.Header.Get(RequestIDHeader))
			}
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)
			r = r.WithContext(WithRequestID(r.Context(), id))

			rec := &statusRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			elapsed := opts.Now().Sub(start)
			status := rec.Status()
			client := opts.KeyFn(r)

			opts.Logger.Infow("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"elapsed_ms", formatMillis(elapsed),
				"request_id", id,
				"client", client,
				"headers", headerSummary(r.Header),
			)

			// r.Pattern é preenchido pelo ServeMux na mesma *http.Request.
			err := stats.Record(r.Context(), domain.RequestEvent{
				Client:   client,
				Method:   r.Method,
				Route:    r.Pattern,
				Status:   status,
				Duration: elapsed,
				At:       start,
			})
			if err != nil {
				opts.Logger.Warnw("failed to record request stats", "request_id", id, "error", err)
			}
		})
	}
}

// headerSummary achata os headers em "Nome: v1, v2", sem Authorization e Cookie.
func headerSummary(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		switch http.CanonicalHeaderKey(k) {
		case "Authorization", "Cookie", "Proxy-Authorization":
			continue
		}
		out[k] = strings.Join(v, ", ")
	}
	return out
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Status() int {
	if r.status == 0 {
		return http.StatusOK
	}
	return r.status
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }
