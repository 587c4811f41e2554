package middleware

import (
	"net/http"
	"slices"
	"strings"
)

type CORSOptions struct {
	// AllowedOrigins vazio ou contendo "*" aceita qualquer origem.
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	// MaxAge em segundos para o cache do preflight; 0 omite o header.
	MaxAge int
}

// CORS valida requisições cross-origin.
//
// Requisições sem Origin passam direto. Origem, método ou header fora da lista
// respondem 403 com "CORS request forbidden: ...". Preflight válido responde 200
// sem chamar next.
func CORS(opts CORSOptions) func(next http.Handler) http.Handler {
	if len(opts.AllowedMethods) == 0 {
		opts.AllowedMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}
	}
	if len(opts.AllowedHeaders) == 0 {
		opts.AllowedHeaders = []string{"content-type"}
	}

	anyOrigin := len(opts.AllowedOrigins) == 0 || slices.Contains(opts.AllowedOrigins, "*")
	methods := upperAll(opts.AllowedMethods)
	headers := lowerAll(opts.AllowedHeaders)

	originAllowed := func(origin string) bool {
		if anyOrigin {
			return true
		}
		for _, o := range opts.AllowedOrigins {
			if strings.EqualFold(strings.TrimSpace(o), origin) {
				return true
			}
		}
		return false
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Add("Vary", "Origin")
			if !originAllowed(origin) {
				forbidden(w, "origin not allowed")
				return
			}

			reqMethod := r.Header.Get("Access-Control-Request-Method")
			if r.Method == http.MethodOptions && reqMethod != "" {
				if !slices.Contains(methods, strings.ToUpper(reqMethod)) {
					forbidden(w, "request-method not allowed")
					return
				}
				for _, h := range splitHeaderList(r.Header.Get("Access-Control-Request-Headers")) {
					if !slices.Contains(headers, h) {
						forbidden(w, "header not allowed: "+h)
						return
					}
				}

				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", strings.Join(methods, ", "))
				w.Header().Set("Access-Control-Allow-Headers", strings.Join(headers, ", "))
				if opts.MaxAge > 0 {
					w.Header().Set("Access-Control-Max-Age", formatInt(opts.MaxAge))
				}
				w.WriteHeader(http.StatusOK)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			next.ServeHTTP(w, r)
		})
	}
}

func forbidden(w http.ResponseWriter, reason string) {
	http.Error(w, "CORS request forbidden: "+reason, http.StatusForbidden)
}

func splitHeaderList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func upperAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToUpper(strings.TrimSpace(s)))
	}
	return out
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(strings.TrimSpace(s)))
	}
	return out
}
