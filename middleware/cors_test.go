package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func corsHandler(opts CORSOptions) (http.Handler, *int) {
	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	})
	return CORS(opts)(next), &calls
}

func preflight(method, headers string) *http.Request {
	r := httptest.NewRequest(http.MethodOptions, "http://example/questions", nil)
	r.Header.Set("Origin", "http://client.test")
	r.Header.Set("Access-Control-Request-Method", method)
	if headers != "" {
		r.Header.Set("Access-Control-Request-Headers", headers)
	}
	return r
}

func TestCORS_NoOriginPassesThrough(t *testing.T) {
	h, calls := corsHandler(CORSOptions{})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "http://example/questions", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, *calls)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_AnyOriginEchoesOrigin(t *testing.T) {
	h, calls := corsHandler(CORSOptions{})

	r := httptest.NewRequest(http.MethodGet, "http://example/questions", nil)
	r.Header.Set("Origin", "http://client.test")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, *calls)
	assert.Equal(t, "http://client.test", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_PreflightAllowed(t *testing.T) {
	h, calls := corsHandler(CORSOptions{MaxAge: 600})

	w := httptest.NewRecorder()
	h.ServeHTTP(w, preflight("put", "Content-Type"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, *calls)
	assert.Equal(t, "GET, POST, PUT, DELETE", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "content-type", w.Header().Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "600", w.Header().Get("Access-Control-Max-Age"))
}

func TestCORS_Forbidden(t *testing.T) {
	tests := []struct {
		name string
		opts CORSOptions
		req  *http.Request
		body string
	}{
		{name: "method", req: preflight(http.MethodPatch, ""), body: "CORS request forbidden: request-method not allowed\n"},
		{name: "header", req: preflight(http.MethodPost, "content-type, x-secret"), body: "CORS request forbidden: header not allowed: x-secret\n"},
		{name: "origin", opts: CORSOptions{AllowedOrigins: []string{"http://other.test"}}, req: preflight(http.MethodGet, ""), body: "CORS request forbidden: origin not allowed\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, calls := corsHandler(tt.opts)

			w := httptest.NewRecorder()
			h.ServeHTTP(w, tt.req)

			assert.Equal(t, http.StatusForbidden, w.Code)
			assert.Equal(t, tt.body, w.Body.String())
			assert.Equal(t, 0, *calls)
		})
	}
}

func TestCORS_ExplicitOriginList(t *testing.T) {
	h, calls := corsHandler(CORSOptions{AllowedOrigins: []string{"HTTP://CLIENT.TEST"}})

	r := httptest.NewRequest(http.MethodDelete, "http://example/questions/1", nil)
	r.Header.Set("Origin", "http://client.test")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, *calls)
}
