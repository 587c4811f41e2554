package qa

import (
	"errors"
	"net/http"

	"qa-service/qa/domain"
)

// errBadBody marca erros de decodificação do corpo (JSON ou form).
type errBadBody struct{ msg string }

func (e *errBadBody) Error() string { return e.msg }

func badBody(msg string) error { return &errBadBody{msg: "Request body deserialize error: " + msg} }

// statusFor traduz um erro para o status HTTP.
func statusFor(err error) int {
	var bb *errBadBody
	switch {
	case domain.IsDomainError(err):
		return http.StatusRequestedRangeNotSatisfiable
	case errors.As(err, &bb):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Errorw("unexpected error", "request_id", requestID(r), "path", r.URL.Path, "error", err)
		h.respondText(w, status, http.StatusText(status))
		return
	}
	h.logger.Debugw("request rejected", "request_id", requestID(r), "path", r.URL.Path, "status", status, "error", err)
	h.respondText(w, status, err.Error())
}
