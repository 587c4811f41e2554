package qa

import (
	"encoding/json"
	"net/http"
	"strconv"

	"qa-service/middleware"
	"qa-service/qa/application"
	"qa-service/qa/domain"

	"go.uber.org/zap"
)

// Handler implementa as rotas HTTP do serviço.
type Handler struct {
	store     domain.Store
	questions application.QuestionService
	logger    *zap.SugaredLogger
}

func NewHandler(store domain.Store, logger *zap.SugaredLogger) *Handler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Handler{
		store:     store,
		questions: application.QuestionService{Store: store},
		logger:    logger,
	}
}

// RegisterRoutes registra as rotas no mux, inclusive o catch-all de 404.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /questions", h.ListQuestions)
	mux.HandleFunc("POST /questions", h.AddQuestion)
	mux.HandleFunc("GET /questions/{id}", h.GetQuestion)
	mux.HandleFunc("PUT /questions/{id}", h.UpdateQuestion)
	mux.HandleFunc("DELETE /questions/{id}", h.DeleteQuestion)
	mux.HandleFunc("POST /answers", h.AddAnswer)
	mux.HandleFunc("GET /answers", h.ListAnswers)
	mux.HandleFunc("/", h.NotFound)
}

func (h *Handler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	id := requestID(r)
	h.logger.Infow("start querying questions", "request_id", id)

	params := pageParams(r)
	page, err := h.questions.List(params)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if page.Pagination != nil {
		h.logger.Infow("pagination set", "request_id", id, "start", page.Pagination.Start, "end", page.Pagination.End)
	} else {
		h.logger.Infow("no pagination used", "request_id", id)
	}

	w.Header().Set("X-Total-Count", strconv.Itoa(page.Total))
	h.respondJSON(w, http.StatusOK, page.Items)
}

func (h *Handler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	q, ok := h.store.GetQuestion(domain.QuestionID(r.PathValue("id")))
	if !ok {
		h.fail(w, r, domain.ErrQuestionNotFound)
		return
	}
	h.respondJSON(w, http.StatusOK, q)
}

func (h *Handler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	q, err := decodeQuestion(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.store.AddQuestion(q)
	h.respondText(w, http.StatusOK, "Question added")
}

func (h *Handler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	q, err := decodeQuestion(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.store.UpdateQuestion(domain.QuestionID(r.PathValue("id")), q); err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondText(w, http.StatusOK, "Question updated")
}

func (h *Handler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteQuestion(domain.QuestionID(r.PathValue("id"))); err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondText(w, http.StatusOK, "Question deleted")
}

func (h *Handler) AddAnswer(w http.ResponseWriter, r *http.Request) {
	form, err := decodeAnswerForm(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	a, err := h.store.AddAnswer(form.Content, form.QuestionID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.logger.Debugw("answer created", "request_id", requestID(r), "answer_id", a.ID, "question_id", a.QuestionID)
	h.respondText(w, http.StatusOK, "Answer created")
}

func (h *Handler) ListAnswers(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.store.ListAnswers())
}

func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.respondText(w, http.StatusNotFound, "Route not found")
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Errorw("failed to encode JSON response", "error", err)
	}
}

func (h *Handler) respondText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(msg))
}

func requestID(r *http.Request) string { return middleware.RequestIDFrom(r.Context()) }
