package qa

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"

	"qa-service/qa/domain"
)

const maxBodyBytes = 1 << 20

// questionBody usa ponteiros para exigir id, title e content.
type questionBody struct {
	ID      *string  `json:"id"`
	Title   *string  `json:"title"`
	Content *string  `json:"content"`
	Tags    []string `json:"tags"`
}

func decodeQuestion(w http.ResponseWriter, r *http.Request) (domain.Question, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))

	var body questionBody
	if err := dec.Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Question{}, badBody("empty body")
		}
		return domain.Question{}, badBody(err.Error())
	}
	if dec.More() {
		return domain.Question{}, badBody("unexpected data after JSON value")
	}

	switch {
	case body.ID == nil:
		return domain.Question{}, badBody("missing field `id`")
	case body.Title == nil:
		return domain.Question{}, badBody("missing field `title`")
	case body.Content == nil:
		return domain.Question{}, badBody("missing field `content`")
	}

	return domain.Question{
		ID:      domain.QuestionID(*body.ID),
		Title:   *body.Title,
		Content: *body.Content,
		Tags:    body.Tags,
	}, nil
}

// answerForm lê os campos do form. Campos ausentes ficam vazios; a validação de
// presença é do Store (ErrMissingParameters).
type answerForm struct {
	Content    string
	QuestionID domain.QuestionID
}

func decodeAnswerForm(w http.ResponseWriter, r *http.Request) (answerForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	ct := r.Header.Get("Content-Type")
	if ct == "" {
		// sem Content-Type o ParseForm ignora o corpo; decodifica na mão.
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			return answerForm{}, badBody(err.Error())
		}
		values, err := url.ParseQuery(string(raw))
		if err != nil {
			return answerForm{}, badBody(err.Error())
		}
		return formValues(values), nil
	}
	if !strings.HasPrefix(strings.ToLower(ct), "application/x-www-form-urlencoded") {
		return answerForm{}, badBody("expected application/x-www-form-urlencoded, got " + ct)
	}
	if err := r.ParseForm(); err != nil {
		return answerForm{}, badBody(err.Error())
	}
	return formValues(r.PostForm), nil
}

func formValues(v url.Values) answerForm {
	return answerForm{
		Content:    v.Get("content"),
		QuestionID: domain.QuestionID(v.Get("questionId")),
	}
}

// pageParams devolve nil quando não há query string alguma: listagem sem paginação.
// Qualquer parâmetro presente leva ao caminho paginado.
func pageParams(r *http.Request) *domain.PageParams {
	q := r.URL.Query()
	if len(q) == 0 {
		return nil
	}
	p := &domain.PageParams{}
	if _, ok := q["start"]; ok {
		v := q.Get("start")
		p.Start = &v
	}
	if _, ok := q["end"]; ok {
		v := q.Get("end")
		p.End = &v
	}
	return p
}
