package infra

import (
	"sort"
	"sync"

	"qa-service/qa/domain"

	"github.com/google/uuid"
)

// Compile-time check.
var _ domain.Store = (*MemoryStore)(nil)

// MemoryStore guarda as duas coleções em mapas, cada um atrás do seu próprio RWMutex.
//
// Locks são adquiridos e liberados por operação. Não existe lock que cubra as duas
// coleções: AddAnswer valida a pergunta sob o lock de leitura de perguntas, solta,
// e só então pega o lock de escrita de respostas. Uma pergunta apagada nesse
// intervalo produz uma resposta órfã (aceito).
type MemoryStore struct {
	qmu       sync.RWMutex
	questions map[domain.QuestionID]questionEntry
	seq       uint64

	amu     sync.RWMutex
	answers map[domain.AnswerID]domain.Answer

	newAnswerID func() string
}

// seq guarda a ordem da primeira inserção do id; é o que torna a listagem estável.
type questionEntry struct {
	q   domain.Question
	seq uint64
}

type MemoryStoreOption func(*MemoryStore)

// WithAnswerIDFunc troca o gerador de ids de resposta (padrão: uuid v4).
func WithAnswerIDFunc(fn func() string) MemoryStoreOption {
	return func(s *MemoryStore) {
		if fn != nil {
			s.newAnswerID = fn
		}
	}
}

// WithQuestions pré-carrega perguntas (ex.: seed).
func WithQuestions(qs []domain.Question) MemoryStoreOption {
	return func(s *MemoryStore) {
		for _, q := range qs {
			s.insertLocked(q)
		}
	}
}

func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		questions:   make(map[domain.QuestionID]questionEntry),
		answers:     make(map[domain.AnswerID]domain.Answer),
		newAnswerID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListQuestions devolve um snapshot em ordem de inserção. Nunca devolve nil.
func (s *MemoryStore) ListQuestions() []domain.Question {
	s.qmu.RLock()
	entries := make([]questionEntry, 0, len(s.questions))
	for _, e := range s.questions {
		entries = append(entries, questionEntry{q: e.q.Clone(), seq: e.seq})
	}
	s.qmu.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	out := make([]domain.Question, len(entries))
	for i, e := range entries {
		out[i] = e.q
	}
	return out
}

func (s *MemoryStore) GetQuestion(id domain.QuestionID) (domain.Question, bool) {
	s.qmu.RLock()
	defer s.qmu.RUnlock()

	e, ok := s.questions[id]
	if !ok {
		return domain.Question{}, false
	}
	return e.q.Clone(), true
}

func (s *MemoryStore) QuestionCount() int {
	s.qmu.RLock()
	defer s.qmu.RUnlock()
	return len(s.questions)
}

// AddQuestion insere ou substitui. Substituir mantém a posição original na listagem.
func (s *MemoryStore) AddQuestion(q domain.Question) {
	s.qmu.Lock()
	defer s.qmu.Unlock()
	s.insertLocked(q)
}

func (s *MemoryStore) insertLocked(q domain.Question) {
	q = q.Clone()
	if e, ok := s.questions[q.ID]; ok {
		s.questions[q.ID] = questionEntry{q: q, seq: e.seq}
		return
	}
	s.seq++
	s.questions[q.ID] = questionEntry{q: q, seq: s.seq}
}

// UpdateQuestion só substitui se id existir. O valor guardado mantém id como chave
// e como ID, qualquer que seja q.ID.
func (s *MemoryStore) UpdateQuestion(id domain.QuestionID, q domain.Question) error {
	s.qmu.Lock()
	defer s.qmu.Unlock()

	e, ok := s.questions[id]
	if !ok {
		return domain.ErrQuestionNotFound
	}
	q = q.Clone()
	q.ID = id
	s.questions[id] = questionEntry{q: q, seq: e.seq}
	return nil
}

func (s *MemoryStore) DeleteQuestion(id domain.QuestionID) error {
	s.qmu.Lock()
	defer s.qmu.Unlock()

	if _, ok := s.questions[id]; !ok {
		return domain.ErrQuestionNotFound
	}
	delete(s.questions, id)
	return nil
}

// AddAnswer valida os campos antes de qualquer lookup: conteúdo ou questionID vazios
// são ErrMissingParameters; pergunta inexistente é ErrQuestionNotFound.
func (s *MemoryStore) AddAnswer(content string, questionID domain.QuestionID) (domain.Answer, error) {
	if content == "" || questionID == "" {
		return domain.Answer{}, domain.ErrMissingParameters
	}

	s.qmu.RLock()
	_, ok := s.questions[questionID]
	s.qmu.RUnlock()
	if !ok {
		return domain.Answer{}, domain.ErrQuestionNotFound
	}

	a := domain.Answer{
		ID:         domain.AnswerID(s.newAnswerID()),
		Content:    content,
		QuestionID: questionID,
	}

	s.amu.Lock()
	s.answers[a.ID] = a
	s.amu.Unlock()

	return a, nil
}

// ListAnswers devolve um snapshot ordenado por id.
func (s *MemoryStore) ListAnswers() []domain.Answer {
	s.amu.RLock()
	out := make([]domain.Answer, 0, len(s.answers))
	for _, a := range s.answers {
		out = append(out, a)
	}
	s.amu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
