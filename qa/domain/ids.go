package domain

// QuestionID identifica uma pergunta. É um tipo próprio para não misturar
// com AnswerID sem conversão explícita.
type QuestionID string

func (id QuestionID) String() string { return string(id) }

// AnswerID identifica uma resposta.
type AnswerID string

func (id AnswerID) String() string { return string(id) }
