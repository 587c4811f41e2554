package domain

// QuestionStore é o dono da coleção de perguntas.
//
// Toda leitura devolve cópias; nenhuma operação bloqueia além da aquisição do lock.
type QuestionStore interface {
	ListQuestions() []Question
	GetQuestion(id QuestionID) (Question, bool)
	AddQuestion(q Question)
	UpdateQuestion(id QuestionID, q Question) error
	DeleteQuestion(id QuestionID) error
}

// AnswerStore é o dono da coleção de respostas.
type AnswerStore interface {
	AddAnswer(content string, questionID QuestionID) (Answer, error)
	ListAnswers() []Answer
}

// Store junta as duas coleções. As duas são recursos independentes: não há
// atomicidade entre elas.
type Store interface {
	QuestionStore
	AnswerStore
}
