package domain

// Answer referencia uma pergunta existente no momento da criação.
// Depois disso não há integridade referencial: apagar a pergunta deixa a resposta órfã.
type Answer struct {
	ID         AnswerID   `json:"id"`
	Content    string     `json:"content"`
	QuestionID QuestionID `json:"question_id"`
}
