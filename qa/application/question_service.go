package application

import "qa-service/qa/domain"

// QuestionService concentra a listagem paginada de perguntas.
type QuestionService struct {
	Store domain.QuestionStore
}

// Page é o resultado de uma listagem.
// Total é o tamanho do snapshot de onde Items foi fatiado.
type Page struct {
	Items      []domain.Question
	Total      int
	Pagination *domain.Pagination
}

// List devolve todas as perguntas quando page é nil (sem parâmetros de query).
// Com page presente, tamanho e conteúdo vêm do mesmo snapshot, então o resultado
// não depende de escritas concorrentes entre a validação e o corte.
func (s QuestionService) List(page *domain.PageParams) (Page, error) {
	snapshot := s.Store.ListQuestions()
	if page == nil {
		return Page{Items: snapshot, Total: len(snapshot)}, nil
	}

	p, err := domain.ExtractPagination(*page, len(snapshot))
	if err != nil {
		return Page{}, err
	}
	return Page{
		Items:      domain.Apply(p, snapshot),
		Total:      len(snapshot),
		Pagination: &p,
	}, nil
}
