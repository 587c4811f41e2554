package domain

type Question struct {
	ID      QuestionID `json:"id" yaml:"id"`
	Title   string     `json:"title" yaml:"title"`
	Content string     `json:"content" yaml:"content"`
	Tags    []string   `json:"tags" yaml:"tags"`
}

// Clone devolve uma cópia independente (inclusive do slice de tags).
func (q Question) Clone() Question {
	if q.Tags != nil {
		tags := make([]string, len(q.Tags))
		copy(tags, q.Tags)
		q.Tags = tags
	}
	return q
}
