package infra

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"qa-service/qa/domain"

	"gopkg.in/yaml.v3"
)

//go:embed questions.json
var defaultSeed []byte

// seedRecord usa ponteiros para distinguir campo ausente de campo vazio.
type seedRecord struct {
	ID      *string  `json:"id" yaml:"id"`
	Title   *string  `json:"title" yaml:"title"`
	Content *string  `json:"content" yaml:"content"`
	Tags    []string `json:"tags" yaml:"tags"`
}

// LoadSeed lê o conjunto inicial de perguntas.
//
// Com path vazio usa o questions.json embutido no binário. Caso contrário o formato
// vem da extensão (.json, .yaml, .yml). Qualquer erro aqui é fatal para o bootstrap.
func LoadSeed(path string) ([]domain.Question, error) {
	if path == "" {
		return ParseSeed(defaultSeed, "json")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file %s: %w", path, err)
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	qs, err := ParseSeed(raw, format)
	if err != nil {
		return nil, fmt.Errorf("seed file %s: %w", path, err)
	}
	return qs, nil
}

// ParseSeed decodifica um documento que mapeia id -> pergunta.
func ParseSeed(raw []byte, format string) ([]domain.Question, error) {
	records := map[string]seedRecord{}

	switch format {
	case "json":
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&records); err != nil {
			return nil, fmt.Errorf("decode json seed: %w", err)
		}
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(raw))
		dec.KnownFields(true)
		if err := dec.Decode(&records); err != nil {
			return nil, fmt.Errorf("decode yaml seed: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported seed format %q", format)
	}

	keys := make([]string, 0, len(records))
	for k := range records {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return lessKey(keys[i], keys[j]) })

	out := make([]domain.Question, 0, len(records))
	for _, k := range keys {
		q, err := records[k].toQuestion(k)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

func (r seedRecord) toQuestion(key string) (domain.Question, error) {
	var missing []string
	if r.ID == nil {
		missing = append(missing, "id")
	}
	if r.Title == nil {
		missing = append(missing, "title")
	}
	if r.Content == nil {
		missing = append(missing, "content")
	}
	if len(missing) > 0 {
		return domain.Question{}, fmt.Errorf("seed record %q: missing field(s) %s", key, strings.Join(missing, ", "))
	}
	if *r.ID != key {
		return domain.Question{}, fmt.Errorf("seed record %q: %w (got %q)", key, errSeedKeyMismatch, *r.ID)
	}

	return domain.Question{
		ID:      domain.QuestionID(*r.ID),
		Title:   *r.Title,
		Content: *r.Content,
		Tags:    r.Tags,
	}, nil
}

var errSeedKeyMismatch = errors.New("record id does not match its key")

// ids numéricos em ordem numérica, o resto em ordem lexicográfica depois deles.
func lessKey(a, b string) bool {
	ai, aerr := strconv.ParseUint(a, 10, 64)
	bi, berr := strconv.ParseUint(b, 10, 64)
	switch {
	case aerr == nil && berr == nil:
		return ai < bi
	case aerr == nil:
		return true
	case berr == nil:
		return false
	default:
		return a < b
	}
}
