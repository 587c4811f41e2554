package domain

import (
	"strconv"
	"strings"
)

// PageParams são os parâmetros de paginação vindos da borda (query string).
// Nil em Start/End significa que a chave não foi enviada.
type PageParams struct {
	Start *string
	End   *string
}

// Pagination é um intervalo [Start, End) já validado contra o tamanho da coleção.
type Pagination struct {
	Start int
	End   int
}

// ExtractPagination valida p contra maxLen.
//
// A ordem das verificações é fixa: chaves ausentes, parse de start, parse de end,
// start > end, end > maxLen. maxLen deve ser o tamanho do mesmo snapshot que será
// fatiado depois.
func ExtractPagination(p PageParams, maxLen int) (Pagination, error) {
	if p.Start == nil || p.End == nil {
		return Pagination{}, ErrMissingParameters
	}

	start, err := parseIndex(*p.Start)
	if err != nil {
		return Pagination{}, &ParseError{Field: "start", Value: *p.Start, Err: err}
	}
	end, err := parseIndex(*p.End)
	if err != nil {
		return Pagination{}, &ParseError{Field: "end", Value: *p.End, Err: err}
	}

	if start > end {
		return Pagination{}, ErrNonProcessable
	}
	if maxLen < 0 || end > uint64(maxLen) {
		return Pagination{}, ErrOutOfBounds
	}

	return Pagination{Start: int(start), End: int(end)}, nil
}

// parseIndex aceita um único '+' à frente, como os parsers de inteiro sem sinal
// costumam aceitar.
func parseIndex(raw string) (uint64, error) {
	return strconv.ParseUint(strings.TrimPrefix(raw, "+"), 10, 0)
}

// Apply devolve a sub-fatia [Start, End) de items.
func Apply[T any](p Pagination, items []T) []T {
	return items[p.Start:p.End]
}
