// Package domain define os tipos, contratos e erros do serviço de perguntas e respostas.
//
// Este pacote não depende de net/http nem de implementações concretas de storage.
// O resolvedor de paginação (ExtractPagination) é uma função pura e a taxonomia de
// erros é fechada: ParseError, ErrMissingParameters, ErrNonProcessable,
// ErrOutOfBounds e ErrQuestionNotFound.
package domain
