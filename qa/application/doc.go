// Package application contém os casos de uso do serviço de perguntas e respostas.
//
// Ele depende apenas do pacote domain e não conhece net/http.
// Ex.: QuestionService.List tira um snapshot, valida a paginação contra o tamanho
// desse mesmo snapshot e devolve a fatia.
package application
