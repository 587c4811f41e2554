// Package application contém os casos de uso dos middlewares: aquisição de vaga com
// timeout e registro de estatísticas.
//
// Ele depende apenas do pacote domain e não conhece net/http.
package application
