// Package domain define contratos e tipos para os middlewares HTTP do serviço:
// limite de requisições simultâneas e estatísticas de requisição.
//
// Este pacote não depende de net/http nem de implementações concretas.
package domain
