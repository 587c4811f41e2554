// Package middleware fornece os middlewares net/http do serviço de perguntas e respostas.
//
// Visão geral (camadas):
//
//   - domain: contratos e tipos (sem dependência de net/http)
//   - application: casos de uso (acquire/timeout, normalização de estatísticas) sem net/http
//   - infra: implementações concretas (semáforo, contadores em memória e Redis)
//   - middleware (este pacote): middlewares HTTP + extração de chave do cliente + tradução para status/headers
//
// Ordem no servidor (de fora para dentro):
//
//  1. AccessLog: gera o request id, mede, loga e registra estatísticas
//  2. CORS: valida a origem e responde preflight (403 quando proibido)
//  3. ConcurrencyMiddleware: limita requisições simultâneas (503 sem vaga)
//  4. mux com as rotas do pacote qa
package middleware
