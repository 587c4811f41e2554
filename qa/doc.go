// Package qa expõe o serviço de perguntas e respostas sobre net/http.
//
// É a borda: decodifica a entrada (JSON, form, query), chama o Store ou o
// QuestionService e traduz o resultado para status/corpo. Todos os erros do
// domínio viram 416; corpo malformado vira 422; rota desconhecida vira 404.
package qa
