// Package infra contém as implementações concretas dos contratos do pacote domain.
//
// Exemplos:
//   - MemoryStore: perguntas e respostas em memória, um sync.RWMutex por coleção
//   - LoadSeed: carga inicial das perguntas (JSON embutido ou arquivo JSON/YAML)
package infra
