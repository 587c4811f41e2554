// utilitário pequeno para formatação consistente de valores numéricos em headers.

package middleware

import (
	"strconv"
	"time"
)

func formatInt(v int) string { return strconv.Itoa(v) }

// formatMillis formata uma duração em milissegundos com até 3 casas, sem notação científica.
func formatMillis(d time.Duration) string {
	return strconv.FormatFloat(float64(d)/float64(time.Millisecond), 'f', 3, 64)
}
