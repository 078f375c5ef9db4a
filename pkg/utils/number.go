package utils

import (
	"strconv"
	"strings"
)

// ParseOptionalInt converte um parâmetro numérico opcional; vazio vale zero
func ParseOptionalInt(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}

	return strconv.Atoi(value)
}
