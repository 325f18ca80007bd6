package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePositiveID разбирает идентификатор из URL или флага CLI.
func ParsePositiveID(name, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("missing %s", name)
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s format: %q", name, raw)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid %s value: %d", name, id)
	}
	return id, nil
}
