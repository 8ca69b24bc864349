package model

import (
	"fmt"
	"strings"
)

// ConfigurationError reports an invalid RankingConfig, discovered at
// construction time. It names the offending fields so a caller — e.g. the
// CLI's validate-config command — can point at exactly what to fix instead
// of parsing a generic error string.
type ConfigurationError struct {
	Fields []string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("model: invalid ranking config (%s): %s", strings.Join(e.Fields, ", "), e.Reason)
}
