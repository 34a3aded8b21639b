package validation

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Severity is the level a finding is reported at.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeverityHint    Severity = "hint"
	// SeverityOff disables a rule when used as an override.
	SeverityOff Severity = "off"
)

func (s Severity) String() string {
	return string(s)
}

// Rank orders severities from most (0) to least severe.
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 0
	case SeverityWarning:
		return 1
	case SeverityInfo:
		return 2
	case SeverityHint:
		return 3
	default:
		return 4
	}
}

// ParseSeverity accepts the canonical names, the short forms used by Spectral rulesets
// ("warn") and Spectral's numeric levels (0=error .. 3=hint).
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error", "0":
		return SeverityError, nil
	case "warning", "warn", "1":
		return SeverityWarning, nil
	case "info", "information", "2":
		return SeverityInfo, nil
	case "hint", "3":
		return SeverityHint, nil
	case "off", "false", "-1":
		return SeverityOff, nil
	}
	if _, err := strconv.Atoi(s); err == nil {
		return "", fmt.Errorf("severity level %s is out of range", s)
	}
	return "", fmt.Errorf("unknown severity %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Severity) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: severity must be a scalar", value.Line)
	}
	return s.UnmarshalText([]byte(value.Value))
}
