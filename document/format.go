package document

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Format identifies the specification a document is written against.
type Format string

const (
	FormatOAS2    Format = "oas2"
	FormatOAS30   Format = "oas3.0"
	FormatOAS31   Format = "oas3.1"
	FormatUnknown Format = "unknown"
)

// Matches reports whether f satisfies filter. A filter matches exactly or as a prefix, so "oas3"
// matches both "oas3.0" and "oas3.1".
func (f Format) Matches(filter string) bool {
	return string(f) == filter || strings.HasPrefix(string(f), filter)
}

// MatchesAny reports whether f satisfies one of filters. An empty filter list matches every format.
func (f Format) MatchesAny(filters []string) bool {
	if len(filters) == 0 {
		return true
	}
	for _, filter := range filters {
		if f.Matches(filter) {
			return true
		}
	}
	return false
}

func detectFormat(root *yaml.Node) Format {
	if root == nil || root.Kind != yaml.MappingNode {
		return FormatUnknown
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i].Value, root.Content[i+1].Value
		switch key {
		case "swagger":
			if strings.HasPrefix(value, "2") {
				return FormatOAS2
			}
		case "openapi":
			switch {
			case strings.HasPrefix(value, "3.0"):
				return FormatOAS30
			case strings.HasPrefix(value, "3.1"), strings.HasPrefix(value, "3.2"):
				return FormatOAS31
			}
		}
	}
	return FormatUnknown
}
