package functions

import (
	"regexp"
	"strings"

	"github.com/apimlint/apimlint/linter"
)

type casingOptions struct {
	Type           string `mapstructure:"type"`
	DisallowDigits bool   `mapstructure:"disallowDigits"`
}

const casingSchema = `{
  "type": "object",
  "properties": {
    "type": {"enum": ["flat", "camel", "pascal", "kebab", "cobol", "snake", "macro"]},
    "disallowDigits": {"type": "boolean"}
  },
  "required": ["type"],
  "additionalProperties": false
}`

var casingTemplates = map[string]string{
	"flat":   `[a-z][a-z{d}]*`,
	"camel":  `[a-z][a-z{d}]*(?:[A-Z{d}](?:[a-z{d}]+|$))*`,
	"pascal": `[A-Z][a-z{d}]*(?:[A-Z{d}](?:[a-z{d}]+|$))*`,
	"kebab":  `[a-z][a-z{d}]*(?:-[a-z{d}]+)*`,
	"cobol":  `[A-Z][A-Z{d}]*(?:-[A-Z{d}]+)*`,
	"snake":  `[a-z][a-z{d}]*(?:_[a-z{d}]+)*`,
	"macro":  `[A-Z][A-Z{d}]*(?:_[A-Z{d}]+)*`,
}

type casingKey struct {
	kind   string
	digits bool
}

var casingPatterns = func() map[casingKey]*regexp.Regexp {
	patterns := make(map[casingKey]*regexp.Regexp, len(casingTemplates)*2)
	for kind, tmpl := range casingTemplates {
		patterns[casingKey{kind, true}] = regexp.MustCompile("^" + strings.ReplaceAll(tmpl, "{d}", "0-9") + "$")
		patterns[casingKey{kind, false}] = regexp.MustCompile("^" + strings.ReplaceAll(tmpl, "{d}", "") + "$")
	}
	return patterns
}()

// Casing reports strings that are not written in the configured case style.
func Casing(node any, opts linter.Options, mctx *linter.MatchContext) []linter.Finding {
	s, ok := node.(string)
	if !ok {
		return nil
	}
	var o casingOptions
	if err := opts.Decode(&o); err != nil {
		return nil
	}
	re, ok := casingPatterns[casingKey{o.Type, !o.DisallowDigits}]
	if !ok || re.MatchString(s) {
		return nil
	}
	return single(mctx, "%q must be %s case", s, o.Type)
}
