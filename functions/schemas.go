package functions

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/apimlint/apimlint/linter"
)

var terminalProvisioningStates = []string{"Succeeded", "Failed", "Canceled"}

// ProvisioningState requires the schema of a provisioningState property to enumerate the
// terminal states Succeeded, Failed and Canceled, compared case-insensitively. All missing states
// are reported in a single finding.
func ProvisioningState(node any, _ linter.Options, mctx *linter.MatchContext) []linter.Finding {
	schema, ok := asObject(node)
	if !ok {
		return nil
	}
	values, ok := schema.arr("enum")
	if !ok {
		return single(mctx, "ProvisioningState must have terminal states: Succeeded, Failed and Canceled.")
	}

	present := make(map[string]bool, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			present[strings.ToLower(s)] = true
		}
	}

	var missing []string
	for _, state := range terminalProvisioningStates {
		if !present[strings.ToLower(state)] {
			missing = append(missing, state)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return []linter.Finding{mctx.Finding(
		fmt.Sprintf("ProvisioningState must have terminal states: Succeeded, Failed and Canceled. Missing: %s.", strings.Join(missing, ", ")),
		"enum",
	)}
}

// GetCollectionOnlyHasValueAndNextLink requires the properties of a collection response model to
// be exactly value and nextLink.
func GetCollectionOnlyHasValueAndNextLink(node any, _ linter.Options, mctx *linter.MatchContext) []linter.Finding {
	properties, ok := asObject(node)
	if !ok {
		return nil
	}
	if len(properties) == 2 && properties.has("value") && properties.has("nextLink") {
		return nil
	}
	return single(mctx, "Get endpoints for collections of resources must only have the `value` and `nextLink` properties in their model.")
}

// DefaultInEnum requires a schema's default value to be one of its enum values.
func DefaultInEnum(node any, _ linter.Options, mctx *linter.MatchContext) []linter.Finding {
	schema, ok := asObject(node)
	if !ok || !schema.has("default") {
		return nil
	}
	values, ok := schema.arr("enum")
	if !ok {
		return nil
	}
	def := schema["default"]
	for _, v := range values {
		if scalarEqual(def, v) {
			return nil
		}
	}
	return []linter.Finding{mctx.Finding(fmt.Sprintf("Default value '%v' should be one of the enum values.", def), "default")}
}

// XMSEnumValidation requires string enums to declare x-ms-enum with a name.
func XMSEnumValidation(node any, _ linter.Options, mctx *linter.MatchContext) []linter.Finding {
	schema, ok := asObject(node)
	if !ok || !schema.has("enum") {
		return nil
	}
	if t, ok := schema.str("type"); ok && t != "string" {
		return nil
	}

	ext, ok := schema.obj("x-ms-enum")
	if !ok {
		return single(mctx, "Must use x-ms-enum for string enums and define its name.")
	}
	if name, ok := ext.str("name"); !ok || strings.TrimSpace(name) == "" {
		return []linter.Finding{mctx.Finding("x-ms-enum must define a name.", "x-ms-enum")}
	}
	return nil
}

// XMSClientName reports x-ms-client-name values that repeat the name they rename. For parameters
// that is the name field and for properties the property key. The finding carries no message so
// the rule's own description is reported.
func XMSClientName(node any, _ linter.Options, mctx *linter.MatchContext) []linter.Finding {
	obj, ok := asObject(node)
	if !ok {
		return nil
	}
	clientName, ok := obj.str("x-ms-client-name")
	if !ok {
		return nil
	}
	name, ok := obj.str("name")
	if !ok {
		if mctx == nil || len(mctx.Path) == 0 {
			return nil
		}
		name = mctx.Path.Last()
	}
	if clientName != name {
		return nil
	}
	return []linter.Finding{mctx.Finding("", "x-ms-client-name")}
}

type camelCaseOptions struct {
	Exceptions []string `mapstructure:"exceptions"`
}

const camelCaseSchema = `{
  "type": "object",
  "properties": {
    "exceptions": {"type": "array", "items": {"type": "string"}}
  },
  "additionalProperties": false
}`

// Up to three consecutive capitals are allowed so acronyms such as "vmID" pass.
var camelCasePropertyName = regexp.MustCompile(`^[a-z0-9$-]+([A-Z]{1,3}[a-z0-9$-]+)+$|^[a-z0-9$-]+$|^[a-z0-9$-]+([A-Z]{1,3}[a-z0-9$-]+)*[A-Z]{1,3}$`)

// CamelCaseProperties reports each property of a schema whose name is not camel case, located at
// the property. Names listed in the exceptions option are skipped.
func CamelCaseProperties(node any, opts linter.Options, mctx *linter.MatchContext) []linter.Finding {
	schema, ok := asObject(node)
	if !ok {
		return nil
	}
	properties, ok := schema.obj("properties")
	if !ok {
		return nil
	}
	var o camelCaseOptions
	if err := opts.Decode(&o); err != nil {
		return nil
	}

	var findings []linter.Finding
	for _, name := range properties.keys() {
		if slices.Contains(o.Exceptions, name) || camelCasePropertyName.MatchString(name) {
			continue
		}
		findings = append(findings, mctx.Finding(fmt.Sprintf("Property name '%s' should be camel case.", name), "properties", name))
	}
	return findings
}

type validFormatsOptions struct {
	Formats []string `mapstructure:"formats"`
}

const validFormatsSchema = `{
  "type": "object",
  "properties": {
    "formats": {"type": "array", "items": {"type": "string"}, "minItems": 1}
  },
  "additionalProperties": false
}`

// DefaultFormats are the format values understood by Azure code generators.
var DefaultFormats = []string{
	"int32", "int64", "float", "double", "byte", "binary", "date", "date-time", "password",
	"char", "time", "date-time-rfc1123", "date-time-rfc7231", "duration", "uuid", "base64url",
	"url", "uri", "odata-query", "certificate", "unixtime", "arm-id", "file",
}

// ValidFormats reports format values outside the allowed list, DefaultFormats unless the formats
// option is given.
func ValidFormats(node any, opts linter.Options, mctx *linter.MatchContext) []linter.Finding {
	format, ok := node.(string)
	if !ok {
		return nil
	}
	var o validFormatsOptions
	if err := opts.Decode(&o); err != nil {
		return nil
	}
	if len(o.Formats) == 0 {
		o.Formats = DefaultFormats
	}
	if slices.Contains(o.Formats, format) {
		return nil
	}
	return single(mctx, "Invalid format '%s'. Use one of: %s.", format, strings.Join(o.Formats, ", "))
}
