package document

import (
	"strconv"
	"strings"

	"github.com/apimlint/apimlint/jsonpointer"
)

// Path addresses a node by its ordered segments from the document root. Array indices are
// decimal strings.
type Path []string

// Child returns a new path extended by segments. p is not modified.
func (p Path) Child(segments ...string) Path {
	out := make(Path, 0, len(p)+len(segments))
	out = append(out, p...)
	return append(out, segments...)
}

// Index returns a new path extended by an array index.
func (p Path) Index(i int) Path {
	return p.Child(strconv.Itoa(i))
}

// Parent returns p without its last segment.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1:len(p)-1]
}

// Last returns the final segment or "" for the root path.
func (p Path) Last() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Pointer renders p as a JSON pointer.
func (p Path) Pointer() jsonpointer.JSONPointer {
	return jsonpointer.PartsToJSONPointer(p)
}

// HasPrefix reports whether p starts with prefix.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	for i := range prefix {
		if p[i] != prefix[i] {
			return false
		}
	}
	return true
}

// String renders p in the dotted form used in messages, e.g. paths./widgets.get.
func (p Path) String() string {
	return strings.Join(p, ".")
}
