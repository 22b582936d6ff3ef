package m3

import (
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

// Kind is the element policy for a merge: how elements compare, and how the
// renderers build the lines they synthesize (conflict markers, annotation
// tags). A Kind is chosen once, when the merge is created, instead of
// inspecting elements as the merge runs.
type Kind[E any] struct {
	name string

	// Returns a function mapping each element to a small integer, such that
	// two elements map to the same integer iff they are equal. A new
	// function (with its own table) is returned for each merge.
	newInterner func() func(E) int

	// Builds an element from text (e.g. a marker plus newline). Nil if the
	// kind can't represent text.
	line func(s string) E

	// Builds an element by prefixing text onto an existing element.
	tag func(prefix string, e E) E

	// Does the element end with the suffix?
	hasSuffix func(e E, suffix string) bool

	// Set when E is an interface type, in which case the dynamic types of
	// the elements must be checked.
	checkTypes bool
}

// Text is the kind for lines held as strings, normally including their line
// endings.
var Text = LineKind[string]("text")

// Bytes is the kind for lines held as byte slices, normally including their
// line endings.
var Bytes = LineKind[[]byte]("bytes")

// LineKind returns the kind for lines of text or bytes.
func LineKind[E ~string | ~[]byte](name string) Kind[E] {
	return Kind[E]{
		name: name,
		newInterner: func() func(E) int {
			ids := make(map[string]int)
			return func(e E) int {
				if id, ok := ids[string(e)]; ok {
					return id
				}
				id := len(ids)
				ids[string(e)] = id
				return id
			}
		},
		line: func(s string) E { return E(s) },
		tag:  func(prefix string, e E) E { return E(prefix + string(e)) },
		hasSuffix: func(e E, suffix string) bool {
			return strings.HasSuffix(string(e), suffix)
		},
	}
}

// Tokens returns the kind for arbitrary comparable elements. line builds the
// element used for a marker line; if it is nil then only regions and groups
// can be produced, and the line renderers fail with ErrNotRenderable.
func Tokens[E comparable](name string, line func(s string) E) Kind[E] {
	return Kind[E]{
		name: name,
		newInterner: func() func(E) int {
			ids := make(map[E]int)
			return func(e E) int {
				if id, ok := ids[e]; ok {
					return id
				}
				id := len(ids)
				ids[e] = id
				return id
			}
		},
		line:       line,
		checkTypes: reflect.TypeFor[E]().Kind() == reflect.Interface,
	}
}

// Name is the name the kind was created with, for logging.
func (k Kind[E]) Name() string {
	return k.name
}

// Determine the newline used by the lines of a, for use at the end of the
// marker lines. Only the first line is examined.
func (k Kind[E]) detectNewline(a []E) string {
	if len(a) > 0 && k.hasSuffix != nil {
		if k.hasSuffix(a[0], "\r\n") {
			return "\r\n"
		} else if k.hasSuffix(a[0], "\r") {
			return "\r"
		}
	}
	return "\n"
}

// When the element type is an interface, elements of several concrete types
// could be mixed; reject that rather than produce a merge whose matches
// depend on accidental equality across types. Nil elements are ignored.
func (k Kind[E]) checkHomogeneous(seqs ...[]E) error {
	if !k.checkTypes {
		return nil
	}
	var first reflect.Type
	for n, seq := range seqs {
		for i := range seq {
			t := reflect.TypeOf(any(seq[i]))
			if t == nil {
				continue
			}
			if first == nil {
				first = t
			} else if t != first {
				return errors.Wrapf(ErrHeterogeneousInput,
					"sequence %d element %d is %s, expected %s", n, i, t, first)
			}
		}
	}
	return nil
}
