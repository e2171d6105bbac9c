// Package extract pulls structured résumé fields out of raw text with layered
// heuristics. Extractors never fail: a miss is reported with a sentinel Field.
package extract

import "encoding/json"

// Stable sentinel strings reported for missing fields.
const (
	NotFound          = "Not found"
	NoProjects        = "No Projects Done."
	StackUnrecognized = "Tech stack not explicitly mentioned or recognized."
)

// Kind tells a found value apart from the sentinel variants.
type Kind int

const (
	KindValue Kind = iota
	KindNotFound
	KindNoProjects
	KindStackUnrecognized
)

func (k Kind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindNotFound:
		return "not_found"
	case KindNoProjects:
		return "no_projects"
	case KindStackUnrecognized:
		return "stack_unrecognized"
	default:
		return "unknown"
	}
}

// Field is an extracted value or one of the sentinels.
type Field struct {
	Value string
	Kind  Kind
}

func Found(v string) Field { return Field{Value: v, Kind: KindValue} }

func Missing() Field { return Field{Value: NotFound, Kind: KindNotFound} }

func missingProjects() Field { return Field{Value: NoProjects, Kind: KindNoProjects} }

func unrecognizedStack() Field { return Field{Value: StackUnrecognized, Kind: KindStackUnrecognized} }

// Found reports whether the field carries an extracted value.
func (f Field) Found() bool { return f.Kind == KindValue }

func (f Field) String() string { return f.Value }

// MarshalJSON encodes the field as its display string.
func (f Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Value)
}
