package parse

import (
	"encoding/json"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// Shape is the top-level kind of a JSON value.
type Shape string

const (
	ShapeObject Shape = "object"
	ShapeArray  Shape = "array"
	ShapeOther  Shape = "other"
)

// ShapeOf classifies a decoded JSON value.
func ShapeOf(v any) Shape {
	switch v.(type) {
	case map[string]any:
		return ShapeObject
	case []any:
		return ShapeArray
	default:
		return ShapeOther
	}
}

// IsEmpty reports whether v is nil, an empty object or an empty array.
func IsEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case map[string]any:
		return len(t) == 0
	case []any:
		return len(t) == 0
	default:
		return false
	}
}

// Extractor locates a JSON value inside free text. The zero value applies
// the default strategy only.
type Extractor struct {
	balancedScan bool
	repair       bool
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithBalancedScan tries every balanced {..} or [..] fragment, in order of
// appearance, after the outermost-span attempts fail.
func WithBalancedScan() ExtractorOption {
	return func(e *Extractor) {
		e.balancedScan = true
	}
}

// WithRepair runs jsonrepair on the bracket-bounded candidate as a last
// resort. Only object or array results are accepted.
func WithRepair() ExtractorOption {
	return func(e *Extractor) {
		e.repair = true
	}
}

// NewExtractor builds an Extractor with the given options.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultExtractor = &Extractor{}

// ExtractJSON is the default extraction strategy. It never panics; ok is
// false when no strategy yields a valid JSON value.
func ExtractJSON(text string) (any, bool) {
	return defaultExtractor.Extract(text)
}

// Extract returns the first value produced by, in order: the fence-stripped
// full text, the first '{' to last '}' span, the first '[' to last ']' span,
// then the optional balanced scan and repair passes.
func (e *Extractor) Extract(text string) (any, bool) {
	cleaned := stripFences(text)

	if v, ok := decode(cleaned); ok {
		return v, true
	}
	if span, ok := outerSpan(cleaned, '{', '}'); ok {
		if v, ok := decode(span); ok {
			return v, true
		}
	}
	if span, ok := outerSpan(cleaned, '[', ']'); ok {
		if v, ok := decode(span); ok {
			return v, true
		}
	}

	if e == nil {
		return nil, false
	}
	if e.balancedScan {
		for _, fragment := range balancedFragments(cleaned) {
			if v, ok := decode(fragment); ok {
				return v, true
			}
		}
	}
	if e.repair {
		if v, ok := repairCandidate(cleaned); ok {
			return v, true
		}
	}
	return nil, false
}

func stripFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

func decode(s string) (any, bool) {
	if s == "" {
		return nil, false
	}
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	return v, true
}

// outerSpan returns text[first open : last close] inclusive.
func outerSpan(text string, open, close byte) (string, bool) {
	start := strings.IndexByte(text, open)
	end := strings.LastIndexByte(text, close)
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// balancedFragments lists top-level bracket-balanced fragments. Brackets
// inside string literals are ignored and escapes are honoured.
func balancedFragments(text string) []string {
	var (
		fragments []string
		stack     []byte
		start     = -1
		inString  bool
		escaped   bool
	)
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			if len(stack) > 0 {
				inString = true
			}
		case '{', '[':
			if len(stack) == 0 {
				start = i
			}
			stack = append(stack, c)
		case '}', ']':
			if len(stack) == 0 {
				continue
			}
			want := byte('{')
			if c == ']' {
				want = '['
			}
			if stack[len(stack)-1] != want {
				stack = stack[:0]
				start = -1
				continue
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 && start >= 0 {
				fragments = append(fragments, text[start:i+1])
				start = -1
			}
		}
	}
	return fragments
}

func repairCandidate(text string) (any, bool) {
	candidate := text
	if i := strings.IndexAny(text, "{["); i >= 0 {
		candidate = text[i:]
	} else {
		return nil, false
	}
	repaired, err := jsonrepair.JSONRepair(candidate)
	if err != nil {
		return nil, false
	}
	v, ok := decode(repaired)
	if !ok || ShapeOf(v) == ShapeOther {
		return nil, false
	}
	return v, true
}
