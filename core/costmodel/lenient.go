package costmodel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// TechStack maps a layer (frontend, database, hosting) to the technology
// used. Non-string values are flattened on decode: lists are joined with
// ", " and anything else keeps its JSON text.
type TechStack map[string]string

// UnmarshalJSON implements json.Unmarshaler.
func (t *TechStack) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*t = nil
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("tech_stack: %w", err)
	}
	out := make(TechStack, len(raw))
	for key, value := range raw {
		out[key] = flatten(value)
	}
	*t = out
	return nil
}

// Values returns the technologies ordered by layer name.
func (t TechStack) Values() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	values := make([]string, 0, len(keys))
	for _, k := range keys {
		values = append(values, t[k])
	}
	return values
}

// String renders "layer: tech" pairs ordered by layer name.
func (t TechStack) String() string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+t[k])
	}
	return strings.Join(parts, ", ")
}

// StringList decodes from a JSON array or from a single string.
type StringList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*l = nil
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if strings.TrimSpace(s) == "" {
			*l = StringList{}
		} else {
			*l = StringList{s}
		}
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("string list: %w", err)
	}
	out := make(StringList, 0, len(raw))
	for _, item := range raw {
		out = append(out, flatten(item))
	}
	*l = out
	return nil
}

func flatten(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var list []string
	if json.Unmarshal(raw, &list) == nil {
		return strings.Join(list, ", ")
	}
	return string(bytes.TrimSpace(raw))
}
