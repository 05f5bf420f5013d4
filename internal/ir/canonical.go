package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces RFC 8785 canonical JSON for hashing.
// This is the only serialization used for content-addressed identity.
//
// Differences from json.Marshal:
//  1. Object keys sorted by UTF-16 code units
//  2. No HTML escaping
//  3. Strings are NFC normalized
//  4. Floats and nulls are rejected
func MarshalCanonical(v any) ([]byte, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("null is forbidden in canonical JSON")
	case string:
		return marshalCanonicalString(val)
	case int:
		return []byte(fmt.Sprintf("%d", val)), nil
	case int64:
		return []byte(fmt.Sprintf("%d", val)), nil
	case bool:
		if val {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	case []any:
		return marshalCanonicalArray(val)
	case map[string]any:
		return marshalCanonicalObject(val)
	case float32, float64:
		return nil, fmt.Errorf("floats are forbidden in canonical JSON: %v", val)
	default:
		return nil, fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
}

// marshalCanonicalString encodes s after NFC normalization with HTML
// escaping disabled. U+2028 and U+2029 are emitted literally.
func marshalCanonicalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(norm.NFC.String(s)); err != nil {
		return nil, err
	}
	out := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	return unescapeLineSeparators(out), nil
}

// unescapeLineSeparators rewrites \u2028 and \u2029 escapes produced by
// encoding/json into literal characters, leaving \\u2028 text untouched.
func unescapeLineSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] != '\\' {
			out = append(out, data[i])
			continue
		}
		if i+5 < len(data) && data[i+1] == 'u' && string(data[i+2:i+5]) == "202" && (data[i+5] == '8' || data[i+5] == '9') {
			if data[i+5] == '8' {
				out = append(out, "\u2028"...)
			} else {
				out = append(out, "\u2029"...)
			}
			i += 5
			continue
		}
		// any other escape: copy the backslash and the escaped byte together
		out = append(out, data[i])
		if i+1 < len(data) {
			out = append(out, data[i+1])
			i++
		}
	}
	return out
}

func marshalCanonicalArray(arr []any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, elem := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := MarshalCanonical(elem)
		if err != nil {
			return nil, fmt.Errorf("array[%d]: %w", i, err)
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func marshalCanonicalObject(obj map[string]any) ([]byte, error) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return lessUTF16(keys[i], keys[j])
	})

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := marshalCanonicalString(k)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", k, err)
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := MarshalCanonical(obj[k])
		if err != nil {
			return nil, fmt.Errorf("value for key %q: %w", k, err)
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// lessUTF16 orders strings by UTF-16 code units (RFC 8785 §3.2.3).
func lessUTF16(a, b string) bool {
	ua := utf16.Encode([]rune(a))
	ub := utf16.Encode([]rune(b))
	for i := 0; i < len(ua) && i < len(ub); i++ {
		if ua[i] != ub[i] {
			return ua[i] < ub[i]
		}
	}
	return len(ua) < len(ub)
}

// canonicalMap converts a template into the value MarshalCanonical accepts.
// Optional fields are omitted rather than written as empty strings.
func (t Template) canonicalMap() map[string]any {
	locs := make([]any, len(t.Locations))
	for i, l := range t.Locations {
		m := map[string]any{"id": l.ID, "x": l.X, "y": l.Y}
		putString(m, "name", l.Name)
		putString(m, "invariant", l.Invariant)
		if l.Committed {
			m["committed"] = true
		}
		locs[i] = m
	}
	trans := make([]any, len(t.Transitions))
	for i, tr := range t.Transitions {
		m := map[string]any{"source": tr.Source, "target": tr.Target, "x": tr.X, "y": tr.Y}
		putString(m, "guard", tr.Guard)
		putString(m, "sync", tr.Sync)
		putString(m, "assignment", tr.Assignment)
		trans[i] = m
	}
	out := map[string]any{
		"name":        t.Name,
		"init":        t.Init,
		"locations":   locs,
		"transitions": trans,
	}
	putString(out, "parameter", t.Parameter)
	putString(out, "declaration", t.Declaration)
	return out
}

func putString(m map[string]any, key, value string) {
	if value != "" {
		m[key] = value
	}
}

// canonicalMap converts a monitor spec into the value MarshalCanonical accepts.
func (m MonitorSpec) canonicalMap() map[string]any {
	signals := make([]any, len(m.Signals))
	for i, s := range m.Signals {
		obj := map[string]any{"signal": s.Signal}
		putString(obj, "guard", s.Guard)
		putString(obj, "invariant", s.Invariant)
		signals[i] = obj
	}
	alphabet := make([]any, len(m.Alphabet))
	for i, a := range m.Alphabet {
		alphabet[i] = map[string]any{"edge": a.Edge, "signal": a.Signal}
	}
	conversions := make([]any, len(m.Conversions))
	for i, c := range m.Conversions {
		conversions[i] = map[string]any{"from": c.From, "to": c.To}
	}
	out := map[string]any{"name": m.Name, "kind": m.Kind}
	putString(out, "terminal", m.Terminal)
	if len(signals) > 0 {
		out["signals"] = signals
	}
	if len(alphabet) > 0 {
		out["alphabet"] = alphabet
	}
	if len(conversions) > 0 {
		out["conversions"] = conversions
	}
	return out
}

// MarshalMonitorSpec renders m as canonical JSON.
func MarshalMonitorSpec(m MonitorSpec) ([]byte, error) {
	return MarshalCanonical(m.canonicalMap())
}
