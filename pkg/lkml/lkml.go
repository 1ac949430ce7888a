// Package lkml renders ordered LookML documents.
//
// A document is a Map: an ordered list of key/value entries. Values may be
// string, bool, int, []string, Pairs, Map or []Map. Rendering follows LookML
// conventions:
//
//   - a Map value is a block; a "name" entry becomes the block name
//     (dimension: id { ... })
//   - a []Map under a plural key is expanded into repeated singular blocks
//     (dimensions -> dimension: x { ... }, allowed_values -> allowed_value: { ... })
//   - Pairs render inline with quoted values (filters: [status: "complete"])
//   - SQL keys end with ;; and text keys are quoted
package lkml

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Entry is one key/value pair of a Map.
type Entry struct {
	Key   string
	Value any
}

// Map is an ordered LookML mapping.
type Map []Entry

// Pairs is an inline list of key/value pairs, such as measure filters.
// Every value must be a string. Keys are never treated as block names.
type Pairs []Entry

// Set appends an entry and returns the extended map.
func (m Map) Set(key string, value any) Map {
	return append(m, Entry{Key: key, Value: value})
}

// Get returns the first value stored under key.
func (m Map) Get(key string) (any, bool) {
	for _, e := range m {
		if e.Key == key {
			return e.Value, true
		}
	}
	return nil, false
}

// Name returns the "name" entry, if it is a string.
func (m Map) Name() (string, bool) {
	v, ok := m.Get("name")
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// MarshalError reports a value that cannot be rendered as LookML.
type MarshalError struct {
	// Path is the dotted key path of the offending entry
	Path  string
	Value any
}

func (e *MarshalError) Error() string {
	return fmt.Sprintf("lkml: cannot render %T at %s", e.Value, e.Path)
}

// quotedKeys hold free text and are rendered as quoted strings.
var quotedKeys = map[string]bool{
	"connection":    true,
	"default_value": true,
	"description":   true,
	"group_label":   true,
	"include":       true,
	"label":         true,
	"value":         true,
	"value_format":  true,
	"view_label":    true,
}

const indentUnit = "  "

// Marshal renders doc as LookML text.
func Marshal(doc Map) ([]byte, error) {
	w := &writer{atBlockStart: true}
	if err := w.writeMap(doc, 0, ""); err != nil {
		return nil, err
	}
	return w.buf.Bytes(), nil
}

type writer struct {
	buf          bytes.Buffer
	atBlockStart bool
}

func (w *writer) line(depth int, text string) {
	w.buf.WriteString(strings.Repeat(indentUnit, depth))
	w.buf.WriteString(text)
	w.buf.WriteByte('\n')
	w.atBlockStart = false
}

func (w *writer) writeMap(m Map, depth int, path string) error {
	for _, e := range m {
		if err := w.writeEntry(e, depth, joinPath(path, e.Key)); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) writeEntry(e Entry, depth int, path string) error {
	switch v := e.Value.(type) {
	case string:
		w.line(depth, e.Key+": "+formatScalar(e.Key, v))
	case bool:
		w.line(depth, e.Key+": "+yesNo(v))
	case int:
		w.line(depth, e.Key+": "+strconv.Itoa(v))
	case []string:
		w.line(depth, e.Key+": "+formatList(e.Key, v))
	case Pairs:
		return w.writePairs(e.Key, v, depth, path)
	case Map:
		return w.writeBlock(e.Key, v, depth, path)
	case []Map:
		return w.writeMapList(e.Key, v, depth, path)
	default:
		return &MarshalError{Path: path, Value: e.Value}
	}
	return nil
}

func (w *writer) writeBlock(key string, m Map, depth int, path string) error {
	if !w.atBlockStart {
		w.buf.WriteByte('\n')
	}
	header := key + ": {"
	body := m
	if name, ok := m.Name(); ok {
		header = key + ": " + name + " {"
		body = withoutKey(m, "name")
	}
	w.line(depth, header)
	w.atBlockStart = true
	if err := w.writeMap(body, depth+1, path); err != nil {
		return err
	}
	w.line(depth, "}")
	return nil
}

func (w *writer) writeMapList(key string, items []Map, depth int, path string) error {
	singular := strings.TrimSuffix(key, "s")
	for i, item := range items {
		if err := w.writeBlock(singular, item, depth, fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) writePairs(key string, pairs Pairs, depth int, path string) error {
	if len(pairs) == 0 {
		return nil
	}
	out := make([]string, len(pairs))
	for i, e := range pairs {
		s, ok := e.Value.(string)
		if !ok {
			return &MarshalError{Path: fmt.Sprintf("%s[%d].%s", path, i, e.Key), Value: e.Value}
		}
		out[i] = e.Key + ": " + quote(s)
	}
	w.line(depth, key+": ["+strings.Join(out, ", ")+"]")
	return nil
}

func withoutKey(m Map, key string) Map {
	out := make(Map, 0, len(m))
	for _, e := range m {
		if e.Key != key {
			out = append(out, e)
		}
	}
	return out
}

func isSQLKey(key string) bool {
	return key == "sql" || key == "html" || strings.HasPrefix(key, "sql_") || strings.HasSuffix(key, "_sql")
}

func formatScalar(key, v string) string {
	switch {
	case isSQLKey(key):
		return v + " ;;"
	case quotedKeys[key]:
		return quote(v)
	default:
		return v
	}
}

func formatList(key string, items []string) string {
	out := make([]string, len(items))
	for i, item := range items {
		if quotedKeys[key] {
			item = quote(item)
		}
		out[i] = item
	}
	return "[" + strings.Join(out, ", ") + "]"
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func quote(s string) string {
	return `"` + quoteEscaper.Replace(s) + `"`
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func joinPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}
