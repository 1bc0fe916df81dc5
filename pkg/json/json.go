// Package json decodes the JSON log lines kept by the SQLite log sink.
package json

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// JSONObject represents a JSON object as a map from string keys to arbitrary values.
type JSONObject map[string]interface{}

// Parse takes a JSON-formatted string and returns a JSONObject.
func Parse(str string) (JSONObject, error) {
	var obj JSONObject
	err := json.Unmarshal([]byte(str), &obj)
	return obj, err
}

// String returns the field formatted as text, or "" when absent.
func (o JSONObject) String(key string) string {
	v, ok := o[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

var leading = []string{"time", "level", "message"}

// Pretty renders a log line as "time LEVEL message key=value ...", with the
// remaining keys sorted.
func Pretty(o JSONObject) string {
	var sb strings.Builder
	sb.WriteString(o.String("time"))
	sb.WriteByte(' ')
	sb.WriteString(strings.ToUpper(o.String("level")))
	sb.WriteByte(' ')
	sb.WriteString(o.String("message"))

	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if k == leading[0] || k == leading[1] || k == leading[2] {
			continue
		}
		fmt.Fprintf(&sb, " %s=%s", k, o.String(k))
	}
	return sb.String()
}
