package parse

import (
	"bytes"
	"encoding/json"
	"fmt"

	"econtab/internal/errors"
	"econtab/pkg/tabular"
)

// ParseJSON parses a JSON array of flat objects into a table. Columns are
// the union of keys across all objects, ordered by first appearance in
// the document; missing keys become nulls. Nested values keep their raw
// JSON text as string cells rather than being flattened.
func ParseJSON(data []byte, source string) (*tabular.Table, error) {
	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.MalformedData(source, err, "expected a JSON array")
	}

	var names []string
	seen := make(map[string]bool)
	rows := make([]map[string]json.RawMessage, 0, len(records))
	for i, rec := range records {
		keys, fields, err := decodeObject(rec)
		if err != nil {
			return nil, errors.MalformedData(source, err, "element %d is not an object", i)
		}
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				names = append(names, k)
			}
		}
		rows = append(rows, fields)
	}

	t, err := tabular.New(names...)
	if err != nil {
		return nil, err
	}
	for _, fields := range rows {
		row := make([]tabular.Value, len(names))
		for i, name := range names {
			raw, ok := fields[name]
			if !ok {
				row[i] = tabular.Null()
				continue
			}
			row[i] = jsonValue(raw)
		}
		if err := t.AppendRow(row...); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// decodeObject walks one object's tokens so key order survives; a plain
// map decode would lose it.
func decodeObject(raw json.RawMessage) ([]string, map[string]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("expected object, got %v", tok)
	}
	var keys []string
	fields := make(map[string]json.RawMessage)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key := keyTok.(string)
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, nil, err
		}
		if _, dup := fields[key]; !dup {
			keys = append(keys, key)
		}
		fields[key] = value
	}
	return keys, fields, nil
}

// jsonValue converts one JSON value to a tagged cell. Objects and arrays
// keep their raw JSON text; booleans render as "true"/"false" since the
// table model has no boolean kind.
func jsonValue(raw json.RawMessage) tabular.Value {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return tabular.String(string(raw))
	}
	switch x := v.(type) {
	case nil:
		return tabular.Null()
	case string:
		return tabular.String(x)
	case float64:
		if x == float64(int64(x)) && !bytes.ContainsAny(raw, ".eE") {
			return tabular.Int(int64(x))
		}
		return tabular.Float(x)
	case bool:
		return tabular.String(fmt.Sprintf("%t", x))
	default:
		return tabular.String(string(raw))
	}
}
