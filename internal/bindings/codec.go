package bindings

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// decodeOrdered parses a flat object keyed by device id, keeping key order.
func decodeOrdered(data []byte) ([]string, map[string]Binding, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("expected JSON object, got %v", tok)
	}

	order := []string{}
	result := map[string]Binding{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		deviceID, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected key %v", tok)
		}

		var b Binding
		if err := dec.Decode(&b); err != nil {
			return nil, nil, fmt.Errorf("binding %q: %w", deviceID, err)
		}
		if _, seen := result[deviceID]; !seen {
			order = append(order, deviceID)
		}
		result[deviceID] = b
	}

	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return order, result, nil
}

// encodeOrdered writes entries as an indented flat object in slice order.
func encodeOrdered(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.DeviceID)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(e.Binding)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')

	var out bytes.Buffer
	if err := json.Indent(&out, buf.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
