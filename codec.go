package conflate

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// DecodeFunc turns a raw broker payload into a typed value. The nats, redis,
// and file source bridges use one to decode message bodies before ingest.
type DecodeFunc[V any] func(data []byte) (V, error)

// DecodeJSON returns a DecodeFunc that expects JSON payloads.
func DecodeJSON[V any]() DecodeFunc[V] {
	return func(data []byte) (V, error) {
		var v V
		if err := json.Unmarshal(data, &v); err != nil {
			return v, fmt.Errorf("expected JSON: %w", err)
		}
		return v, nil
	}
}

// DecodeYAML returns a DecodeFunc that parses payloads as YAML
// (which also accepts JSON).
func DecodeYAML[V any]() DecodeFunc[V] {
	return func(data []byte) (V, error) {
		var v V
		if err := yaml.Unmarshal(data, &v); err != nil {
			return v, err
		}
		return v, nil
	}
}

// DecodeAuto returns a DecodeFunc that detects the payload format from
// content: a leading '{' or '[' selects JSON, anything else is parsed as
// YAML.
func DecodeAuto[V any]() DecodeFunc[V] {
	return func(data []byte) (V, error) {
		var v V

		trimmed := bytes.TrimSpace(data)
		if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
			err := json.Unmarshal(data, &v)
			return v, err
		}

		err := yaml.Unmarshal(data, &v)
		return v, err
	}
}

// DecodeString is a DecodeFunc for string values, passing the raw payload
// through unparsed.
func DecodeString(data []byte) (string, error) {
	return string(data), nil
}
