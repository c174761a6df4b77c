package data

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrAmbiguousField is returned when a body carries both a canonical key and
// one of its aliases.
var ErrAmbiguousField = errors.New("ambiguous field")

// aliases maps every accepted spelling onto the canonical hyphenated key.
var aliases = map[string]string{
	"user_details":      "user-details",
	"userDetails":       "user-details",
	"registration_name": "registration-name",
	"registrationName":  "registration-name",
	"question_id":       "question-id",
	"questionID":        "question-id",
}

// Decode reads one JSON value from r, rewrites aliased keys at every level to
// their canonical form and unmarshals the result into v.
func Decode(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decoding body: %w", err)
	}
	normalized, err := normalize(raw)
	if err != nil {
		return err
	}

	buf, err := json.Marshal(normalized)
	if err != nil {
		return fmt.Errorf("re-encoding body: %w", err)
	}
	if err := json.NewDecoder(bytes.NewReader(buf)).Decode(v); err != nil {
		return fmt.Errorf("decoding body: %w", err)
	}
	return nil
}

func normalize(v any) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			key := k
			if canonical, ok := aliases[k]; ok {
				key = canonical
			}
			if _, dup := out[key]; dup {
				return nil, fmt.Errorf("%w: %q given more than once", ErrAmbiguousField, key)
			}
			n, err := normalize(val)
			if err != nil {
				return nil, err
			}
			out[key] = n
		}
		return out, nil
	case []any:
		for i := range t {
			n, err := normalize(t[i])
			if err != nil {
				return nil, err
			}
			t[i] = n
		}
		return t, nil
	default:
		return v, nil
	}
}
