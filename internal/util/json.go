package util

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"
)

// SerializeToJSONString serializes the given value to a JSON string.
func SerializeToJSONString(v interface{}) (string, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(jsonBytes), nil
}

// DeserializeFromJSONString deserializes the given JSON string into v.
// Unknown fields are ignored. Trailing data after the first JSON value is
// rejected.
func DeserializeFromJSONString(jsonString string, v interface{}) error {
	if reflect.ValueOf(v).Kind() != reflect.Ptr {
		return errors.New("input must be a pointer")
	}

	dec := json.NewDecoder(strings.NewReader(jsonString))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("unexpected data after JSON value")
	}
	return nil
}
