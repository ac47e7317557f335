package backend

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	listview "github.com/goliatone/go-listview/components/listview"
)

var errTrailingData = errors.New("backend: trailing data after JSON value")

// DecodeCollection unwraps a list response. A {success, data:[...]} envelope
// yields data, a bare array is used as is, anything else is empty. An
// envelope with success other than true is empty. Non-object elements are
// skipped.
func DecodeCollection(body []byte) ([]listview.RawRecord, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return []listview.RawRecord{}, nil
	}
	doc, err := decodeJSON(body)
	if err != nil {
		return nil, listview.NewDecodeError(err)
	}
	var items []any
	switch v := doc.(type) {
	case []any:
		items = v
	case map[string]any:
		if success, ok := v["success"]; ok && success != true {
			return []listview.RawRecord{}, nil
		}
		items, _ = v["data"].([]any)
	}
	out := make([]listview.RawRecord, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		}
	}
	return out, nil
}

// DecodeRecord extracts the record from a mutation response, if any.
func DecodeRecord(body []byte) listview.RawRecord {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	doc, err := decodeJSON(body)
	if err != nil {
		return nil
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil
	}
	if data, ok := obj["data"].(map[string]any); ok {
		return data
	}
	if _, envelope := obj["success"]; envelope {
		return nil
	}
	return obj
}

func decodeJSON(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errTrailingData
	}
	return doc, nil
}

// serverMessage reads the "message" (or "error") field of an error body.
func serverMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
