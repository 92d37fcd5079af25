// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package stream

import "encoding/json"

// textKeys are the fields, in order of preference, that carry event text.
var textKeys = []string{"message", "text", "content", "delta", "token", "status"}

// idKeys are the fields that carry the id of the generated model.
var idKeys = []string{"model_id", "modelId", "id", "session_id"}

// nestedKeys are envelope fields searched after the top level.
var nestedKeys = []string{"data", "result", "payload"}

// ExtractText returns the first non-empty text field of a payload, looking at
// the top level first and then inside common envelope fields.
func ExtractText(top map[string]any) string {
	return firstString(top, textKeys)
}

// ExtractModelID returns the model id carried by a JSON payload, if any.
// It supports several common shapes to be resilient to service changes.
func ExtractModelID(raw json.RawMessage) string {
	var top map[string]any
	if err := json.Unmarshal(raw, &top); err != nil {
		return ""
	}
	return firstString(top, idKeys)
}

func firstString(top map[string]any, keys []string) string {
	if s := lookup(top, keys); s != "" {
		return s
	}
	for _, env := range nestedKeys {
		if m, ok := top[env].(map[string]any); ok {
			if s := lookup(m, keys); s != "" {
				return s
			}
		}
	}
	return ""
}

func lookup(m map[string]any, keys []string) string {
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			b, _ := json.Marshal(v)
			return string(b)
		}
	}
	return ""
}
