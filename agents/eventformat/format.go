/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package eventformat turns webhook payloads into the user message that opens a run.
//
// Format never fails: absent or wrongly typed fields render as "unknown", and
// event types without a template fall back to the indented JSON payload.
package eventformat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// Unknown replaces any field that is absent or not renderable.
	Unknown = "unknown"

	// NoDescription replaces an empty issue or pull request body.
	NoDescription = "No description"
)

// Format renders payload for the given GitHub event type.
func Format(eventType string, payload any) string {
	p := normalize(payload)

	switch eventType {
	case "issues":
		issue := object(p, "issue")
		return fmt.Sprintf("GitHub Issue Event:\nAction: %s\nIssue #%s: %s\nRepository: %s\nBody: %s",
			field(p, "action"), field(issue, "number"), field(issue, "title"),
			field(object(p, "repository"), "full_name"), body(issue))

	case "pull_request":
		pr := object(p, "pull_request")
		return fmt.Sprintf("GitHub Pull Request Event:\nAction: %s\nPR #%s: %s\nRepository: %s\nBody: %s",
			field(p, "action"), field(pr, "number"), field(pr, "title"),
			field(object(p, "repository"), "full_name"), body(pr))

	case "push":
		commits, _ := p["commits"].([]any)
		return fmt.Sprintf("GitHub Push Event:\nRepository: %s\nRef: %s\nCommits: %d",
			field(object(p, "repository"), "full_name"), field(p, "ref"), len(commits))

	case "ping":
		return fmt.Sprintf("GitHub Ping Event:\nRepository: %s\nZen: %s",
			field(object(p, "repository"), "full_name"), field(p, "zen"))

	default:
		return fmt.Sprintf("GitHub %s Event:\n%s", eventType, dump(payload))
	}
}

// normalize coerces payload into a generic JSON object. Anything that is not
// an object yields an empty map so field lookups degrade to Unknown. Maps are
// round-tripped too, so nested typed maps and structs become generic objects.
func normalize(payload any) map[string]any {
	switch v := payload.(type) {
	case map[string]any:
		b, err := json.Marshal(v)
		if err != nil {
			return v
		}
		return decodeObject(b)
	case nil:
		return map[string]any{}
	case []byte:
		return decodeObject(v)
	case json.RawMessage:
		return decodeObject(v)
	case string:
		return decodeObject([]byte(v))
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return map[string]any{}
	}
	return decodeObject(b)
}

func decodeObject(b []byte) map[string]any {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil || m == nil {
		return map[string]any{}
	}
	return m
}

func object(m map[string]any, key string) map[string]any {
	if v, ok := m[key].(map[string]any); ok {
		return v
	}
	return map[string]any{}
}

func field(m map[string]any, key string) string {
	s, ok := scalar(m[key])
	if !ok {
		return Unknown
	}
	return s
}

func body(m map[string]any) string {
	s, ok := scalar(m["body"])
	if !ok || s == "" {
		return NoDescription
	}
	return s
}

// scalar renders strings, numbers and booleans. Integral numbers never use
// an exponent or a fractional part.
func scalar(v any) (string, bool) {
	switch v := v.(type) {
	case string:
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return strconv.FormatInt(i, 10), true
		}
		if f, err := v.Float64(); err == nil {
			return formatFloat(f), true
		}
		return v.String(), true
	case float64:
		return formatFloat(v), true
	case float32:
		return formatFloat(float64(v)), true
	case int:
		return strconv.Itoa(v), true
	case int32:
		return strconv.FormatInt(int64(v), 10), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	}
	return "", false
}

func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Unknown
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e18 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func dump(payload any) string {
	if raw, ok := payload.(json.RawMessage); ok {
		payload = decodeAny(raw)
	} else if raw, ok := payload.([]byte); ok {
		payload = decodeAny(raw)
	}

	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return strings.TrimSpace(fmt.Sprintf("%v", payload))
	}
	return string(b)
}

func decodeAny(b []byte) any {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return string(b)
	}
	return v
}
