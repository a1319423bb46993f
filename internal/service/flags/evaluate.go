package flags

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// payload is the features document served by GET /api/features/{clientKey}.
type payload struct {
	Features map[string]feature `json:"features"`
}

type feature struct {
	DefaultValue interface{} `json:"defaultValue"`
	Rules        []rule      `json:"rules"`
}

type rule struct {
	Condition map[string]interface{} `json:"condition"`
	Force     json.RawMessage        `json:"force"`
	Coverage  *float64               `json:"coverage"`
}

func parsePayload(b []byte) (payload, error) {
	var p payload
	if err := json.Unmarshal(b, &p); err != nil {
		return p, fmt.Errorf("decode features: %w", err)
	}
	if p.Features == nil {
		p.Features = map[string]feature{}
	}
	return p, nil
}

// evaluate resolves every feature in p to on/off for attrs.
func evaluate(p payload, attrs map[string]interface{}) map[string]bool {
	out := make(map[string]bool, len(p.Features))
	for name, f := range p.Features {
		out[name] = truthy(value(f, attrs))
	}
	return out
}

// value returns the first applicable forced value, else the default.
// Only rules with full coverage and a plain equality condition apply.
func value(f feature, attrs map[string]interface{}) interface{} {
	for _, r := range f.Rules {
		if len(r.Force) == 0 || bytes.Equal(r.Force, []byte("null")) {
			continue
		}
		if r.Coverage != nil && *r.Coverage < 1 {
			continue
		}
		if !matches(r.Condition, attrs) {
			continue
		}
		var v interface{}
		if err := json.Unmarshal(r.Force, &v); err != nil {
			continue
		}
		return v
	}
	return f.DefaultValue
}

func matches(cond, attrs map[string]interface{}) bool {
	for k, want := range cond {
		if strings.HasPrefix(k, "$") {
			return false
		}
		got, ok := attrs[k]
		if !ok || !equalJSON(got, want) {
			return false
		}
	}
	return true
}

func equalJSON(a, b interface{}) bool {
	ab, err1 := json.Marshal(a)
	bb, err2 := json.Marshal(b)
	return err1 == nil && err2 == nil && bytes.Equal(ab, bb)
}

// truthy follows the usual flag SDK rules: false, 0, "", "false", "0",
// null and empty collections are off.
func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != "" && t != "false" && t != "0"
	case map[string]interface{}:
		return len(t) > 0
	case []interface{}:
		return len(t) > 0
	default:
		return true
	}
}
