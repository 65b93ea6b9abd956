package forms

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/formsmith/pkg/types"
)

// normalizeValues stringifies raw submission values and keys them by
// identifier. When several raw keys normalize to one key, the raw key that
// sorts last wins.
func normalizeValues(raw map[string]any) map[string]string {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]string, len(raw))
	for _, k := range keys {
		key := types.Identifier(k)
		if key == "" {
			continue
		}
		out[key] = stringify(raw[k])
	}
	return out
}

// stringify renders one submitted value as stored text. Arrays join their
// elements with commas; objects are kept as JSON.
func stringify(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case json.Number:
		return v.String()
	case []string:
		return strings.Join(v, ",")
	case []any:
		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = stringify(e)
		}
		return strings.Join(parts, ",")
	case map[string]any:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	default:
		return fmt.Sprint(v)
	}
}

// encodeExtra serializes pass-through keys for the extra column.
func encodeExtra(extra map[string]string) (string, error) {
	b, err := json.Marshal(extra)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// mergeExtra folds the extra column of a stored record back into its fields.
// Question columns win over pass-through keys of the same name. An
// undecodable extra column is left in place.
func mergeExtra(fields map[string]string) error {
	raw, ok := fields[types.ColumnExtra]
	if !ok {
		return nil
	}
	var extra map[string]string
	if err := json.Unmarshal([]byte(raw), &extra); err != nil {
		return err
	}
	delete(fields, types.ColumnExtra)
	for k, v := range extra {
		if _, taken := fields[k]; !taken {
			fields[k] = v
		}
	}
	return nil
}
