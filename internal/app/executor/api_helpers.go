package executor

import (
	stdjson "encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"beam_automation/internal/domain/entity"
	"beam_automation/internal/pkg/utils"
)

// apiPath joins escaped path segments under a prefix.
func apiPath(prefix string, segments ...string) string {
	var b strings.Builder
	b.WriteString(prefix)
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

// pagination reads limit/offset into a query map. limit is clamped to
// [1, maxLimit].
func pagination(p Params, defLimit, maxLimit int64) (map[string]string, error) {
	limit, err := p.Int64Or("limit", defLimit)
	if err != nil {
		return nil, err
	}
	if limit < 1 {
		return nil, invalid("limit", "must be at least 1")
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset, err := p.Int64Or("offset", 0)
	if err != nil {
		return nil, err
	}
	if offset < 0 {
		return nil, invalid("offset", "must not be negative")
	}
	return map[string]string{
		"limit":  strconv.FormatInt(limit, 10),
		"offset": strconv.FormatInt(offset, 10),
	}, nil
}

// listField extracts the item list from a paged API response. The API wraps
// lists as {"data": [...]} but older endpoints return the array directly.
func listField(resp any, keys ...string) []any {
	switch t := resp.(type) {
	case []any:
		return t
	case map[string]any:
		for _, k := range append(keys, "data", "items", "results") {
			if arr, ok := t[k].([]any); ok {
				return arr
			}
		}
	}
	return []any{}
}

// objectFields copies a JSON object response into a result record.
func objectFields(resp any) entity.Fields {
	out := entity.Fields{}
	if m, ok := resp.(map[string]any); ok {
		if inner, ok := m["data"].(map[string]any); ok {
			m = inner
		}
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// entityID reads the Beam entity id of the acting user.
func entityID(p Params) (string, error) {
	return p.String("entityId")
}

// numberField reads a numeric field that the API may encode as a string.
func numberField(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case stdjson.Number:
		f, err := v.Float64()
		if err == nil {
			return f
		}
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return 0
}

// priceField is numberField for values copied into a result record. Integer
// strings beyond 2^53 are returned as they are.
func priceField(m map[string]any, key string) any {
	if s, ok := m[key].(string); ok {
		if n, ok := utils.ParseBigInt(s); ok && !utils.SafeBigInt(n) {
			return s
		}
	}
	return numberField(m, key)
}

func secondsDuration(secs int64) time.Duration {
	return time.Duration(secs) * time.Second
}
