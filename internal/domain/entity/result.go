package entity

import (
	"time"

	jsoniter "github.com/json-iterator/go"
)

// Fields is the flat record an executor produces. Values must be
// JSON-serializable; integers beyond 2^53 are carried as decimal strings.
type Fields map[string]any

// ExecutionResult is one output entry of a batch.
type ExecutionResult struct {
	Fields    Fields
	Timestamp string
}

// NewExecutionResult stamps fields with t in RFC 3339 (UTC, milliseconds).
func NewExecutionResult(fields Fields, t time.Time) ExecutionResult {
	if fields == nil {
		fields = Fields{}
	}
	return ExecutionResult{Fields: fields, Timestamp: t.UTC().Format("2006-01-02T15:04:05.000Z07:00")}
}

// IsError reports whether the entry records a failed item.
func (r ExecutionResult) IsError() bool {
	_, ok := r.Fields["error"]
	return ok
}

// MarshalJSON flattens the record and its timestamp into one object.
func (r ExecutionResult) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Fields)+1)
	for k, v := range r.Fields {
		out[k] = v
	}
	out["timestamp"] = r.Timestamp
	return jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(out)
}
