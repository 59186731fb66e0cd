package client

import (
	"context"
	stdjson "encoding/json"
	"math/big"
	"strings"
	"time"

	"beam_automation/internal/pkg/utils"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// responseJSON decodes untyped numbers as json.Number so exactNumbers sees
// the literal text.
var responseJSON = jsoniter.Config{UseNumber: true, EscapeHTML: true}.Froze()

const (
	maxErrorBodyChars = 200
	userAgent         = "beamnode"
)

// doWithContext runs req honouring the context deadline, falling back to the
// client's default timeout.
func doWithContext(ctx context.Context, client *fasthttp.Client, req *fasthttp.Request, resp *fasthttp.Response, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		return client.DoDeadline(req, resp, deadline)
	}
	return client.DoTimeout(req, resp, timeout)
}

// errorMessage extracts a human readable message from an error response body.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorBodyChars {
		msg = msg[:maxErrorBodyChars] + "..."
	}
	if msg == "" {
		msg = "empty response"
	}
	return msg
}

// decodeExact unmarshals a response body. Untyped numbers come back as
// float64, except integers beyond 2^53 which are kept as decimal strings.
func decodeExact(body []byte, out any) error {
	if err := responseJSON.Unmarshal(body, out); err != nil {
		return err
	}
	switch t := out.(type) {
	case *any:
		*t = exactNumbers(*t)
	case *map[string]any:
		exactNumbers(*t)
	case *[]any:
		exactNumbers(*t)
	}
	return nil
}

func exactNumbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, e := range t {
			t[k] = exactNumbers(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = exactNumbers(e)
		}
		return t
	case stdjson.Number:
		s := string(t)
		if !strings.ContainsAny(s, ".eE") {
			if n, ok := new(big.Int).SetString(s, 10); ok && !utils.SafeBigInt(n) {
				return s
			}
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return s
	}
	return v
}
