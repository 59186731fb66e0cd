package restapi

import (
	"errors"
	"io"
	"net/http"

	"beam_automation/internal/app/executor"
	"beam_automation/internal/app/port"
	"beam_automation/internal/app/service"
	"beam_automation/internal/domain/entity"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
)

// maxBatchBytes bounds the request body of /execute.
const maxBatchBytes = 1 << 20

// UseNumber keeps integers beyond 2^53 exact until an executor parses them.
var requestJSON = jsoniter.Config{UseNumber: true, EscapeHTML: true}.Froze()

// ExecuteResponse is the body of POST /api/v1/execute.
type ExecuteResponse struct {
	Results []entity.ExecutionResult `json:"results"`
	Error   *ErrorBody               `json:"error,omitempty"`
}

// ErrorBody describes a batch that stopped early.
type ErrorBody struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	Item      *int   `json:"item,omitempty"`
	Resource  string `json:"resource,omitempty"`
	Operation string `json:"operation,omitempty"`
}

// ExecuteHandler exposes the dispatcher over HTTP.
type ExecuteHandler struct {
	dispatcher port.Dispatcher
}

func NewExecuteHandler(d port.Dispatcher) *ExecuteHandler {
	return &ExecuteHandler{dispatcher: d}
}

// Execute runs a batch. Under continue-on-fail failed items are reported
// inline and the status is 200; in abort mode the status reflects the error
// and the completed results are still returned.
func (h *ExecuteHandler) Execute(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBatchBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, ExecuteResponse{Results: []entity.ExecutionResult{}, Error: &ErrorBody{Message: "failed to read request body", Type: string(entity.KindInvalidInput)}})
		return
	}
	if len(body) > maxBatchBytes {
		c.JSON(http.StatusRequestEntityTooLarge, ExecuteResponse{Results: []entity.ExecutionResult{}, Error: &ErrorBody{Message: "request body too large", Type: string(entity.KindInvalidInput)}})
		return
	}

	var req entity.BatchRequest
	if err := requestJSON.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, ExecuteResponse{Results: []entity.ExecutionResult{}, Error: &ErrorBody{Message: "invalid JSON: " + err.Error(), Type: string(entity.KindInvalidInput)}})
		return
	}
	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, ExecuteResponse{Results: []entity.ExecutionResult{}, Error: &ErrorBody{Message: "items must not be empty", Type: string(entity.KindInvalidInput)}})
		return
	}

	results, err := h.dispatcher.ExecuteBatch(c.Request.Context(), req)
	if results == nil {
		results = []entity.ExecutionResult{}
	}
	if err == nil {
		c.JSON(http.StatusOK, ExecuteResponse{Results: results})
		return
	}

	errBody := &ErrorBody{Message: err.Error(), Type: string(entity.KindOf(err))}
	var itemErr *service.ItemError
	if errors.As(err, &itemErr) {
		idx := itemErr.Index
		errBody.Item = &idx
		errBody.Resource = itemErr.Resource
		errBody.Operation = itemErr.Operation
	}
	c.JSON(statusFor(err), ExecuteResponse{Results: results, Error: errBody})
}

// ListOperations returns the registered operation keys grouped by resource.
func (h *ExecuteHandler) ListOperations(c *gin.Context) {
	grouped := make(map[string][]string)
	for _, k := range executor.Keys() {
		grouped[string(k.Resource)] = append(grouped[string(k.Resource)], string(k.Operation))
	}
	c.JSON(http.StatusOK, gin.H{"resources": grouped, "count": len(executor.Keys())})
}

func statusFor(err error) int {
	switch entity.KindOf(err) {
	case entity.KindInvalidInput, entity.KindUnsupportedOperation:
		return http.StatusBadRequest
	case entity.KindNotFound:
		return http.StatusNotFound
	case entity.KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
