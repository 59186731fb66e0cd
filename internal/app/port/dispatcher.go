package port

import (
	"context"

	"beam_automation/internal/domain/entity"
)

// Dispatcher executes a host invocation item by item.
type Dispatcher interface {
	// ExecuteBatch returns one result per completed item. In abort mode the
	// first failure stops the batch and is returned alongside the results of
	// the items completed before it.
	ExecuteBatch(ctx context.Context, req entity.BatchRequest) ([]entity.ExecutionResult, error)
}
