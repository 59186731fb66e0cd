package entity

// ParameterLookup is the host's per-item parameter accessor. It returns the
// raw value for name on the given item and whether the parameter was set.
type ParameterLookup func(name string, itemIndex int) (any, bool)

// OperationRequest is built by the dispatcher once per batch item and consumed
// by exactly one executor.
type OperationRequest struct {
	Resource  string
	Operation string
	ItemIndex int
	Lookup    ParameterLookup
}

// BatchItem is one entry of a host invocation.
type BatchItem struct {
	Resource   string         `json:"resource"`
	Operation  string         `json:"operation"`
	Parameters map[string]any `json:"parameters"`
}

// BatchRequest is a whole host invocation. Items run in order.
type BatchRequest struct {
	ContinueOnFail bool        `json:"continueOnFail"`
	Items          []BatchItem `json:"items"`
}

// Lookup adapts the batch's parameter maps to a ParameterLookup.
func (b BatchRequest) Lookup() ParameterLookup {
	return func(name string, itemIndex int) (any, bool) {
		if itemIndex < 0 || itemIndex >= len(b.Items) {
			return nil, false
		}
		v, ok := b.Items[itemIndex].Parameters[name]
		if !ok || v == nil {
			return nil, false
		}
		return v, true
	}
}
