package graph

// Callback receives progress notifications from long-running operations
// (builders, search, maintenance). The data map is operation-specific;
// well-known keys are documented by each caller (for example the LSH
// builder reports "step", "stage" and "buckets").
type Callback interface {
	Call(data map[string]any)
}

// CallbackFunc adapts a plain function to Callback.
type CallbackFunc func(data map[string]any)

// Call implements Callback.
func (f CallbackFunc) Call(data map[string]any) {
	if f != nil {
		f(data)
	}
}

// callOrNil calls cb if it is non-nil, swallowing the nil-interface case
// that a plain nil Callback value would otherwise panic on.
func callOrNil(cb Callback, data map[string]any) {
	if cb == nil {
		return
	}
	cb.Call(data)
}
