package batch

// ItemStatus is the processing outcome of a single batch item.
type ItemStatus string

// Batch item status values.
const (
	StatusOK      ItemStatus = "ok"
	StatusInvalid ItemStatus = "invalid" // rejected before storage
	StatusError   ItemStatus = "error"   // storage failed
)

// Result is the outcome of processing one item in a load.
type Result struct {
	id     string
	status ItemStatus
	err    error
}

// NewOK creates a successful result.
func NewOK(id string) Result { return Result{id: id, status: StatusOK} }

// NewInvalid creates a result for an item that failed validation.
func NewInvalid(id string, err error) Result { return Result{id: id, status: StatusInvalid, err: err} }

// NewError creates a result for an item whose write failed.
func NewError(id string, err error) Result { return Result{id: id, status: StatusError, err: err} }

// ID returns the item identifier.
func (r Result) ID() string { return r.id }

// Status returns the processing outcome.
func (r Result) Status() ItemStatus { return r.status }

// Err returns the error, if any.
func (r Result) Err() error { return r.err }

// Summary counts results by status.
type Summary struct {
	OK      int
	Invalid int
	Failed  int
}

// Summarize counts results by status.
func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch r.status {
		case StatusOK:
			s.OK++
		case StatusInvalid:
			s.Invalid++
		case StatusError:
			s.Failed++
		}
	}
	return s
}
