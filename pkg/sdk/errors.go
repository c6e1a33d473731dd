package prodex

import "github.com/kailas-cloud/prodex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound       = domain.ErrNotFound
	ErrInvalidQuery   = domain.ErrInvalidQuery
	ErrInvalidProduct = domain.ErrInvalidProduct
	ErrSearchTimeout  = domain.ErrSearchTimeout
	ErrInternal       = domain.ErrInternal
)

// ValidationError lists every problem found in a query. Use errors.As() to inspect it.
type ValidationError = domain.ValidationError

// Violation is a single invalid query field.
type Violation = domain.Violation

// InternalError carries the correlation id logged alongside an unexpected failure.
type InternalError = domain.InternalError
