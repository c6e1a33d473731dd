package product

// Status is the lifecycle state of a product.
type Status string

// Product status constants.
const (
	StatusActive          Status = "active"
	StatusInactive        Status = "inactive"
	StatusDiscontinued    Status = "discontinued"
	StatusPendingApproval Status = "pending_approval"
	StatusOutOfStock      Status = "out_of_stock"
)

// IsValid checks if the status is one of the supported values.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusDiscontinued, StatusPendingApproval, StatusOutOfStock:
		return true
	}
	return false
}
