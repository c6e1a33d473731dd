package mode

// Mode decides how multiple field criteria combine.
type Mode string

// Search mode constants.
const (
	// Any keeps a candidate when at least one field criterion matches.
	Any Mode = "any"
	// All keeps a candidate only when every field criterion matches.
	All Mode = "all"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Any || m == All
}
