package operator

// Operator is the comparison applied between a search value and a product field.
type Operator string

// Operator constants.
const (
	Equals     Operator = "equals"
	Contains   Operator = "contains"
	StartsWith Operator = "starts_with"
	EndsWith   Operator = "ends_with"
	Fuzzy      Operator = "fuzzy"
	Phrase     Operator = "phrase"
	Wildcard   Operator = "wildcard"
)

// All lists every supported operator.
var All = []Operator{Equals, Contains, StartsWith, EndsWith, Fuzzy, Phrase, Wildcard}

// IsValid checks if the operator is one of the supported values.
func (o Operator) IsValid() bool {
	for _, v := range All {
		if o == v {
			return true
		}
	}
	return false
}
