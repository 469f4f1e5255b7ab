package params

import "fmt"

// ParameterNotFound is returned when a requested edition/year has no loaded
// parameter set.
type ParameterNotFound struct {
	Key string
}

func (e *ParameterNotFound) Error() string {
	return fmt.Sprintf("parameter set not found: %s", e.Key)
}

// ParameterInvalid is returned when a loaded parameter file fails
// validation: missing jurisdictions, non-ascending brackets, or an
// inconsistent CPP2/YAMPE relationship.
type ParameterInvalid struct {
	Key    string
	Reason string
}

func (e *ParameterInvalid) Error() string {
	return fmt.Sprintf("invalid parameter set %s: %s", e.Key, e.Reason)
}
