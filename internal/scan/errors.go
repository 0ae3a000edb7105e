package scan

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfigInvalid is matched by every *ConfigInvalidError
	ErrConfigInvalid = errors.New("invalid scan configuration")

	// ErrScanInProgress is returned when a scan is started while another one is active
	ErrScanInProgress = errors.New("scan already in progress")

	// ErrGenerationFailed wraps backend failures; the scan ends without further results
	ErrGenerationFailed = errors.New("result generation failed")

	// ErrResultNotFound is returned when a result index is out of range
	ErrResultNotFound = errors.New("result not found")

	// ErrSelectionInvariant is returned when selecting a sample that is not part of the current results
	ErrSelectionInvariant = errors.New("selected sample is not a member of the current results")
)

// FieldError ties a validation failure to a single input field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ConfigInvalidError lists every offending field of a rejected configuration.
type ConfigInvalidError struct {
	Fields []FieldError
}

func (e *ConfigInvalidError) Error() string {
	reasons := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		reasons[i] = f.Error()
	}
	return fmt.Sprintf("%s: %s", ErrConfigInvalid, strings.Join(reasons, "; "))
}

func (e *ConfigInvalidError) Is(target error) bool {
	return target == ErrConfigInvalid
}
