package evaluation

import (
	"errors"
	"fmt"
)

// MalformedRowError reports a line of the uploaded file that is not a single
// integer record id.
type MalformedRowError struct {
	Line  int
	Value string
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("malformed row at line %d: %q is not a record id", e.Line, e.Value)
}

// UnknownRecordIDError reports a predicted id that does not exist in the
// competition's master dataset.
type UnknownRecordIDError struct {
	ID int
}

func (e *UnknownRecordIDError) Error() string {
	return fmt.Sprintf("unknown record id %d: not present in master dataset", e.ID)
}

// DuplicateRowError reports an id listed more than once in the same file.
// Intra-file duplicates indicate a malformed export and are rejected rather
// than collapsed.
type DuplicateRowError struct {
	ID   int
	Line int
}

func (e *DuplicateRowError) Error() string {
	return fmt.Sprintf("record id %d appears more than once (line %d)", e.ID, e.Line)
}

// ConfigurationError is fatal for the whole competition: nothing can be
// scored until an operator fixes the configuration.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "competition configuration error: " + e.Reason
}

// IsValidationError reports whether err was caused by the submitted file
// itself. Validation failures are the submitter's problem; everything else
// is the operator's.
func IsValidationError(err error) bool {
	var malformed *MalformedRowError
	var unknown *UnknownRecordIDError
	var duplicate *DuplicateRowError
	return errors.As(err, &malformed) || errors.As(err, &unknown) || errors.As(err, &duplicate)
}

// IsConfigurationError reports whether err is a fatal competition
// configuration problem.
func IsConfigurationError(err error) bool {
	var cfg *ConfigurationError
	return errors.As(err, &cfg)
}
