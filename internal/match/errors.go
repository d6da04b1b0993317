package match

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnparseableTarget matches an UnparseableTargetError via errors.Is.
	ErrUnparseableTarget = errors.New("non-numeric target for numeric column")
	// ErrUnknownColumn matches an UnknownColumnError via errors.Is.
	ErrUnknownColumn = errors.New("unknown column")
)

// UnparseableTargetError reports a target that is not a number although its
// column is Numeric.
type UnparseableTargetError struct {
	Column string
	Value  string
}

func (e *UnparseableTargetError) Error() string {
	return fmt.Sprintf("non-numeric target %q for numeric column %q", e.Value, e.Column)
}

func (e *UnparseableTargetError) Is(target error) bool { return target == ErrUnparseableTarget }

// UnknownColumnError lists constrained columns absent from the dataset.
type UnknownColumnError struct {
	Columns []string
}

func (e *UnknownColumnError) Error() string {
	if len(e.Columns) == 1 {
		return fmt.Sprintf("unknown column %q", e.Columns[0])
	}
	return fmt.Sprintf("unknown columns: %s", strings.Join(e.Columns, ", "))
}

func (e *UnknownColumnError) Is(target error) bool { return target == ErrUnknownColumn }
