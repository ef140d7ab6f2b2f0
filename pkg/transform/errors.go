package transform

import "errors"

var (
	ErrNotFitted       = errors.New("transform is not fitted")
	ErrEmptyTable      = errors.New("table has no rows")
	ErrColumnMismatch  = errors.New("column count differs from fitted columns")
	ErrUnknownCategory = errors.New("category not seen during fit")
	ErrBadArtifact     = errors.New("not a column transform artifact")
)
