package pipeline

import (
	"errors"
	"fmt"
)

// ErrInputFormat is the parent of every error caused by the uploaded file
// itself. Nothing is written when one is returned.
var ErrInputFormat = errors.New("input format error")

var (
	ErrEmptyInput         = fmt.Errorf("%w: no data rows", ErrInputFormat)
	ErrUnrecognizedSchema = fmt.Errorf("%w: unrecognized schema", ErrInputFormat)
	ErrMalformedInput     = fmt.Errorf("%w: malformed csv", ErrInputFormat)
	ErrInputTooLarge      = fmt.Errorf("%w: input too large", ErrInputFormat)
)

// ErrStore wraps failures of the batch write. The batch is all-or-nothing,
// so a store error means nothing from the file was committed.
var ErrStore = errors.New("ingestion store failure")
