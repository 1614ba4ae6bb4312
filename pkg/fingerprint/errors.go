package fingerprint

import "errors"

// ErrBadEncoding is returned when the input text is not valid UTF-8.
var ErrBadEncoding = errors.New("fingerprint: input is not valid UTF-8")

// ErrWorkerCrash is returned when a parallel batch worker panics.
// The driver surfaces it rather than silently dropping that batch's
// results.
var ErrWorkerCrash = errors.New("fingerprint: worker crashed")
