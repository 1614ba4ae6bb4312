package channel

import "errors"

// ErrUnknownChannel is returned by Polynomial when the channel number
// has no entry in the table.
var ErrUnknownChannel = errors.New("channel: unknown channel")
