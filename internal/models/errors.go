package models

import "errors"

// ErrInvalidInput is wrapped by every validation error so transports can map
// them to a single client-error class.
var ErrInvalidInput = errors.New("invalid input")
