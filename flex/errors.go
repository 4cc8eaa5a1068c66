package flex

import "errors"

var (
	errNotValidated    = errors.New("image must be validated before mutating it")
	errSeverityTooHigh = errors.New("image has data-loss-severity findings; repair the freelist and directory before mutating")
)
