package stroke

import "errors"

// Sentinel errors.
var (
	ErrSealed        = errors.New("stroke is sealed")
	ErrInvalidSample = errors.New("invalid sample")
	ErrUnknownStyle  = errors.New("unknown stroke style")
	ErrInvalidConfig = errors.New("invalid stroke config")
)
