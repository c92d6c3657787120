// Package apperror defines the normalized errors raised by the container
// packages and the command layer.
package apperror

import (
	"github.com/pingcap/errors"
)

var (
	ErrIndexOutOfRange = errors.Normalize(
		"index out of range: index %d, length %d",
		errors.RFCCodeText("RINGO:ErrIndexOutOfRange"),
	)
	ErrInvalidRange = errors.Normalize(
		"invalid range: first %d, last %d, length %d",
		errors.RFCCodeText("RINGO:ErrInvalidRange"),
	)
	ErrInvalidConfig = errors.Normalize(
		"invalid configuration: %s",
		errors.RFCCodeText("RINGO:ErrInvalidConfig"),
	)
	ErrLoadConfigFile = errors.Normalize(
		"failed to load config file %s",
		errors.RFCCodeText("RINGO:ErrLoadConfigFile"),
	)
)
