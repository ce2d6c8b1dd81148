package autolink

import "errors"

var (
	ErrInvalidConfig     = errors.New("invalid auto-link config")
	ErrUnexpectedPayload = errors.New("unexpected event payload")
)

// Rejection reasons reported to metrics when the scorer drops a candidate.
const (
	rejectInvalid      = "invalid"
	rejectDuplicate    = "duplicate"
	rejectConnected    = "connected"
	rejectIncompatible = "incompatible"
	rejectClass        = "class"
	rejectDistance     = "distance"
	rejectAlignment    = "alignment"
	rejectDirection    = "direction"
	rejectSelf         = "self"
)
