package world

import "errors"

var (
	// World errors

	ErrNilBuildable     = errors.New("nil buildable")
	ErrDuplicateID      = errors.New("buildable id already in use")
	ErrBuildableMissing = errors.New("buildable not found")

	// Scene errors

	ErrInvalidScene     = errors.New("invalid scene")
	ErrUnknownKind      = errors.New("unknown buildable kind")
	ErrUnknownFamily    = errors.New("unknown connector family")
	ErrUnknownRole      = errors.New("unknown connector role")
	ErrUnknownIntegrant = errors.New("unknown fluid integrant")
)
