package domain

import "errors"

// Sentinel errors surfaced to callers. Shortfalls are never errors.
var (
	ErrInvalidPlan              = errors.New("invalid plan")
	ErrMissingProfile           = errors.New("plan profile is missing")
	ErrUnsupportedClaimingAge   = errors.New("unsupported social security claiming age")
	ErrUnknownAccount           = errors.New("unknown account")
	ErrUnsupportedSchemaVersion = errors.New("unsupported plan schema version")
)
