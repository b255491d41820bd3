package models

import "errors"

// Stable error kinds returned by controllers. Handlers map these to HTTP
// statuses with errors.Is, so wrap them rather than replacing them.
var (
	ErrInvalidTransition     = errors.New("invalid transition")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrNotFound              = errors.New("not found")
	ErrInvalidRating         = errors.New("invalid rating")
	ErrCommentTooLong        = errors.New("comment too long")
	ErrDuplicateReview       = errors.New("duplicate review")
	ErrNothingToUpdate       = errors.New("nothing to update")
	ErrInvalidInput          = errors.New("invalid input")
	ErrConcurrencyConflict   = errors.New("concurrency conflict")
	ErrDownstreamUnavailable = errors.New("downstream unavailable")
)
