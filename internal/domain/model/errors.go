package model

import "errors"

// Storage-level errors shared by every store implementation.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists")
	ErrReportNotFound  = errors.New("report not found")
	ErrLikeLimit       = errors.New("like limit reached")
	ErrNoCandidates    = errors.New("no feed candidates")
)
