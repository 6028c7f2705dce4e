package strategy

import "errors"

// ErrNoCandidates is returned when electing a successor from an empty roster.
var ErrNoCandidates = errors.New("no candidates for successor election")
