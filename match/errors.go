package match

import (
	"errors"
	"fmt"
)

// Request-level errors. Any of these aborts the whole ranking call before
// (or instead of) scoring work.
var (
	// ErrEmptyText is returned when a profile has no text to embed.
	ErrEmptyText = errors.New("empty profile text")

	// ErrWeightSum is returned when the configured weights do not sum to 1.0.
	ErrWeightSum = errors.New("score weights must sum to 1.0")

	// ErrBudgetRange is returned when the subject's budget has min > max.
	ErrBudgetRange = errors.New("budget minimum exceeds maximum")

	// ErrModelUnavailable is returned when the embedding model cannot be
	// reached or produces no output. Without embeddings nothing can be
	// scored, so the whole batch fails.
	ErrModelUnavailable = errors.New("embedding model unavailable")
)

// Candidate-level errors. These never abort a batch: the failing candidate is
// skipped and the failure recorded alongside the ranked results.
var (
	// ErrDimensionMismatch is returned when two embedding vectors have
	// different lengths. Should not happen when both vectors come from the
	// same embedder.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrLocationUnresolved is returned when a profile has no coordinates
	// and its ZIP code is not in the lookup table.
	ErrLocationUnresolved = errors.New("location unresolved")
)

// CandidateError records why a single candidate could not be scored. A batch
// with candidate errors still returns results for every other candidate, so
// callers can tell "no matches" apart from "some candidates failed".
type CandidateError struct {
	CandidateID int
	Err         error
}

func (e CandidateError) Error() string {
	return fmt.Sprintf("candidate %d: %v", e.CandidateID, e.Err)
}

func (e CandidateError) Unwrap() error { return e.Err }
