// Package number formats, validates and analyzes yearly invoice
// numbers. Numbers are the 4-digit year followed by a 6-digit
// zero-padded sequence, e.g. 2025000001. Everything here is pure: no
// side effects, no DB access, fully deterministic.
package number

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	yearWidth = 4
	seqWidth  = 6

	// MinLength is the shortest well-formed number: year + padded sequence.
	MinLength = yearWidth + seqWidth
)

// Validation reason codes surfaced to callers.
const (
	ReasonInvalidFormat = "invoice_number_invalid"
	ReasonDuplicate     = "invoice_number_duplicate"
	ReasonTooHigh       = "invoice_number_too_high"
)

// Verdict is the outcome of validating a candidate number.
type Verdict struct {
	Valid  bool   `json:"is_valid"`
	Reason string `json:"reason,omitempty"`
}

// Format renders the canonical number for a year and sequence.
func Format(year int, seq int64) string {
	return fmt.Sprintf("%04d%0*d", year, seqWidth, seq)
}

// Parse splits a canonical number into year and sequence. It rejects
// anything shorter than MinLength or containing non-digits.
func Parse(candidate string) (year int, seq int64, ok bool) {
	candidate = strings.TrimSpace(candidate)
	if len(candidate) < MinLength {
		return 0, 0, false
	}

	parsedYear, err := strconv.Atoi(candidate[:yearWidth])
	if err != nil {
		return 0, 0, false
	}

	parsedSeq, err := strconv.ParseInt(candidate[yearWidth:], 10, 64)
	if err != nil || parsedSeq <= 0 {
		return 0, 0, false
	}

	return parsedYear, parsedSeq, true
}

// Validate decides whether an externally supplied number may be
// assigned, given every number already issued (excluding the document
// being edited). A candidate may fill any unused slot at or below the
// next available sequence for its year, but may never leapfrog past it.
func Validate(candidate string, existing []string) Verdict {
	year, seq, ok := Parse(candidate)
	if !ok {
		return Verdict{Valid: false, Reason: ReasonInvalidFormat}
	}

	var maxSeq int64
	for _, number := range existing {
		existingYear, existingSeq, ok := Parse(number)
		if !ok || existingYear != year {
			continue
		}
		if existingSeq == seq {
			return Verdict{Valid: false, Reason: ReasonDuplicate}
		}
		if existingSeq > maxSeq {
			maxSeq = existingSeq
		}
	}

	if seq > maxSeq+1 {
		return Verdict{Valid: false, Reason: ReasonTooHigh}
	}

	return Verdict{Valid: true}
}
