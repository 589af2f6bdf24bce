package number

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "2025000001", Format(2025, 1))
	assert.Equal(t, "2024000123", Format(2024, 123))
	assert.Equal(t, "20251000000", Format(2025, 1000000))
}

func TestValidate_Format(t *testing.T) {
	tests := []struct {
		name      string
		candidate string
	}{
		{"empty", ""},
		{"letters", "ABC"},
		{"too short", "2024001"},
		{"non numeric suffix", "2024ABCDEF"},
		{"zero sequence", "2024000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := Validate(tt.candidate, nil)
			assert.False(t, verdict.Valid)
			assert.Equal(t, ReasonInvalidFormat, verdict.Reason)
		})
	}
}

func TestValidate_NextSlot(t *testing.T) {
	existing := []string{"2024000001", "2024000002"}

	verdict := Validate("2024000003", existing)
	assert.True(t, verdict.Valid)
	assert.Empty(t, verdict.Reason)
}

func TestValidate_Duplicate(t *testing.T) {
	existing := []string{"2024000001", "2024000002"}

	verdict := Validate("2024000002", existing)
	assert.False(t, verdict.Valid)
	assert.Equal(t, ReasonDuplicate, verdict.Reason)
}

func TestValidate_TooHigh(t *testing.T) {
	existing := []string{"2024000001", "2024000002"}

	verdict := Validate("2024000004", existing)
	assert.False(t, verdict.Valid)
	assert.Equal(t, ReasonTooHigh, verdict.Reason)
}

func TestValidate_GapFill(t *testing.T) {
	existing := []string{"2024000001", "2024000003"}

	verdict := Validate("2024000002", existing)
	assert.True(t, verdict.Valid)
}

func TestValidate_YearsAreIndependent(t *testing.T) {
	existing := []string{"2024000001", "2024000002", "2025000001"}

	// 2025's next slot is 2, regardless of how far 2024 has advanced.
	assert.True(t, Validate("2025000002", existing).Valid)

	verdict := Validate("2025000004", existing)
	assert.False(t, verdict.Valid)
	assert.Equal(t, ReasonTooHigh, verdict.Reason)
}
