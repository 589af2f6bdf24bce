package number

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindGaps_Empty(t *testing.T) {
	report := FindGaps(2025, nil)

	assert.Equal(t, 2025, report.Year)
	assert.Equal(t, 0, report.TotalInvoices)
	assert.Equal(t, 0, report.TotalGaps)
	assert.Empty(t, report.Gaps)
}

func TestFindGaps_SingleGap(t *testing.T) {
	report := FindGaps(2025, []string{"2025000001", "2025000003"})

	assert.Equal(t, 2, report.TotalInvoices)
	assert.Equal(t, 1, report.TotalGaps)
	assert.Equal(t, []string{"2025000002"}, report.Gaps)
}

func TestFindGaps_Contiguous(t *testing.T) {
	report := FindGaps(2025, []string{"2025000001", "2025000002", "2025000003"})

	assert.Equal(t, 3, report.TotalInvoices)
	assert.Equal(t, 0, report.TotalGaps)
	assert.Empty(t, report.Gaps)
}

func TestFindGaps_LegacyNarrowPaddingKeepsSequenceSmall(t *testing.T) {
	// A seven-digit legacy value still carries the year prefix; its
	// sequence is the trailing digits, not the whole integer.
	report := FindGaps(2024, []string{"2024001", "2024000003"})

	assert.Equal(t, 2, report.TotalInvoices)
	assert.Equal(t, 1, report.TotalGaps)
	assert.Equal(t, []string{"2024000002"}, report.Gaps)
}

func TestFindGaps_LegacyAndCanonicalSameSequenceDeduplicate(t *testing.T) {
	report := FindGaps(2024, []string{"2024001", "2024000001"})

	assert.Equal(t, 1, report.TotalInvoices)
	assert.Equal(t, 0, report.TotalGaps)
	assert.Empty(t, report.Gaps)
}

func TestFindGaps_DeduplicatesAndSkipsMalformed(t *testing.T) {
	report := FindGaps(2025, []string{
		"2025000001",
		"2025000001", // duplicate row
		"3",          // legacy short format
		"garbage",
		"",
		"2025000005",
	})

	assert.Equal(t, 3, report.TotalInvoices)
	assert.Equal(t, 2, report.TotalGaps)
	assert.Equal(t, []string{"2025000002", "2025000004"}, report.Gaps)
}
