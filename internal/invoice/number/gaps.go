package number

import (
	"sort"
	"strconv"
	"strings"
)

// GapReport lists every sequence position below the observed maximum
// that was never issued for a year.
type GapReport struct {
	Year          int      `json:"year"`
	TotalInvoices int      `json:"total_invoices"`
	TotalGaps     int      `json:"total_gaps"`
	Gaps          []string `json:"gaps"`
}

// FindGaps computes the missing sequence positions among the numbers
// issued for a year. Malformed entries are skipped, never fatal: gap
// reporting is a forensic query over whatever the store contains.
func FindGaps(year int, numbers []string) GapReport {
	report := GapReport{Year: year, Gaps: []string{}}

	seen := map[int64]bool{}
	var maxSeq int64
	for _, raw := range numbers {
		seq, ok := parseLoose(raw)
		if !ok {
			continue
		}
		if !seen[seq] {
			seen[seq] = true
			report.TotalInvoices++
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}

	for seq := int64(1); seq <= maxSeq; seq++ {
		if !seen[seq] {
			report.Gaps = append(report.Gaps, Format(year, seq))
		}
	}
	sort.Strings(report.Gaps)
	report.TotalGaps = len(report.Gaps)

	return report
}

// minPrefixedLength is the shortest value still carrying a year prefix:
// four year digits plus at least two sequence digits. Legacy rows with
// narrower sequence padding ("2024001") stay in this bucket so their
// sequence is read after the prefix, not as one seven-digit integer.
const minPrefixedLength = yearWidth + 2

// parseLoose extracts a sequence integer from a stored number.
// Values long enough to carry the year prefix are read after it;
// anything shorter falls back to a raw integer parse so legacy rows
// still count.
func parseLoose(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}

	digits := raw
	if len(raw) >= minPrefixedLength {
		digits = raw[yearWidth:]
	}

	seq, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || seq <= 0 {
		return 0, false
	}
	return seq, true
}
