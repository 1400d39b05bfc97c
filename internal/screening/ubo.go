package screening

import (
	"strconv"
	"strings"
)

// ParseUBOList converts the free-text beneficial-owner list into structured
// entries. The expected format is one owner per line, pipe-delimited:
//
//	name | date-of-birth | percentage%
//
// Parsing is lenient: lines missing a field or carrying a non-numeric
// percentage are dropped silently. Malformed input never fails the parse;
// completeness problems (no entries, percentages not summing to 100) are
// screening findings, not parse errors.
func ParseUBOList(freeText string) []UBOEntry {
	var entries []UBOEntry
	for line := range strings.Lines(freeText) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		parts := strings.Split(line, "|")
		if len(parts) < 3 {
			continue
		}

		name := strings.TrimSpace(parts[0])
		dob := strings.TrimSpace(parts[1])
		pctField := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(parts[2]), "%"))
		if name == "" || dob == "" || pctField == "" {
			continue
		}

		pct, err := strconv.ParseFloat(pctField, 64)
		if err != nil {
			continue
		}

		entries = append(entries, UBOEntry{
			Name:        name,
			DateOfBirth: dob,
			Ownership:   pct,
		})
	}
	return entries
}

// TotalOwnership sums the declared ownership percentages.
func TotalOwnership(entries []UBOEntry) float64 {
	var total float64
	for _, e := range entries {
		total += e.Ownership
	}
	return total
}
