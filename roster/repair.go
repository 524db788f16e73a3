package roster

import "sort"

// =============================================================================
// REPAIR SUPPORT - Selecting violations and re-auditing the result
// =============================================================================

// SelectViolations returns the violations at the given report indices, in the
// order requested. Duplicate indices are kept once.
func SelectViolations(violations []Violation, indices []int) ([]Violation, error) {
	seen := make(map[int]bool, len(indices))
	out := make([]Violation, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(violations) {
			return nil, &SelectionError{Index: i, Len: len(violations)}
		}
		if seen[i] {
			continue
		}
		seen[i] = true
		out = append(out, violations[i])
	}
	return out, nil
}

// RepairInstructions turns selected violations into the plain instruction
// lines handed to the roster generator.
func RepairInstructions(selected []Violation) []string {
	lines := make([]string, len(selected))
	for i, v := range selected {
		lines[i] = "Fix [" + string(v.Severity) + "] " + v.Message
	}
	return lines
}

// AuditDiff compares two audits of the same roster.
type AuditDiff struct {
	Resolved   []Violation // in before, gone after
	Introduced []Violation // new after
	Persisting []Violation // present in both, as reported after
}

// DiffAudits matches violations by Key. Output keeps each report's order.
func DiffAudits(before, after *AuditReport) AuditDiff {
	afterKeys := make(map[string]int)
	for _, v := range after.Violations {
		afterKeys[v.Key()]++
	}
	beforeKeys := make(map[string]int)
	for _, v := range before.Violations {
		beforeKeys[v.Key()]++
	}

	var diff AuditDiff
	for _, v := range before.Violations {
		if afterKeys[v.Key()] == 0 {
			diff.Resolved = append(diff.Resolved, v)
		}
	}
	for _, v := range after.Violations {
		if beforeKeys[v.Key()] > 0 {
			diff.Persisting = append(diff.Persisting, v)
		} else {
			diff.Introduced = append(diff.Introduced, v)
		}
	}
	return diff
}

// CountBySeverity tallies violations, returning severities in a fixed order.
func CountBySeverity(violations []Violation) []SeverityCount {
	counts := make(map[Severity]int)
	for _, v := range violations {
		counts[v.Severity]++
	}
	out := make([]SeverityCount, 0, len(counts))
	for s, n := range counts {
		out = append(out, SeverityCount{Severity: s, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return severityRank(out[i].Severity) < severityRank(out[j].Severity) })
	return out
}

// SeverityCount is one row of CountBySeverity.
type SeverityCount struct {
	Severity Severity
	Count    int
}

func severityRank(s Severity) int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityLegal:
		return 1
	case SeverityEquity:
		return 2
	case SeverityAsset:
		return 3
	default:
		return 4
	}
}
