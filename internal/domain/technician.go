package domain

import (
	"strings"
	"time"
)

// Technician represents a field technician that can be assigned to appointments.
// Name is the effective identity: the admin UI assigns by name and mints new
// records on the fly, so uniqueness is case-insensitive on name.
type Technician struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// NormalizeTechnicianNames trims, drops empty entries and deduplicates names
// case-insensitively, keeping the first spelling of each name
func NormalizeTechnicianNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	result := make([]string, 0, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, trimmed)
	}
	return result
}

// MergeTechnicianNames unions two name lists with case-insensitive dedup,
// existing names first
func MergeTechnicianNames(existing, added []string) []string {
	return NormalizeTechnicianNames(append(append([]string{}, existing...), added...))
}
