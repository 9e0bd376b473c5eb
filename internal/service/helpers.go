package service

import (
	"sort"

	"github.com/teamdesk/platform/internal/domain"
)

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func rosterIDs(r domain.Roster) []string {
	ids := make([]string, len(r))
	for i, p := range r {
		ids[i] = p.NationalID
	}
	return ids
}
