package repository

import (
	"crypto/sha256"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// DeterministicKey derives a stable key for a legacy row that predates the
// key column. The same table, content and occurrence index always give the
// same key, so identical duplicate rows still get distinct keys.
func DeterministicKey(table string, content Row, occurrence int) uuid.UUID {
	h := sha256.New()
	h.Write([]byte(table))
	h.Write([]byte(":"))
	h.Write([]byte(keySignature(content)))
	h.Write([]byte(strconv.Itoa(occurrence)))
	digest := h.Sum(nil)

	var id uuid.UUID
	copy(id[:], digest[:16])
	id[6] = (id[6] & 0x0f) | 0x50 // version 5
	id[8] = (id[8] & 0x3f) | 0x80 // variant RFC4122
	return id
}

// keySignature joins the trimmed cells of content. Rows that differ only
// in surrounding whitespace share a signature and are told apart by their
// occurrence index.
func keySignature(content Row) string {
	var b strings.Builder
	for _, c := range content {
		b.WriteString(strings.TrimSpace(c))
		b.WriteByte(0x1f)
	}
	return b.String()
}

// WithKeys returns rows with every empty or unparsable key cell at keyCol
// replaced by its deterministic key. Rows are copied; the input is untouched.
// The second result lists the 1-based positions that were filled.
func WithKeys(table string, rows []Row, keyCol int) ([]Row, []int) {
	out := make([]Row, len(rows))
	seen := make(map[string]int)
	var filled []int
	for i, r := range rows {
		row := r.Padded(keyCol + 1)
		if _, err := uuid.Parse(row.Cell(keyCol)); err == nil {
			out[i] = row
			continue
		}
		content := row[:keyCol]
		sig := keySignature(content)
		row[keyCol] = DeterministicKey(table, content, seen[sig]).String()
		seen[sig]++
		out[i] = row
		filled = append(filled, i+1)
	}
	return out, filled
}
