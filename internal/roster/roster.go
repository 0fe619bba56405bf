// Package roster turns raw spreadsheet rows into participant field maps.
package roster

import "strings"

// Row maps semantic field names to cell values for one participant.
type Row map[string]string

// MapRows converts raw sheet rows into participant rows.
//
// With a column mapping, every raw row is a data row: each output key is a
// mapping field name and its value is read from the addressed column letter;
// out-of-range or unparseable letters yield empty strings. Without a mapping,
// the first row is treated as a header (lower-cased, trimmed) and keys all
// subsequent rows, which are right-padded with empty strings.
//
// Fewer than 2 raw rows means there are no data rows and yields nil.
func MapRows(rows [][]string, mapping map[string]string) []Row {
	if len(rows) < 2 {
		return nil
	}

	if len(mapping) > 0 {
		out := make([]Row, 0, len(rows))
		for _, raw := range rows {
			row := make(Row, len(mapping))
			for field, letter := range mapping {
				row[field] = cellAt(raw, ColumnIndex(letter))
			}
			out = append(out, row)
		}
		return out
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	out := make([]Row, 0, len(rows)-1)
	for _, raw := range rows[1:] {
		row := make(Row, len(headers))
		for i, h := range headers {
			row[h] = cellAt(raw, i)
		}
		out = append(out, row)
	}
	return out
}

// ColumnIndex converts a spreadsheet column letter to a zero-based index
// (A=0, B=1, ... Z=25, AA=26). Case-insensitive. Returns -1 for anything
// that is not a pure letter sequence.
func ColumnIndex(letter string) int {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	if letter == "" {
		return -1
	}
	idx := 0
	for _, c := range letter {
		if c < 'A' || c > 'Z' {
			return -1
		}
		idx = idx*26 + int(c-'A'+1)
	}
	return idx - 1
}

func cellAt(raw []string, i int) string {
	if i < 0 || i >= len(raw) {
		return ""
	}
	return raw[i]
}
