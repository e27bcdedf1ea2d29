package service

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"alumniapi/internal/model"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseTable reads comma separated text into a header row and data rows, trimming every field.
// An empty input yields an empty table. Rows whose column count differs from the header row,
// duplicate header names and read failures are reported as KindMalformedFile.
func ParseTable(r io.Reader) (*model.ParsedTable, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = 0

	table := &model.ParsedTable{Headers: []string{}, Rows: [][]string{}}

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return table, nil
	}
	if err != nil {
		return nil, errMalformedFile(err)
	}

	seen := make(map[string]struct{}, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(h)
		if _, dup := seen[h]; dup {
			return nil, errMalformedFile(fmt.Errorf("duplicate header %q", h))
		}
		seen[h] = struct{}{}
		headers[i] = h
	}
	table.Headers = headers

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errMalformedFile(err)
		}
		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}
		table.Rows = append(table.Rows, record)
	}

	return table, nil
}
