package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"batchlens/internal/domain"
	"batchlens/internal/port"
)

// utf8BOM is stripped before decoding; Excel prepends it to CSV exports.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func init() {
	RegisterFormat(domain.FileFormatCSV, func() port.FileParser { return NewCSVParser() })
	RegisterFormat(domain.FileFormatTSV, func() port.FileParser { return NewTSVParser() })
}

// CSVParser decodes delimited text files. The first record is the header
// row; every following record becomes one row mapping header to cell.
type CSVParser struct {
	comma rune
}

// NewCSVParser creates a parser for comma-delimited files.
func NewCSVParser() *CSVParser {
	return &CSVParser{comma: ','}
}

// NewTSVParser creates a parser for tab-delimited files.
func NewTSVParser() *CSVParser {
	return &CSVParser{comma: '\t'}
}

// Parse implements port.FileParser.
func (p *CSVParser) Parse(filename string, content []byte) (*domain.ParsedFile, error) {
	content = bytes.TrimPrefix(content, utf8BOM)
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, newParseError(filename, KindEmpty, nil)
	}
	if !utf8.Valid(content) {
		return nil, newParseError(filename, KindEncoding, errors.New("content is not valid UTF-8"))
	}

	r := csv.NewReader(bytes.NewReader(content))
	r.Comma = p.comma
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	headerRecord, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, newParseError(filename, KindEmpty, errors.New("no header row"))
		}
		return nil, newParseError(filename, KindMalformed, err)
	}

	headers, err := cleanHeaders(filename, headerRecord)
	if err != nil {
		return nil, err
	}

	var rows []map[string]string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, newParseError(filename, KindMalformed, err)
		}
		rows = append(rows, recordToRow(headers, record))
	}

	return &domain.ParsedFile{
		Filename:  filename,
		Headers:   headers,
		Rows:      rows,
		TotalRows: len(rows),
	}, nil
}

// cleanHeaders trims header cells, drops trailing blanks, and rejects
// case-insensitive duplicates (the core requires unique headers).
func cleanHeaders(filename string, record []string) ([]string, error) {
	headers := make([]string, 0, len(record))
	seen := make(map[string]bool, len(record))
	for _, cell := range record {
		h := strings.TrimSpace(cell)
		if h == "" {
			headers = append(headers, "")
			continue
		}
		key := strings.ToLower(h)
		if seen[key] {
			return nil, newParseError(filename, KindMalformed, fmt.Errorf("duplicate header %q", h))
		}
		seen[key] = true
		headers = append(headers, h)
	}
	// Trailing blank columns are padding from spreadsheet exports.
	for len(headers) > 0 && headers[len(headers)-1] == "" {
		headers = headers[:len(headers)-1]
	}
	if len(headers) == 0 {
		return nil, newParseError(filename, KindEmpty, errors.New("header row has no named columns"))
	}
	return headers, nil
}

func recordToRow(headers []string, record []string) map[string]string {
	row := make(map[string]string, len(headers))
	for i, h := range headers {
		if h == "" {
			continue
		}
		if i < len(record) {
			row[h] = strings.TrimSpace(record[i])
		} else {
			row[h] = ""
		}
	}
	return row
}
