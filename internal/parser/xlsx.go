package parser

import (
	"bytes"
	"errors"

	"github.com/xuri/excelize/v2"

	"batchlens/internal/domain"
	"batchlens/internal/port"
)

func init() {
	RegisterFormat(domain.FileFormatXLSX, func() port.FileParser { return NewXLSXParser() })
}

// XLSXParser decodes the first sheet of a workbook. The first row is the
// header row; every following row becomes one data row.
type XLSXParser struct{}

// NewXLSXParser creates an XLSX parser.
func NewXLSXParser() *XLSXParser {
	return &XLSXParser{}
}

// Parse implements port.FileParser.
func (p *XLSXParser) Parse(filename string, content []byte) (*domain.ParsedFile, error) {
	if len(content) == 0 {
		return nil, newParseError(filename, KindEmpty, nil)
	}

	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, newParseError(filename, KindMalformed, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, newParseError(filename, KindEmpty, errors.New("workbook has no sheets"))
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, newParseError(filename, KindMalformed, err)
	}
	if len(records) == 0 {
		return nil, newParseError(filename, KindEmpty, errors.New("first sheet is empty"))
	}

	headers, err := cleanHeaders(filename, records[0])
	if err != nil {
		return nil, err
	}

	var rows []map[string]string
	for _, record := range records[1:] {
		rows = append(rows, recordToRow(headers, record))
	}

	return &domain.ParsedFile{
		Filename:  filename,
		Headers:   headers,
		Rows:      rows,
		TotalRows: len(rows),
	}, nil
}
