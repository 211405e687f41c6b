// Package parser decodes uploaded files (CSV, TSV, XLSX) into the
// format-independent domain.ParsedFile the analysis core consumes.
package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"batchlens/internal/domain"
	"batchlens/internal/port"
)

// FormatFactory creates a FileParser for one file format.
type FormatFactory func() port.FileParser

// registry of format factories, populated by init() in each format file
// or explicitly via RegisterFormat.
var formats = map[domain.FileFormat]FormatFactory{}

// RegisterFormat registers a parser factory for a file format.
func RegisterFormat(format domain.FileFormat, factory FormatFactory) {
	formats[format] = factory
}

// Factory selects parsers by filename extension.
type Factory struct{}

// NewFactory creates a Factory.
func NewFactory() *Factory {
	return &Factory{}
}

// ForFilename returns the parser for the file's extension.
func (f *Factory) ForFilename(filename string) (port.FileParser, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	format, ok := domain.AllowedExtensions[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFileType, ext)
	}
	factory, ok := formats[format]
	if !ok {
		return nil, fmt.Errorf("%w: no parser registered for %s", domain.ErrUnsupportedFileType, format)
	}
	return factory(), nil
}
