package port

import "batchlens/internal/domain"

// FileParser decodes one raw uploaded file into its structural form.
// Implementations return a *parser.ParseError describing why decoding
// failed; the orchestrator converts that into a batch diagnostic.
type FileParser interface {
	Parse(filename string, content []byte) (*domain.ParsedFile, error)
}

// ParserFactory selects a FileParser for a filename, typically by
// extension. Unknown formats fail with domain.ErrUnsupportedFileType.
type ParserFactory interface {
	ForFilename(filename string) (FileParser, error)
}
