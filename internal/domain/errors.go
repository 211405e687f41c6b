package domain

import "errors"

var (
	ErrEmptyBatch          = errors.New("batch contains no files")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrModelNotFound       = errors.New("model not found")
)
