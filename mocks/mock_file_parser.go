package mocks

import (
	"github.com/stretchr/testify/mock"

	"batchlens/internal/domain"
	"batchlens/internal/port"
)

// MockFileParser is a mock implementation of port.FileParser.
type MockFileParser struct {
	mock.Mock
}

func (m *MockFileParser) Parse(filename string, content []byte) (*domain.ParsedFile, error) {
	args := m.Called(filename, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParsedFile), args.Error(1)
}

// MockParserFactory is a mock implementation of port.ParserFactory.
type MockParserFactory struct {
	mock.Mock
}

func (m *MockParserFactory) ForFilename(filename string) (port.FileParser, error) {
	args := m.Called(filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(port.FileParser), args.Error(1)
}
