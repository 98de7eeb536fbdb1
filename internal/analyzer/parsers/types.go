package parsers

import (
	"context"
	"fmt"

	"github.com/mvp-joe/classmeta/internal/analyzer/extraction"
)

// FileExtraction holds the declarations extracted from one source file.
type FileExtraction struct {
	Language     string
	FilePath     string
	Declarations []extraction.Declaration

	// Syntax is the first syntax error found in the file, if any. Parsers are
	// error tolerant, so declarations are still extracted from the rest of
	// the file; callers decide whether an error is fatal.
	Syntax *SyntaxError
}

// Parser extracts declarations from a single source file.
type Parser interface {
	// ParseSource extracts declarations from source. filePath is used for
	// reporting and, for some languages, to derive the enclosing module name.
	ParseSource(ctx context.Context, filePath string, source []byte) (*FileExtraction, error)
}

// SyntaxError locates malformed input.
type SyntaxError struct {
	File   string
	Line   int
	Column int
	Msg    string
}

func (e *SyntaxError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%s:%d:%d: syntax error", e.File, e.Line, e.Column)
	}
	return fmt.Sprintf("%s:%d:%d: syntax error: %s", e.File, e.Line, e.Column, e.Msg)
}
