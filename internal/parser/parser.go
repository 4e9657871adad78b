package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mcncl/jsonify/internal/errors"
)

// Parse reads the whole input and returns its segments: every line (terminator
// kept) split again on delimiter. An empty delimiter leaves lines whole.
// "\r\n" and a lone "\r" both end a line and come back as "\n".
func Parse(reader io.Reader, delimiter string) ([]string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.NewInputError("failed to read input", err)
	}

	text := newlines.Replace(string(data))
	var segments []string
	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		segments = append(segments, splitLine(line, delimiter)...)
	}

	return segments, nil
}

var newlines = strings.NewReplacer("\r\n", "\n", "\r", "\n")

func splitLine(line, delimiter string) []string {
	if delimiter == "" {
		return []string{line}
	}
	return strings.Split(line, delimiter)
}

// ParseString splits text into segments
func ParseString(text, delimiter string) []string {
	// reading from a strings.Reader cannot fail
	segments, _ := Parse(strings.NewReader(text), delimiter)
	return segments
}

// ParseFile reads and splits the file at filePath
func ParseFile(filePath, delimiter string) ([]string, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return nil, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}()

	segments, err := Parse(file, delimiter)
	if err != nil {
		return nil, errors.NewInputError(fmt.Sprintf("failed to read file '%s'", filePath), err)
	}
	return segments, nil
}
