package generator

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mcncl/jsonify/internal/errors"
	"github.com/mcncl/jsonify/internal/models"
)

// Separator sits between two events in the output array
const Separator = ",\n"

// Generator renders extracted events as a JSON array document:
// "[" + event texts joined by ",\n" + "]\n".
//
// Event texts are written verbatim; the document is valid JSON only if
// every text is.
type Generator struct{}

// NewGenerator creates a new Generator instance
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate returns the whole document as a string
func (g *Generator) Generate(events []models.Event) string {
	var sb strings.Builder
	// strings.Builder never fails
	_ = g.Write(&sb, events)
	return sb.String()
}

// Write streams the document to w
func (g *Generator) Write(w io.Writer, events []models.Event) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString("["); err != nil {
		return err
	}
	for i, ev := range events {
		if i > 0 {
			if _, err := bw.WriteString(Separator); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString(ev.Text); err != nil {
			return err
		}
	}
	if _, err := bw.WriteString("]\n"); err != nil {
		return err
	}

	return bw.Flush()
}

// WriteFile writes the document to path, replacing any existing file
func (g *Generator) WriteFile(path string, events []models.Event) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.NewOutputError(fmt.Sprintf("failed to create file '%s'", path), err)
	}

	if err := g.Write(file, events); err != nil {
		_ = file.Close()
		return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", path), err)
	}
	if err := file.Close(); err != nil {
		return errors.NewOutputError(fmt.Sprintf("failed to close file '%s'", path), err)
	}
	return nil
}
