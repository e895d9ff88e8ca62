package model

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
)

const (
	gridPosBlock = "██"
	gridPosEmpty = "  "

	clearScreenSeq = "\033[H\033[2J"
)

// TextRenderer draws a grid as text, two characters per cell
type TextRenderer struct {
	Out io.Writer
}

// Display renders the grid row by row
func (r *TextRenderer) Display(g *Grid) error {
	w := bufio.NewWriter(r.Out)
	for row := range g.Size() {
		for column := range g.Size() {
			if g.Get(row, column) {
				w.WriteString(gridPosBlock)
			} else {
				w.WriteString(gridPosEmpty)
			}
		}
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		return errors.Wrap(err, "[Display] failed to write grid")
	}
	return nil
}

// Clear moves the cursor home and wipes the terminal
func (r *TextRenderer) Clear() error {
	if _, err := io.WriteString(r.Out, clearScreenSeq); err != nil {
		return errors.Wrap(err, "[Clear] failed to clear terminal")
	}
	return nil
}
