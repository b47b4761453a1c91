// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
)

// Message renders the status line for the outcome of a run.
func Message(res Result, err error) string {
	if err == nil {
		return fmt.Sprintf("Successfully extracted %d game titles to %s", res.Count, res.Output)
	}
	if KindOf(err) == KindInputNotFound {
		in := res.Input
		var e *Error
		if errors.As(err, &e) && e.Path != "" {
			in = e.Path
		}
		if filepath.Dir(in) == "." {
			return fmt.Sprintf("Error: %s file not found in the current directory", filepath.Base(in))
		}
		return fmt.Sprintf("Error: %s file not found", in)
	}
	return fmt.Sprintf("An error occurred: %v", err)
}

var (
	successColor = color.New(color.FgGreen)
	failureColor = color.New(color.FgRed)
)

// PrintStatus writes the status line for a run to w, green on success
// and red on failure. Colour is dropped when stdout is not a terminal.
func PrintStatus(w io.Writer, res Result, err error) {
	c := successColor
	if err != nil {
		c = failureColor
	}
	c.Fprintln(w, Message(res, err))
}
