package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	mperrors "github.com/mrz1836/multipid/internal/errors"
)

// Output format names accepted by --output.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Output writes command results to stdout and errors to stderr.
type Output interface {
	// Holders prints a holder set, ascending.
	Holders(path string, pids []int) error
	// Count prints a semaphore value.
	Count(path string, value int) error
	// Error prints err with a user-facing message and suggested action.
	Error(err error)
	// JSON writes v as indented JSON to stdout.
	JSON(v any) error
}

// HoldersResult is the JSON shape of a holder set.
type HoldersResult struct {
	Path    string `json:"path"`
	Holders []int  `json:"holders"`
}

// CountResult is the JSON shape of a semaphore value.
type CountResult struct {
	Path  string `json:"path"`
	Value int    `json:"value"`
}

// ErrorResult is the JSON shape of an error.
type ErrorResult struct {
	Error   string `json:"error"`
	Kind    string `json:"kind"`
	Message string `json:"message,omitempty"`
	Action  string `json:"action,omitempty"`
}

// TextOutput prints one value per line, the format shell pipelines consume.
type TextOutput struct {
	out    io.Writer
	errOut io.Writer
	styles *OutputStyles
}

// NewTextOutput creates a TextOutput. Errors are styled only if styled is true.
func NewTextOutput(out, errOut io.Writer, styled bool) *TextOutput {
	o := &TextOutput{out: out, errOut: errOut}
	if styled {
		CheckNoColor()
		o.styles = NewOutputStyles()
	}
	return o
}

// Holders prints one PID per line. An empty set prints nothing.
func (o *TextOutput) Holders(_ string, pids []int) error {
	var b strings.Builder
	for _, pid := range pids {
		b.WriteString(strconv.Itoa(pid))
		b.WriteByte('\n')
	}
	_, err := io.WriteString(o.out, b.String())
	return err
}

// Count prints the value on its own line.
func (o *TextOutput) Count(_ string, value int) error {
	_, err := fmt.Fprintln(o.out, value)
	return err
}

// Error prints the full error chain, followed by the user message and the
// suggested action when one is known.
func (o *TextOutput) Error(err error) {
	if err == nil {
		return
	}
	message, action := mperrors.Actionable(err)

	if o.styles == nil {
		_, _ = fmt.Fprintf(o.errOut, "multipid: %s\n", err)
		if message != err.Error() {
			_, _ = fmt.Fprintf(o.errOut, "  %s\n", message)
		}
		if action != "" {
			_, _ = fmt.Fprintf(o.errOut, "  Try: %s\n", action)
		}
		return
	}

	style := o.styles.Error
	if mperrors.KindOf(err).IsCallerError() {
		style = o.styles.Warning
	}
	_, _ = fmt.Fprintln(o.errOut, style.Render("✗ "+message))
	if message != err.Error() {
		_, _ = fmt.Fprintln(o.errOut, o.styles.Dim.Render("  "+err.Error()))
	}
	if action != "" {
		_, _ = fmt.Fprintln(o.errOut, o.styles.Dim.Render("  ▸ Try: "+action))
	}
}

// JSON writes v as indented JSON.
func (o *TextOutput) JSON(v any) error {
	return encodeJSON(o.out, v)
}

// JSONOutput prints results and errors as JSON objects.
type JSONOutput struct {
	out    io.Writer
	errOut io.Writer
}

// NewJSONOutput creates a JSONOutput.
func NewJSONOutput(out, errOut io.Writer) *JSONOutput {
	return &JSONOutput{out: out, errOut: errOut}
}

// Holders prints {"path":...,"holders":[...]}. An empty set is [] not null.
func (o *JSONOutput) Holders(path string, pids []int) error {
	if pids == nil {
		pids = []int{}
	}
	return encodeJSON(o.out, HoldersResult{Path: path, Holders: pids})
}

// Count prints {"path":...,"value":N}.
func (o *JSONOutput) Count(path string, value int) error {
	return encodeJSON(o.out, CountResult{Path: path, Value: value})
}

// Error prints an ErrorResult to stderr.
func (o *JSONOutput) Error(err error) {
	if err == nil {
		return
	}
	message, action := mperrors.Actionable(err)
	_ = encodeJSON(o.errOut, ErrorResult{
		Error:   err.Error(),
		Kind:    mperrors.KindOf(err).String(),
		Message: message,
		Action:  action,
	})
}

// JSON writes v as indented JSON.
func (o *JSONOutput) JSON(v any) error {
	return encodeJSON(o.out, v)
}

func encodeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// NewOutput creates the output for format. Text errors are styled when
// errOut is a color-capable terminal.
func NewOutput(out, errOut io.Writer, format string) Output {
	if format == FormatJSON {
		return NewJSONOutput(out, errOut)
	}
	return NewTextOutput(out, errOut, IsTerminal(errOut) && HasColorSupport())
}
