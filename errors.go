package mdexport

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for export operations.
var (
	// ErrEmptyContent rejects blank or whitespace-only markdown before
	// any generation work starts.
	ErrEmptyContent = errors.New("markdown content cannot be empty")

	// ErrUnknownFormat reports an export format outside the supported set.
	ErrUnknownFormat = errors.New("unknown export format")

	// ErrGeneration wraps unexpected failures during document assembly.
	ErrGeneration = errors.New("document generation failed")

	// ErrPrintWindow reports that the print dispatcher could not open or
	// drive its rendering window. No artifact exists when it is returned.
	ErrPrintWindow = errors.New("print window could not be opened")

	// Browser errors surfaced by the headless print dispatcher.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
)

// ValidationError collects every invalid export option found in one
// validation pass. Callers see all problems at once instead of fixing
// them one resubmission at a time; it is the only recoverable error
// kind, since the caller can edit options and retry.
type ValidationError struct {
	Violations []string
}

// Error joins all violations into one message.
func (e *ValidationError) Error() string {
	return "invalid export options: " + strings.Join(e.Violations, "; ")
}

// UserMessage converts an export error into a human-readable
// notification for the given format. A nil error yields the success
// message; unrecognized errors get a generic per-format fallback.
func UserMessage(f Format, err error) string {
	if err == nil {
		return fmt.Sprintf("%s export completed.", formatLabel(f))
	}

	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		return "Invalid export options: " + strings.Join(vErr.Violations, "; ") + "."
	case errors.Is(err, ErrEmptyContent):
		return "Nothing to export: the document has no content."
	case errors.Is(err, ErrPrintWindow),
		errors.Is(err, ErrBrowserConnect):
		return "Could not open the print window. Check that a browser is available and try again."
	default:
		return fmt.Sprintf("%s export failed. Please try again.", formatLabel(f))
	}
}

// formatLabel returns the display name of a format for notifications.
func formatLabel(f Format) string {
	switch f {
	case FormatPrint:
		return "Print"
	case FormatWord:
		return "Word"
	case FormatEbook:
		return "E-book"
	case FormatSlides:
		return "Slides"
	default:
		return "Document"
	}
}
