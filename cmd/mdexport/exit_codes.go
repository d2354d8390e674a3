package main

import (
	"errors"
	"os"

	mdexport "github.com/avrile/go-mdexport"
	"github.com/avrile/go-mdexport/internal/config"
	"github.com/avrile/go-mdexport/internal/dateutil"
)

// Exit codes for the mdexport CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful export
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, profile, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, mdexport.ErrBrowserConnect) ||
		errors.Is(err, mdexport.ErrPageCreate) ||
		errors.Is(err, mdexport.ErrPageLoad) ||
		errors.Is(err, mdexport.ErrPrintWindow) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, ErrWriteArtifact) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/profile/validation errors (exit 2)
	var vErr *mdexport.ValidationError
	if errors.As(err, &vErr) {
		return ExitUsage
	}
	if errors.Is(err, config.ErrProfileNotFound) ||
		errors.Is(err, config.ErrEmptyProfileName) ||
		errors.Is(err, config.ErrProfileParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, mdexport.ErrEmptyContent) ||
		errors.Is(err, mdexport.ErrUnknownFormat) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrUnknownTheme) {
		return ExitUsage
	}

	return ExitGeneral
}
