package tabref

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyBody    = errors.New("downloaded file is empty")
	ErrNoValidDates = errors.New("no valid end-of-validity dates found")
	ErrFileMissing  = errors.New("file expected to exist is missing")
)

// FailureKind distinguishes the ways a reconciliation can fail.
type FailureKind int

const (
	// FailureFileMissing means a file that was about to be archived
	// disappeared between the validity check and the rename.
	FailureFileMissing FailureKind = iota
	// FailureParse means every decoding attempt on the file failed.
	FailureParse
	// FailureMissingColumn means the file decoded but lacks the
	// end-of-validity column.
	FailureMissingColumn
	// FailureNoValidDates means the column is present but not a single
	// value parsed as a date.
	FailureNoValidDates
	// FailureDownload covers transport and save errors: network failure,
	// non-2xx status, empty body, or a filesystem error while writing,
	// renaming or archiving.
	FailureDownload
)

func (k FailureKind) String() string {
	switch k {
	case FailureFileMissing:
		return "file not found"
	case FailureParse:
		return "unreadable table"
	case FailureMissingColumn:
		return "missing column"
	case FailureNoValidDates:
		return "no valid dates"
	default:
		return "download/save failure"
	}
}

// Error is the typed failure a Result carries. File is the base name of the
// offending file so log lines identify it without leaking full paths.
type Error struct {
	Kind FailureKind
	File string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.File, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
