package tabref

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/tabwatch/tabwatch/pkg/logger"
)

// Reconciler ensures cached reference tables are present and unexpired.
// All collaborators are injected so the reconciler runs unchanged against
// an in-memory filesystem, a stub fetcher and a fixed clock in tests.
type Reconciler struct {
	fs       afero.Fs
	fetch    Fetcher
	log      logger.Logger
	now      func() time.Time
	handlers *Handlers
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithLogger routes the reconciler's informational output. Failures are
// never logged here; they come back typed in the Result for the caller.
func WithLogger(l logger.Logger) Option {
	return func(r *Reconciler) { r.log = l }
}

// WithClock fixes the "current date" used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) { r.now = now }
}

// WithHandlers attaches download progress callbacks.
func WithHandlers(h *Handlers) Option {
	return func(r *Reconciler) { r.handlers = h }
}

// New returns a Reconciler over the given filesystem and fetcher.
func New(fs afero.Fs, fetch Fetcher, opts ...Option) *Reconciler {
	r := &Reconciler{
		fs:    fs,
		fetch: fetch,
		log:   logger.NewNopLogger(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Result is what one reconciliation reports back.
type Result struct {
	Outcome Outcome
	// ValidUntil is the table's end-of-validity date. Zero when the file
	// was absent or never parsed.
	ValidUntil time.Time
	// ArchivedAs is the path the expired file was renamed to. Set only
	// for OutcomeReplacedExpired.
	ArchivedAs string
	// Discarded counts end-of-validity values that did not parse as dates.
	Discarded int
	// Err is set iff Outcome is OutcomeFailed.
	Err *Error
}

// Reconcile guarantees that, on success, exactly one unexpired table sits at
// path. Missing files are downloaded fresh; expired files are archived under
// a date-stamped name and replaced; valid files are left untouched. Every
// failure is converted into a typed Result instead of escaping this boundary.
func (r *Reconciler) Reconcile(ctx context.Context, path, url string) Result {
	name := filepath.Base(path)

	exists, err := afero.Exists(r.fs, path)
	if err != nil {
		return fail(FailureDownload, name, err)
	}
	if !exists {
		r.log.Info("%s not found, downloading a fresh copy", name)
		if err := download(ctx, r.fs, r.fetch, url, path, r.handlers); err != nil {
			return fail(FailureDownload, name, err)
		}
		return Result{Outcome: OutcomeDownloadedNew}
	}

	table, err := ReadTable(r.fs, path)
	if err != nil {
		kind := FailureParse
		if isMissingColumn(err) {
			kind = FailureMissingColumn
		}
		return fail(kind, name, err)
	}

	validity, discarded, err := LatestValidity(table.EndDates)
	if err != nil {
		return fail(FailureNoValidDates, name, err)
	}
	if discarded > 0 {
		r.log.Warning("%s: discarded %d of %d end-of-validity values as unparseable", name, discarded, table.Rows)
	}

	if !Expired(validity, r.now()) {
		return Result{Outcome: OutcomeStillValid, ValidUntil: validity, Discarded: discarded}
	}

	archived, err := ArchiveExpired(r.fs, path, validity)
	if err != nil {
		kind := FailureDownload
		if errors.Is(err, ErrFileMissing) {
			kind = FailureFileMissing
		}
		return fail(kind, name, err)
	}
	r.log.Info("%s expired on %s, archived as %s", name, validity.Format(archiveDateLayout), filepath.Base(archived))

	if err := download(ctx, r.fs, r.fetch, url, path, r.handlers); err != nil {
		return fail(FailureDownload, name, err)
	}
	return Result{
		Outcome:    OutcomeReplacedExpired,
		ValidUntil: validity,
		ArchivedAs: archived,
		Discarded:  discarded,
	}
}

func fail(kind FailureKind, file string, err error) Result {
	return Result{Outcome: OutcomeFailed, Err: &Error{Kind: kind, File: file, Err: err}}
}
