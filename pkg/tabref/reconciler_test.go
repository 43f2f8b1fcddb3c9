package tabref

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/tabwatch/tabwatch/pkg/logger"
)

const (
	testURL = "http://tables.example/current.csv"

	freshCSV   = "codigo;descricao;vigenciafim\n0101;arroz;31/12/2099\n0102;feijao;\n0103;cafe;não informado\n"
	expiredCSV = "codigo;vigenciafim\n0101;01/01/2000\n"
	serverCSV  = "codigo;vigenciafim\n0101;31/12/2099\n"
)

// stubFetcher serves canned bytes or a canned error, counting calls.
type stubFetcher struct {
	data  []byte
	err   error
	calls int
}

func (f *stubFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, int64, error) {
	f.calls++
	if f.err != nil {
		return nil, 0, f.err
	}
	return io.NopCloser(bytes.NewReader(f.data)), int64(len(f.data)), nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func testClock() func() time.Time {
	return fixedClock(time.Date(2024, time.May, 10, 15, 30, 0, 0, time.Local))
}

func newTestReconciler(fs afero.Fs, fetch Fetcher, opts ...Option) *Reconciler {
	opts = append([]Option{WithClock(testClock())}, opts...)
	return New(fs, fetch, opts...)
}

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	if err := afero.WriteFile(fs, path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return string(data)
}

func mustNotExist(t *testing.T, fs afero.Fs, path string) {
	t.Helper()
	if ok, _ := afero.Exists(fs, path); ok {
		t.Errorf("%s exists, want absent", path)
	}
}

func TestReconcileDownloadsMissingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	fetch := &stubFetcher{data: []byte(serverCSV)}
	rec := newTestReconciler(fs, fetch)

	res := rec.Reconcile(context.Background(), "Tabela.csv", testURL)
	if res.Outcome != OutcomeDownloadedNew {
		t.Fatalf("outcome = %v, want %v (err: %v)", res.Outcome, OutcomeDownloadedNew, res.Err)
	}
	if got := readFile(t, fs, "Tabela.csv"); got != serverCSV {
		t.Errorf("canonical content = %q, want server payload", got)
	}
	if fetch.calls != 1 {
		t.Errorf("fetch calls = %d, want 1", fetch.calls)
	}
	mustNotExist(t, fs, "Tabela.csv.tmp")
}

func TestReconcileStillValidIsIdempotent(t *testing.T) {
	fs := afero.NewMemMapFs()
	fetch := &stubFetcher{data: []byte(serverCSV)}
	rec := newTestReconciler(fs, fetch)
	writeFile(t, fs, "Tabela.csv", freshCSV)

	for i := 0; i < 2; i++ {
		res := rec.Reconcile(context.Background(), "Tabela.csv", testURL)
		if res.Outcome != OutcomeStillValid {
			t.Fatalf("run %d: outcome = %v, want %v (err: %v)", i+1, res.Outcome, OutcomeStillValid, res.Err)
		}
		if want := time.Date(2099, time.December, 31, 0, 0, 0, 0, time.Local); !res.ValidUntil.Equal(want) {
			t.Errorf("run %d: ValidUntil = %v, want %v", i+1, res.ValidUntil, want)
		}
	}
	if fetch.calls != 0 {
		t.Errorf("fetch calls = %d, want 0", fetch.calls)
	}
	if got := readFile(t, fs, "Tabela.csv"); got != freshCSV {
		t.Errorf("canonical file mutated: %q", got)
	}
}

func TestReconcileReplacesExpiredFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	fetch := &stubFetcher{data: []byte(serverCSV)}
	rec := newTestReconciler(fs, fetch)
	writeFile(t, fs, "Tabela.csv", expiredCSV)

	res := rec.Reconcile(context.Background(), "Tabela.csv", testURL)
	if res.Outcome != OutcomeReplacedExpired {
		t.Fatalf("outcome = %v, want %v (err: %v)", res.Outcome, OutcomeReplacedExpired, res.Err)
	}
	if res.ArchivedAs != "Tabela_01-01-2000.csv" {
		t.Errorf("ArchivedAs = %q, want Tabela_01-01-2000.csv", res.ArchivedAs)
	}
	if got := readFile(t, fs, "Tabela_01-01-2000.csv"); got != expiredCSV {
		t.Errorf("archived content = %q, want original bytes", got)
	}
	if got := readFile(t, fs, "Tabela.csv"); got != serverCSV {
		t.Errorf("canonical content = %q, want server payload", got)
	}
}

func TestReconcileArchiveNeverOverwrites(t *testing.T) {
	fs := afero.NewMemMapFs()
	fetch := &stubFetcher{data: []byte(serverCSV)}
	rec := newTestReconciler(fs, fetch)
	writeFile(t, fs, "Tabela.csv", expiredCSV)
	writeFile(t, fs, "Tabela_01-01-2000.csv", "first archive")
	writeFile(t, fs, "Tabela_01-01-2000(1).csv", "second archive")

	res := rec.Reconcile(context.Background(), "Tabela.csv", testURL)
	if res.Outcome != OutcomeReplacedExpired {
		t.Fatalf("outcome = %v, want %v (err: %v)", res.Outcome, OutcomeReplacedExpired, res.Err)
	}
	if res.ArchivedAs != "Tabela_01-01-2000(2).csv" {
		t.Errorf("ArchivedAs = %q, want Tabela_01-01-2000(2).csv", res.ArchivedAs)
	}
	if got := readFile(t, fs, "Tabela_01-01-2000.csv"); got != "first archive" {
		t.Errorf("existing archive overwritten: %q", got)
	}
	if got := readFile(t, fs, "Tabela_01-01-2000(1).csv"); got != "second archive" {
		t.Errorf("existing archive overwritten: %q", got)
	}
}

func TestReconcileRejectsMissingColumn(t *testing.T) {
	fs := afero.NewMemMapFs()
	fetch := &stubFetcher{data: []byte(serverCSV)}
	rec := newTestReconciler(fs, fetch)
	content := "codigo;descricao\n0101;arroz\n"
	writeFile(t, fs, "Tabela.csv", content)

	res := rec.Reconcile(context.Background(), "Tabela.csv", testURL)
	if res.Outcome != OutcomeFailed {
		t.Fatalf("outcome = %v, want %v", res.Outcome, OutcomeFailed)
	}
	if res.Err.Kind != FailureMissingColumn {
		t.Errorf("failure kind = %v, want %v", res.Err.Kind, FailureMissingColumn)
	}
	if fetch.calls != 0 {
		t.Errorf("fetch calls = %d, want 0", fetch.calls)
	}
	if got := readFile(t, fs, "Tabela.csv"); got != content {
		t.Errorf("rejected file was mutated: %q", got)
	}
}

func TestReconcileRejectsFileWithNoValidDates(t *testing.T) {
	fs := afero.NewMemMapFs()
	fetch := &stubFetcher{data: []byte(serverCSV)}
	rec := newTestReconciler(fs, fetch)
	content := "codigo;vigenciafim\n0101;\n0102;não informado\n"
	writeFile(t, fs, "Tabela.csv", content)

	res := rec.Reconcile(context.Background(), "Tabela.csv", testURL)
	if res.Outcome != OutcomeFailed {
		t.Fatalf("outcome = %v, want %v", res.Outcome, OutcomeFailed)
	}
	if res.Err.Kind != FailureNoValidDates {
		t.Errorf("failure kind = %v, want %v", res.Err.Kind, FailureNoValidDates)
	}
	if !errors.Is(res.Err, ErrNoValidDates) {
		t.Errorf("error %v does not wrap ErrNoValidDates", res.Err)
	}
	if fetch.calls != 0 {
		t.Errorf("fetch calls = %d, want 0", fetch.calls)
	}
	if got := readFile(t, fs, "Tabela.csv"); got != content {
		t.Errorf("rejected file was mutated: %q", got)
	}
}

func TestReconcileEmptyDownloadLeavesNothingBehind(t *testing.T) {
	fs := afero.NewMemMapFs()
	fetch := &stubFetcher{data: nil}
	rec := newTestReconciler(fs, fetch)

	res := rec.Reconcile(context.Background(), "Tabela.csv", testURL)
	if res.Outcome != OutcomeFailed {
		t.Fatalf("outcome = %v, want %v", res.Outcome, OutcomeFailed)
	}
	if res.Err.Kind != FailureDownload {
		t.Errorf("failure kind = %v, want %v", res.Err.Kind, FailureDownload)
	}
	if !errors.Is(res.Err, ErrEmptyBody) {
		t.Errorf("error %v does not wrap ErrEmptyBody", res.Err)
	}
	mustNotExist(t, fs, "Tabela.csv")
	mustNotExist(t, fs, "Tabela.csv.tmp")
}

func TestReconcileTransportFailure(t *testing.T) {
	fs := afero.NewMemMapFs()
	fetch := &stubFetcher{err: errors.New("connection refused")}
	rec := newTestReconciler(fs, fetch)

	res := rec.Reconcile(context.Background(), "Tabela.csv", testURL)
	if res.Outcome != OutcomeFailed || res.Err.Kind != FailureDownload {
		t.Fatalf("got outcome %v kind %v, want failed download", res.Outcome, res.Err.Kind)
	}
	mustNotExist(t, fs, "Tabela.csv.tmp")
}

func TestReconcileWarnsAboutDiscardedDates(t *testing.T) {
	fs := afero.NewMemMapFs()
	log := logger.NewMockLogger()
	rec := newTestReconciler(fs, &stubFetcher{}, WithLogger(log))
	writeFile(t, fs, "Tabela.csv", freshCSV)

	res := rec.Reconcile(context.Background(), "Tabela.csv", testURL)
	if res.Outcome != OutcomeStillValid {
		t.Fatalf("outcome = %v, want %v (err: %v)", res.Outcome, OutcomeStillValid, res.Err)
	}
	if res.Discarded != 2 {
		t.Errorf("Discarded = %d, want 2", res.Discarded)
	}
	if len(log.WarningCalls) != 1 {
		t.Errorf("warnings = %v, want one discarded-values warning", log.WarningCalls)
	}
}

func TestReconcileProgressHandlersSeeAllBytes(t *testing.T) {
	fs := afero.NewMemMapFs()
	fetch := &stubFetcher{data: []byte(serverCSV)}

	var lastWritten, completed int64
	h := &Handlers{
		DownloadProgressHandler: func(written, total int64) { lastWritten = written },
		DownloadCompleteHandler: func(total int64) { completed = total },
	}
	rec := newTestReconciler(fs, fetch, WithHandlers(h))

	res := rec.Reconcile(context.Background(), "Tabela.csv", testURL)
	if res.Outcome != OutcomeDownloadedNew {
		t.Fatalf("outcome = %v, want %v (err: %v)", res.Outcome, OutcomeDownloadedNew, res.Err)
	}
	if want := int64(len(serverCSV)); lastWritten != want || completed != want {
		t.Errorf("progress saw %d/%d bytes, want %d", lastWritten, completed, want)
	}
}

func TestReconcileErrorMessageNamesFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	rec := newTestReconciler(fs, &stubFetcher{})
	writeFile(t, fs, "dir/Tabela.csv", "codigo;descricao\n01;x\n")

	res := rec.Reconcile(context.Background(), "dir/Tabela.csv", testURL)
	if res.Err == nil {
		t.Fatal("want a typed error")
	}
	if res.Err.File != "Tabela.csv" {
		t.Errorf("Err.File = %q, want base name Tabela.csv", res.Err.File)
	}
}
