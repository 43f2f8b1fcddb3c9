package tabref

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/afero"
)

// UserAgent identifies tabwatch to the table host on every request.
const UserAgent = "tabwatch/1.0"

// fetchTimeout bounds the whole request, matching the host's slow but
// steady delivery of multi-megabyte tables.
const fetchTimeout = 60 * time.Second

// downloadChunkSize is the copy buffer used while streaming a table to disk.
const downloadChunkSize = 256 << 10

// Fetcher retrieves the raw bytes of a reference table.
type Fetcher interface {
	// Fetch opens a stream for the table at url. length is the announced
	// byte count, or -1 when the server does not send one. A non-2xx
	// response is an error, not a stream.
	Fetch(ctx context.Context, url string) (body io.ReadCloser, length int64, err error)
}

// HTTPFetcher fetches tables with a single plain GET.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher returns a fetcher with the default 60-second timeout.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{Client: &http.Client{Timeout: fetchTimeout}}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", UserAgent)

	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, 0, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return resp.Body, resp.ContentLength, nil
}

// Handlers carries optional download progress callbacks. Any field may be
// nil; a nil *Handlers disables reporting entirely.
type Handlers struct {
	// DownloadProgressHandler receives the cumulative written byte count
	// and the announced total (-1 when unknown) after every chunk.
	DownloadProgressHandler func(written, total int64)
	// DownloadCompleteHandler receives the final byte count once the file
	// has been moved onto the canonical path.
	DownloadCompleteHandler func(total int64)
}

func (h *Handlers) progress(written, total int64) {
	if h != nil && h.DownloadProgressHandler != nil {
		h.DownloadProgressHandler(written, total)
	}
}

func (h *Handlers) complete(total int64) {
	if h != nil && h.DownloadCompleteHandler != nil {
		h.DownloadCompleteHandler(total)
	}
}

// download streams url into path through a sibling "<path>.tmp" file and
// atomically renames it onto the canonical path once the byte count is
// known to be non-zero. On any failure the temporary file is removed on a
// best-effort basis and the original error surfaces.
func download(ctx context.Context, fs afero.Fs, fetch Fetcher, url, path string, h *Handlers) error {
	body, length, err := fetch.Fetch(ctx, url)
	if err != nil {
		return err
	}
	defer body.Close()

	tmp := path + ".tmp"
	f, err := fs.Create(tmp)
	if err != nil {
		return err
	}

	written, err := copyChunks(f, body, length, h)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil && written == 0 {
		err = ErrEmptyBody
	}
	if err != nil {
		_ = fs.Remove(tmp)
		return err
	}

	if err := fs.Rename(tmp, path); err != nil {
		_ = fs.Remove(tmp)
		return err
	}
	h.complete(written)
	return nil
}

func copyChunks(dst io.Writer, src io.Reader, total int64, h *Handlers) (int64, error) {
	buf := make([]byte, downloadChunkSize)
	var written int64
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return written, werr
			}
			written += int64(n)
			h.progress(written, total)
		}
		if rerr == io.EOF {
			return written, nil
		}
		if rerr != nil {
			return written, rerr
		}
	}
}
