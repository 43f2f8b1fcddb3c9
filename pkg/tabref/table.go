package tabref

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"

	"github.com/jszwec/csvutil"
	"github.com/spf13/afero"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// endOfValidityColumn is the header the IBPT tables use for the date on
// which each row stops being applicable.
const endOfValidityColumn = "vigenciafim"

// row maps only the column reconciliation cares about; the decoder ignores
// everything else in the file.
type row struct {
	VigenciaFim string `csv:"vigenciafim"`
}

// Table is the parsed view of a reference file: just enough to decide
// whether it is still valid.
type Table struct {
	Rows     int
	EndDates []string
}

// decoding is one attempt at making sense of the file's bytes. A nil
// transformer reads the bytes as-is.
type decoding struct {
	name string
	t    transform.Transformer
}

// decodings returns the attempts in the order they are tried. The IBPT has
// published both UTF-8 and Latin-1 encoded tables over the years, so after
// the raw attempt a strict UTF-8 pass and a Latin-1 pass get their turn.
func decodings() []decoding {
	return []decoding{
		{name: "raw", t: nil},
		{name: "utf-8", t: encoding.UTF8Validator},
		{name: "latin-1", t: charmap.ISO8859_1.NewDecoder()},
	}
}

// ReadTable reads and parses the reference file at path. Decoding attempts
// run in order until one parses; when all fail the last error is returned.
// A file that decodes but lacks the end-of-validity column fails immediately
// without further attempts, since no encoding will make the column appear.
func ReadTable(fs afero.Fs, path string) (*Table, error) {
	raw, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for _, d := range decodings() {
		data := raw
		if d.t != nil {
			data, err = io.ReadAll(transform.NewReader(bytes.NewReader(raw), d.t))
			if err != nil {
				lastErr = err
				continue
			}
		}
		table, err := parseTable(data)
		if err == nil {
			return table, nil
		}
		if isMissingColumn(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func parseTable(data []byte) (*Table, error) {
	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = sniffDelimiter(data)
	cr.LazyQuotes = true

	dec, err := csvutil.NewDecoder(cr)
	if err != nil {
		return nil, err
	}
	dec.DisallowMissingColumns = true

	table := &Table{}
	for {
		var rec row
		if err := dec.Decode(&rec); err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		table.Rows++
		table.EndDates = append(table.EndDates, rec.VigenciaFim)
	}
	return table, nil
}

// sniffDelimiter picks the candidate separator occurring most often in the
// header line. IBPT publishes semicolon-separated files, but mirrors have
// shipped comma and tab variants.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	best, hits := ',', 0
	for _, c := range []rune{';', ',', '\t', '|'} {
		if n := bytes.Count(line, []byte(string(c))); n > hits {
			best, hits = c, n
		}
	}
	return best
}

func isMissingColumn(err error) bool {
	var mc *csvutil.MissingColumnsError
	return errors.As(err, &mc)
}
