package tabref

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// archiveDateLayout stamps archived files with the validity date, day first.
const archiveDateLayout = "02-01-2006"

// ArchiveExpired renames the expired file at path to
// "<stem>_<DD-MM-YYYY><ext>" using the given validity date. When that name
// is taken, "(1)", "(2)", … is appended until a free name is found; an
// existing archive is never overwritten. Returns the chosen path.
func ArchiveExpired(fs afero.Fs, path string, validity time.Time) (string, error) {
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", fmt.Errorf("%s: %w", path, ErrFileMissing)
	}

	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	stamp := validity.Format(archiveDateLayout)

	target := fmt.Sprintf("%s_%s%s", stem, stamp, ext)
	for n := 1; ; n++ {
		taken, err := afero.Exists(fs, target)
		if err != nil {
			return "", err
		}
		if !taken {
			break
		}
		target = fmt.Sprintf("%s_%s(%d)%s", stem, stamp, n, ext)
	}

	if err := fs.Rename(path, target); err != nil {
		return "", err
	}
	return target, nil
}
