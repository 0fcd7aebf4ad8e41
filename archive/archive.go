// Package archive extracts text members from zip-format schedule bundles.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Unzip decompresses data and returns member contents keyed by name.
// Directory entries and hidden-prefixed paths are skipped. When members is
// empty every member is extracted; otherwise only the named ones. A missing
// requested member simply yields no entry, the caller must check.
func Unzip(data []byte, members ...string) (map[string]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("corrupt archive: %w", err)
	}

	wanted := map[string]bool{}
	for _, m := range members {
		wanted[m] = true
	}

	out := make(map[string]string)
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || strings.HasPrefix(f.Name, ".") {
			continue
		}
		if len(wanted) > 0 && !wanted[f.Name] {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("corrupt archive member %s: %w", f.Name, err)
		}
		b, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return nil, fmt.Errorf("corrupt archive member %s: %w", f.Name, err)
		}
		out[f.Name] = string(b)
	}
	return out, nil
}
