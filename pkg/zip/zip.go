package zip

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"time"
)

// Entry is one file in an archive.
type Entry struct {
	Filename string
	Data     []byte
	Modified time.Time
}

// Write streams entries into w as a zip archive. Duplicate names are
// rejected.
func Write(w io.Writer, entries []Entry) error {
	zw := zip.NewWriter(w)
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if entry.Filename == "" {
			return fmt.Errorf("zip: empty filename")
		}
		if _, dup := seen[entry.Filename]; dup {
			return fmt.Errorf("zip: duplicate entry %q", entry.Filename)
		}
		seen[entry.Filename] = struct{}{}

		hdr := &zip.FileHeader{Name: entry.Filename, Method: zip.Deflate}
		if !entry.Modified.IsZero() {
			hdr.Modified = entry.Modified
		}
		fw, err := zw.CreateHeader(hdr)
		if err != nil {
			return fmt.Errorf("zip: create %s: %w", entry.Filename, err)
		}
		if _, err := fw.Write(entry.Data); err != nil {
			return fmt.Errorf("zip: write %s: %w", entry.Filename, err)
		}
	}
	return zw.Close()
}

// Archive builds the whole archive in memory.
func Archive(entries []Entry) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := Write(buf, entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
