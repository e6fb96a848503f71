// SPDX-License-Identifier: MPL-2.0

package transfer

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"
)

// maxEntrySize bounds a single decoded archive member (32MB). Component
// renderings are small; anything bigger indicates a corrupt or hostile
// archive.
const maxEntrySize = 32 << 20

// Zip serializes entries into zip bytes. The options' RootName becomes
// the archive comment.
func Zip(entries []Entry, opts EncodeOptions) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	if opts.RootName != "" {
		if err := w.SetComment(opts.RootName); err != nil {
			return nil, fmt.Errorf("failed to set archive comment: %w", err)
		}
	}

	for _, e := range entries {
		name := e.Path
		if e.IsDir {
			name += "/"
		}
		fw, err := w.Create(name)
		if err != nil {
			return nil, fmt.Errorf("failed to add %s to archive: %w", e.Path, err)
		}
		if !e.IsDir && len(e.Content) > 0 {
			if _, err := fw.Write(e.Content); err != nil {
				return nil, fmt.Errorf("failed to write %s: %w", e.Path, err)
			}
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}

// Unzip decodes archive bytes into ordered entries. It is a pure
// transform: nothing is written anywhere. Paths are normalized to
// forward-slash relative form; absolute or escaping paths are rejected
// with the offending path in the error.
func Unzip(raw []byte) ([]Entry, error) {
	r, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	entries := make([]Entry, 0, len(r.File))
	for _, f := range r.File {
		isDir := strings.HasSuffix(f.Name, "/") || f.FileInfo().IsDir()
		clean, err := cleanArchivePath(f.Name)
		if err != nil {
			return nil, err
		}

		entry := Entry{Path: clean, IsDir: isDir}
		if !isDir {
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("failed to open archive member %s: %w", clean, err)
			}
			content, err := io.ReadAll(io.LimitReader(rc, maxEntrySize+1))
			rc.Close()
			if err != nil {
				return nil, fmt.Errorf("failed to read archive member %s: %w", clean, err)
			}
			if len(content) > maxEntrySize {
				return nil, fmt.Errorf("archive member %s exceeds the %d byte limit", clean, maxEntrySize)
			}
			entry.Content = content
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// cleanArchivePath validates and normalizes one member path. Archives
// come from the network, so traversal attempts must not survive decode.
func cleanArchivePath(name string) (string, error) {
	trimmed := strings.TrimSuffix(name, "/")
	if trimmed == "" {
		return "", fmt.Errorf("archive member has an empty path")
	}
	if strings.HasPrefix(trimmed, "/") || strings.Contains(trimmed, "\\") {
		return "", fmt.Errorf("archive member %s has an invalid path", name)
	}
	clean := path.Clean(trimmed)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("archive member %s escapes the archive root", name)
	}
	return clean, nil
}
