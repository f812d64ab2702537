package bundle

import (
	"hash/fnv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ScannedFile represents a texture file found in an input directory.
type ScannedFile struct {
	Path   string
	Symbol uint64
}

// Scan walks the input directory and returns the texture files found.
// A file name (without extension) of up to 16 hex digits is taken as the
// symbol directly, matching the names written by extraction. Any other
// name is hashed with 64-bit FNV-1a over the relative path, so nested
// non-hex names stay distinct.
func Scan(inputDir string) ([]ScannedFile, error) {
	var files []ScannedFile

	err := filepath.Walk(inputDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".dds") {
			return nil
		}

		relPath, err := filepath.Rel(inputDir, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)
		stem := strings.TrimSuffix(relPath, filepath.Ext(relPath))

		files = append(files, ScannedFile{
			Path:   path,
			Symbol: symbolFor(stem),
		})
		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}

// symbolFor derives the symbol for a scanned name. The name is the
// relative path without extension.
func symbolFor(name string) uint64 {
	base := name
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		base = name[i+1:]
	}
	if u, err := strconv.ParseUint(base, 16, 64); err == nil {
		return u
	}

	h := fnv.New64a()
	h.Write([]byte(name))
	return h.Sum64()
}
