package bundle

import (
	"fmt"
)

// Patch builds a new bundle from src, replacing textures whose symbols
// match one of the scanned files and appending files whose symbols are
// not in the bundle. Textures without a replacement keep their original
// compressed frames, so only changed textures are recompressed.
//
// Entries keep their order from src; appended textures follow in scan
// order. The returned builder has not been written anywhere yet.
func Patch(src *Bundle, files []ScannedFile, level int) (*Builder, error) {
	replacements := make(map[uint64]string, len(files))
	for _, file := range files {
		if _, exists := replacements[file.Symbol]; exists {
			return nil, fmt.Errorf("duplicate symbol %016x for %s", file.Symbol, file.Path)
		}
		replacements[file.Symbol] = file.Path
	}

	b := NewBuilder()
	b.SetCompressionLevel(level)

	for _, entry := range src.Entries() {
		if path, ok := replacements[entry.Symbol]; ok {
			if err := b.AddFile(entry.Symbol, path); err != nil {
				return nil, err
			}
			delete(replacements, entry.Symbol)
			continue
		}

		compressed, err := src.ReadCompressed(entry)
		if err != nil {
			return nil, err
		}
		if err := b.addCompressed(entry, compressed); err != nil {
			return nil, err
		}
	}

	for _, file := range files {
		if _, ok := replacements[file.Symbol]; !ok {
			continue
		}
		if err := b.AddFile(file.Symbol, file.Path); err != nil {
			return nil, err
		}
		delete(replacements, file.Symbol)
	}

	return b, nil
}
