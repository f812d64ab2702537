package bundle

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/DataDog/zstd"

	"github.com/EchoTools/ddstools/pkg/dds"
)

// DefaultCompressionLevel is the compression level used for building bundles.
const DefaultCompressionLevel = zstd.BestSpeed

// Builder constructs texture bundles from raw texture files.
type Builder struct {
	entries          []Entry
	blobs            [][]byte
	symbols          map[uint64]struct{}
	dataSize         uint64
	compressionLevel int
}

// NewBuilder creates a new bundle builder.
func NewBuilder() *Builder {
	return &Builder{
		symbols:          make(map[uint64]struct{}),
		compressionLevel: DefaultCompressionLevel,
	}
}

// SetCompressionLevel sets the compression level for the builder.
func (b *Builder) SetCompressionLevel(level int) {
	b.compressionLevel = level
}

// Len returns the number of textures added so far.
func (b *Builder) Len() int {
	return len(b.entries)
}

// Add parses raw as a texture document, compresses it, and appends an
// index entry carrying the parsed metadata. Textures that fail to parse
// are rejected, so every entry in a built bundle is loadable.
func (b *Builder) Add(symbol uint64, raw []byte) error {
	if _, exists := b.symbols[symbol]; exists {
		return fmt.Errorf("duplicate symbol %016x", symbol)
	}

	doc, err := dds.Decode(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("parse texture %016x: %w", symbol, err)
	}

	compressed, err := zstd.CompressLevel(nil, raw, b.compressionLevel)
	if err != nil {
		return fmt.Errorf("compress texture %016x: %w", symbol, err)
	}

	var flags uint32
	if doc.IsCubeMap() {
		flags |= EntryFlagCubeMap
	}

	b.entries = append(b.entries, Entry{
		Symbol:           symbol,
		Width:            uint32(doc.Width()),
		Height:           uint32(doc.Height()),
		MipMapCount:      uint32(doc.MipMapCount()),
		FormatID:         uint32(doc.Format()),
		Flags:            flags,
		Offset:           b.dataSize,
		CompressedLength: uint32(len(compressed)),
		Length:           uint32(len(raw)),
	})
	b.blobs = append(b.blobs, compressed)
	b.symbols[symbol] = struct{}{}
	b.dataSize += uint64(len(compressed))

	return nil
}

// addCompressed appends an already-compressed frame, keeping the entry
// metadata and skipping the parse and compress steps.
func (b *Builder) addCompressed(entry Entry, compressed []byte) error {
	if _, exists := b.symbols[entry.Symbol]; exists {
		return fmt.Errorf("duplicate symbol %016x", entry.Symbol)
	}

	entry.Offset = b.dataSize
	entry.CompressedLength = uint32(len(compressed))

	b.entries = append(b.entries, entry)
	b.blobs = append(b.blobs, compressed)
	b.symbols[entry.Symbol] = struct{}{}
	b.dataSize += uint64(len(compressed))

	return nil
}

// AddFile reads a texture file and adds it under the given symbol.
func (b *Builder) AddFile(symbol uint64, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := b.Add(symbol, raw); err != nil {
		return fmt.Errorf("add %s: %w", path, err)
	}
	return nil
}

// WriteTo writes the bundle to w and returns the number of bytes written.
func (b *Builder) WriteTo(w io.Writer) (int64, error) {
	index := bytes.NewBuffer(make([]byte, 0, HeaderSize+len(b.entries)*EntrySize))

	header := Header{
		Magic:   Magic,
		Version: Version,
		Count:   uint32(len(b.entries)),
	}
	if err := binary.Write(index, binary.LittleEndian, header); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}
	if err := binary.Write(index, binary.LittleEndian, b.entries); err != nil {
		return 0, fmt.Errorf("write index: %w", err)
	}

	var written int64
	n, err := w.Write(index.Bytes())
	written += int64(n)
	if err != nil {
		return written, fmt.Errorf("write index: %w", err)
	}

	for i, blob := range b.blobs {
		n, err := w.Write(blob)
		written += int64(n)
		if err != nil {
			return written, fmt.Errorf("write texture %016x: %w", b.entries[i].Symbol, err)
		}
	}

	return written, nil
}

// WriteFile writes the bundle to a file.
func (b *Builder) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := b.WriteTo(f); err != nil {
		return fmt.Errorf("write bundle: %w", err)
	}

	return nil
}
