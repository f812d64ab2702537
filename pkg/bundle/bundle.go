// Package bundle provides types and functions for working with indexed texture bundles.
//
// A bundle is a single file holding many compressed textures: a fixed
// header, an index of fixed-size entries, then concatenated zstd frames.
// Entries are addressed by a uint64 symbol.
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

// Magic is the bundle magic word, ASCII "TXB1" read as a little-endian uint32.
const Magic uint32 = 0x31425854

// Version is the bundle layout version written by this package.
const Version uint32 = 1

const (
	// HeaderSize is the fixed binary size of a bundle header.
	HeaderSize = 16

	// EntrySize is the fixed binary size of a single index entry.
	EntrySize = 48

	// MaxEntries bounds the index size a reader will accept.
	MaxEntries = 1 << 20
)

// Entry flag bits.
const (
	EntryFlagCubeMap uint32 = 0x1
)

// Header describes the bundle index.
type Header struct {
	Magic    uint32
	Version  uint32
	Count    uint32
	Reserved uint32
}

// Validate checks the header for validity.
func (h *Header) Validate() error {
	if h.Magic != Magic {
		return fmt.Errorf("invalid magic: expected %08x, got %08x", Magic, h.Magic)
	}
	if h.Version != Version {
		return fmt.Errorf("unsupported version: expected %d, got %d", Version, h.Version)
	}
	if h.Count > MaxEntries {
		return fmt.Errorf("index too large: %d entries exceeds %d", h.Count, MaxEntries)
	}
	return nil
}

// Entry describes one texture in the bundle index.
type Entry struct {
	Symbol           uint64 // Texture identifier
	Width            uint32
	Height           uint32
	MipMapCount      uint32
	FormatID         uint32 // Block compression family
	Flags            uint32 // Entry flag bits
	Reserved         uint32
	Offset           uint64 // Byte offset from the start of the data section
	CompressedLength uint32
	Length           uint32 // Decompressed texture size
}

// IsCubeMap reports whether the entry describes a cubemap texture.
func (e Entry) IsCubeMap() bool {
	return e.Flags&EntryFlagCubeMap == EntryFlagCubeMap
}

// Bundle provides read access to an indexed texture bundle.
type Bundle struct {
	src        io.ReaderAt
	header     Header
	entries    []Entry
	dataOffset int64
	index      map[uint64]int
	closer     io.Closer
}

// Open parses the bundle index from the given source.
func Open(src io.ReaderAt) (*Bundle, error) {
	b := &Bundle{src: src}

	headerReader := io.NewSectionReader(src, 0, HeaderSize)
	if err := binary.Read(headerReader, binary.LittleEndian, &b.header); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if err := b.header.Validate(); err != nil {
		return nil, err
	}

	indexLen := int64(b.header.Count) * EntrySize
	b.entries = make([]Entry, b.header.Count)
	indexReader := io.NewSectionReader(src, HeaderSize, indexLen)
	if err := binary.Read(indexReader, binary.LittleEndian, &b.entries); err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}

	b.dataOffset = HeaderSize + indexLen
	b.index = make(map[uint64]int, len(b.entries))
	for i, entry := range b.entries {
		b.index[entry.Symbol] = i
	}

	return b, nil
}

// OpenFile opens a bundle file. The caller must Close the returned bundle.
func OpenFile(path string) (*Bundle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bundle: %w", err)
	}

	b, err := Open(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	b.closer = f

	return b, nil
}

// Close releases the underlying file, if the bundle owns one.
func (b *Bundle) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer.Close()
}

// Header returns the bundle header.
func (b *Bundle) Header() Header {
	return b.header
}

// Count returns the number of textures in the bundle.
func (b *Bundle) Count() int {
	return len(b.entries)
}

// Entries returns the bundle index in file order.
func (b *Bundle) Entries() []Entry {
	return b.entries
}

// Lookup finds the index entry for a symbol.
func (b *Bundle) Lookup(symbol uint64) (Entry, bool) {
	i, ok := b.index[symbol]
	if !ok {
		return Entry{}, false
	}
	return b.entries[i], true
}

// ReadCompressed reads the compressed frame for an entry without
// decompressing it.
func (b *Bundle) ReadCompressed(entry Entry) ([]byte, error) {
	compressed := make([]byte, entry.CompressedLength)
	section := io.NewSectionReader(b.src, b.dataOffset+int64(entry.Offset), int64(entry.CompressedLength))
	if _, err := io.ReadFull(section, compressed); err != nil {
		return nil, fmt.Errorf("read texture %016x: %w", entry.Symbol, err)
	}
	return compressed, nil
}

// ReadRaw reads and decompresses the texture bytes for an entry.
func (b *Bundle) ReadRaw(entry Entry) ([]byte, error) {
	compressed, err := b.ReadCompressed(entry)
	if err != nil {
		return nil, err
	}

	decompressed, err := zstd.Decompress(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("decompress texture %016x: %w", entry.Symbol, err)
	}
	if uint32(len(decompressed)) != entry.Length {
		return nil, fmt.Errorf("texture %016x: expected %d bytes, got %d", entry.Symbol, entry.Length, len(decompressed))
	}

	return decompressed, nil
}

// ReadDocument reads and parses the texture document for an entry.
func (b *Bundle) ReadDocument(entry Entry) (*dds.Document, error) {
	raw, err := b.ReadRaw(entry)
	if err != nil {
		return nil, err
	}

	doc, err := dds.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse texture %016x: %w", entry.Symbol, err)
	}

	return doc, nil
}
