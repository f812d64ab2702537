// Package texarc provides types and functions for working with ZSTD compressed texture frames.
package texarc

import (
	"encoding/binary"
	"fmt"
)

// Magic bytes identifying a texture frame header.
var Magic = [4]byte{0x5a, 0x54, 0x45, 0x58} // "ZTEX"

// HeaderSize is the fixed binary size of a frame header.
const HeaderSize = 32 // 4 + 4 + 8 + 8 + 4 + 4 bytes

// Header represents the header of a compressed texture frame.
type Header struct {
	Magic            [4]byte
	HeaderLength     uint32
	Length           uint64 // Uncompressed size
	CompressedLength uint64 // Compressed size
	FormatID         uint32 // Block compression family, 0 when unknown
	Reserved         uint32
}

// Size returns the binary size of the header.
func (h *Header) Size() int {
	return HeaderSize
}

// Validate checks the header for validity.
func (h *Header) Validate() error {
	if h.Magic != Magic {
		return fmt.Errorf("invalid magic: expected %x, got %x", Magic, h.Magic)
	}
	if h.HeaderLength != 24 {
		return fmt.Errorf("invalid header length: expected 24, got %d", h.HeaderLength)
	}
	if h.Length == 0 {
		return fmt.Errorf("uncompressed size is zero")
	}
	if h.CompressedLength == 0 {
		return fmt.Errorf("compressed size is zero")
	}
	return nil
}

// MarshalBinary encodes the header to binary format.
// Uses direct encoding to avoid allocations.
func (h *Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, HeaderSize)
	h.EncodeTo(buf)
	return buf, nil
}

// EncodeTo writes the header to the given buffer.
// The buffer must be at least HeaderSize bytes.
func (h *Header) EncodeTo(buf []byte) {
	copy(buf[0:4], h.Magic[:])
	binary.LittleEndian.PutUint32(buf[4:8], h.HeaderLength)
	binary.LittleEndian.PutUint64(buf[8:16], h.Length)
	binary.LittleEndian.PutUint64(buf[16:24], h.CompressedLength)
	binary.LittleEndian.PutUint32(buf[24:28], h.FormatID)
	binary.LittleEndian.PutUint32(buf[28:32], h.Reserved)
}

// UnmarshalBinary decodes the header from binary format.
// Uses direct decoding to avoid allocations.
func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("header data too short: need %d, got %d", HeaderSize, len(data))
	}
	h.DecodeFrom(data)
	return h.Validate()
}

// DecodeFrom reads the header from the given buffer.
// Does not validate - use UnmarshalBinary for validation.
func (h *Header) DecodeFrom(data []byte) {
	copy(h.Magic[:], data[0:4])
	h.HeaderLength = binary.LittleEndian.Uint32(data[4:8])
	h.Length = binary.LittleEndian.Uint64(data[8:16])
	h.CompressedLength = binary.LittleEndian.Uint64(data[16:24])
	h.FormatID = binary.LittleEndian.Uint32(data[24:28])
	h.Reserved = binary.LittleEndian.Uint32(data[28:32])
}

// NewHeader creates a new frame header with the given sizes and format.
func NewHeader(uncompressedSize, compressedSize uint64, formatID uint32) *Header {
	return &Header{
		Magic:            Magic,
		HeaderLength:     24,
		Length:           uncompressedSize,
		CompressedLength: compressedSize,
		FormatID:         formatID,
	}
}
