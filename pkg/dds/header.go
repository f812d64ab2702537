// Package dds parses DirectDraw Surface texture containers into validated
// header metadata and raw block-compressed pixel buffers.
//
// A document is laid out as a 4-byte magic word, a 124-byte primary header
// with an embedded 32-byte pixel format, an optional 20-byte extended
// header (present when the pixel format tag is "DX10"), and then every
// surface and mip level concatenated in surface-major order. Decode walks
// that layout in one pass and returns an immutable Document.
package dds

import (
	"encoding/binary"
	"fmt"
)

// Magic is the DDS magic word, ASCII "DDS " read as a little-endian uint32.
const Magic uint32 = 0x20534444

// Fixed binary sizes of the regions at the front of a document.
const (
	MagicSize       = 4
	HeaderSize      = 124
	PixelFormatSize = 32
	DX10HeaderSize  = 20
)

// Bounds on header fields. Values past these are treated as corruption
// rather than real textures, so a bogus header cannot demand absurd
// allocations.
const (
	MaxDimension = 1 << 20
	MaxMipLevels = 32
	MaxArraySize = 2048
)

// Header flag bits (Flags field).
const (
	FlagCaps        = 0x00000001
	FlagHeight      = 0x00000002
	FlagWidth       = 0x00000004
	FlagPitch       = 0x00000008
	FlagPixelFormat = 0x00001000
	FlagMipMapCount = 0x00020000
	FlagLinearSize  = 0x00080000
	FlagDepth       = 0x00800000
)

// RequiredFlags must all be set for a header to be valid.
const RequiredFlags = FlagCaps | FlagHeight | FlagWidth | FlagPixelFormat

// Capability bits (Caps field).
const (
	CapsComplex = 0x00000008
	CapsMipMap  = 0x00400000
	CapsTexture = 0x00001000
)

// Extended capability bits (Caps2 field).
const (
	Caps2CubeMap          = 0x00000200
	Caps2CubeMapPositiveX = 0x00000400
	Caps2CubeMapNegativeX = 0x00000800
	Caps2CubeMapPositiveY = 0x00001000
	Caps2CubeMapNegativeY = 0x00002000
	Caps2CubeMapPositiveZ = 0x00004000
	Caps2CubeMapNegativeZ = 0x00008000
	Caps2Volume           = 0x00200000
)

// Caps2AllFaces marks a cubemap with all six faces present.
const Caps2AllFaces = Caps2CubeMapPositiveX | Caps2CubeMapNegativeX |
	Caps2CubeMapPositiveY | Caps2CubeMapNegativeY |
	Caps2CubeMapPositiveZ | Caps2CubeMapNegativeZ

// Pixel format flag bits (PixelFormat.Flags field).
const (
	PFAlphaPixels = 0x00000001
	PFAlpha       = 0x00000002
	PFFourCC      = 0x00000004
	PFRGB         = 0x00000040
	PFYUV         = 0x00000200
	PFLuminance   = 0x00020000
)

// Header is the 124-byte primary header that follows the magic word.
// Field order and offsets match the published binary layout exactly; all
// integers are little-endian.
type Header struct {
	Size              uint32      // +0x00: structure size, 124 in well-formed files
	Flags             uint32      // +0x04: which optional fields are meaningful
	Height            uint32      // +0x08: surface height in pixels
	Width             uint32      // +0x0C: surface width in pixels
	PitchOrLinearSize uint32      // +0x10: scanline pitch or top-level linear size
	Depth             uint32      // +0x14: volume depth, unused for 2D textures
	MipMapCount       uint32      // +0x18: mip levels per surface, 0 means one
	Reserved1         [11]uint32  // +0x1C
	PixelFormat       PixelFormat // +0x48: embedded 32-byte pixel format
	Caps              uint32      // +0x68: complex/mipmap/texture capabilities
	Caps2             uint32      // +0x6C: cubemap face and volume bits
	Caps3             uint32      // +0x70
	Caps4             uint32      // +0x74
	Reserved2         uint32      // +0x78
}

// PixelFormat is the 32-byte structure embedded in Header that describes
// how pixel data is encoded.
type PixelFormat struct {
	Size        uint32 // +0x00: structure size, 32 in well-formed files
	Flags       uint32 // +0x04: which of the fields below are meaningful
	FourCC      uint32 // +0x08: four-character compression tag
	RGBBitCount uint32 // +0x0C: bits per pixel for uncompressed data
	RBitMask    uint32 // +0x10
	GBitMask    uint32 // +0x14
	BBitMask    uint32 // +0x18
	ABitMask    uint32 // +0x1C
}

// DecodeHeader parses the fixed-size front of a document: the magic word
// followed by the primary header. The input must be exactly 128 bytes.
func DecodeHeader(data []byte) (*Header, error) {
	if len(data) != MagicSize+HeaderSize {
		return nil, &HeaderError{Field: "header", Value: uint32(len(data)), Reason: "input must be exactly 128 bytes"}
	}
	if magic := binary.LittleEndian.Uint32(data[0:4]); magic != Magic {
		return nil, &HeaderError{Field: "magic", Value: magic, Reason: `not "DDS "`}
	}
	h := new(Header)
	if err := h.UnmarshalBinary(data[MagicSize:]); err != nil {
		return nil, err
	}
	return h, nil
}

// HasFlags reports whether every bit of mask is set in Flags. Matches are
// exact: a mask with several bits requires all of them.
func (h *Header) HasFlags(mask uint32) bool { return h.Flags&mask == mask }

// HasCaps reports whether every bit of mask is set in Caps.
func (h *Header) HasCaps(mask uint32) bool { return h.Caps&mask == mask }

// HasCaps2 reports whether every bit of mask is set in Caps2.
func (h *Header) HasCaps2(mask uint32) bool { return h.Caps2&mask == mask }

// IsCubeMap reports whether the legacy cubemap capability bit is set.
func (h *Header) IsCubeMap() bool { return h.HasCaps2(Caps2CubeMap) }

// IsVolume reports whether the volume capability bit is set. Volume
// textures are rejected by Decode.
func (h *Header) IsVolume() bool { return h.HasCaps2(Caps2Volume) }

// HasDX10Header reports whether a 20-byte extended header follows the
// primary header.
func (h *Header) HasDX10Header() bool {
	return h.PixelFormat.IsCompressed() && h.PixelFormat.FourCC == FourCCDX10
}

// LevelCount returns the number of mip levels stored per surface. A
// missing mipmap-count flag or a zero count both mean a single level.
func (h *Header) LevelCount() int {
	if h.HasFlags(FlagMipMapCount) {
		return max(1, int(h.MipMapCount))
	}
	return 1
}

// Validate checks the header against the invariants every well-formed
// document carries.
func (h *Header) Validate() error {
	if !h.HasFlags(RequiredFlags) {
		return &HeaderError{Field: "flags", Value: h.Flags, Reason: "caps, height, width and pixelformat flags are required"}
	}
	if !h.HasCaps(CapsTexture) {
		return &HeaderError{Field: "caps", Value: h.Caps, Reason: "texture capability is required"}
	}
	if h.Width == 0 || h.Width > MaxDimension {
		return &HeaderError{Field: "width", Value: h.Width, Reason: "outside sane range"}
	}
	if h.Height == 0 || h.Height > MaxDimension {
		return &HeaderError{Field: "height", Value: h.Height, Reason: "outside sane range"}
	}
	if h.HasFlags(FlagMipMapCount) && h.MipMapCount > MaxMipLevels {
		return &HeaderError{Field: "mipmapcount", Value: h.MipMapCount, Reason: "outside sane range"}
	}
	return h.PixelFormat.Validate()
}

// MarshalBinary encodes the 124-byte header body, without the magic word.
func (h *Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, HeaderSize)
	h.EncodeTo(buf)
	return buf, nil
}

// EncodeTo writes the header body to the given buffer.
// The buffer must be at least HeaderSize bytes.
func (h *Header) EncodeTo(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0x00:0x04], h.Size)
	binary.LittleEndian.PutUint32(buf[0x04:0x08], h.Flags)
	binary.LittleEndian.PutUint32(buf[0x08:0x0C], h.Height)
	binary.LittleEndian.PutUint32(buf[0x0C:0x10], h.Width)
	binary.LittleEndian.PutUint32(buf[0x10:0x14], h.PitchOrLinearSize)
	binary.LittleEndian.PutUint32(buf[0x14:0x18], h.Depth)
	binary.LittleEndian.PutUint32(buf[0x18:0x1C], h.MipMapCount)
	for i, v := range h.Reserved1 {
		binary.LittleEndian.PutUint32(buf[0x1C+i*4:0x20+i*4], v)
	}
	h.PixelFormat.EncodeTo(buf[0x48:0x68])
	binary.LittleEndian.PutUint32(buf[0x68:0x6C], h.Caps)
	binary.LittleEndian.PutUint32(buf[0x6C:0x70], h.Caps2)
	binary.LittleEndian.PutUint32(buf[0x70:0x74], h.Caps3)
	binary.LittleEndian.PutUint32(buf[0x74:0x78], h.Caps4)
	binary.LittleEndian.PutUint32(buf[0x78:0x7C], h.Reserved2)
}

// UnmarshalBinary decodes and validates the 124-byte header body.
func (h *Header) UnmarshalBinary(data []byte) error {
	if len(data) != HeaderSize {
		return &HeaderError{Field: "header", Value: uint32(len(data)), Reason: "body must be exactly 124 bytes"}
	}
	h.DecodeFrom(data)
	return h.Validate()
}

// DecodeFrom reads the header body from the given buffer.
// Does not validate - use UnmarshalBinary for validation.
func (h *Header) DecodeFrom(data []byte) {
	h.Size = binary.LittleEndian.Uint32(data[0x00:0x04])
	h.Flags = binary.LittleEndian.Uint32(data[0x04:0x08])
	h.Height = binary.LittleEndian.Uint32(data[0x08:0x0C])
	h.Width = binary.LittleEndian.Uint32(data[0x0C:0x10])
	h.PitchOrLinearSize = binary.LittleEndian.Uint32(data[0x10:0x14])
	h.Depth = binary.LittleEndian.Uint32(data[0x14:0x18])
	h.MipMapCount = binary.LittleEndian.Uint32(data[0x18:0x1C])
	for i := range h.Reserved1 {
		h.Reserved1[i] = binary.LittleEndian.Uint32(data[0x1C+i*4 : 0x20+i*4])
	}
	h.PixelFormat.DecodeFrom(data[0x48:0x68])
	h.Caps = binary.LittleEndian.Uint32(data[0x68:0x6C])
	h.Caps2 = binary.LittleEndian.Uint32(data[0x6C:0x70])
	h.Caps3 = binary.LittleEndian.Uint32(data[0x70:0x74])
	h.Caps4 = binary.LittleEndian.Uint32(data[0x74:0x78])
	h.Reserved2 = binary.LittleEndian.Uint32(data[0x78:0x7C])
}

// String implements fmt.Stringer for diagnostics.
func (h *Header) String() string {
	return fmt.Sprintf("Header{%dx%d, FourCC: %s, Mips: %d, Flags: 0x%08X, Caps: 0x%08X/0x%08X}",
		h.Width, h.Height, h.PixelFormat.FourCCString(), h.LevelCount(), h.Flags, h.Caps, h.Caps2)
}

// HasFlags reports whether every bit of mask is set in Flags.
func (pf *PixelFormat) HasFlags(mask uint32) bool { return pf.Flags&mask == mask }

// IsCompressed reports whether pixel data is block compressed under the
// format named by FourCC.
func (pf *PixelFormat) IsCompressed() bool { return pf.HasFlags(PFFourCC) }

// IsRGB reports whether pixel data is uncompressed RGB.
func (pf *PixelFormat) IsRGB() bool { return pf.HasFlags(PFRGB) }

// FourCCString renders the compression tag as four ASCII characters.
func (pf *PixelFormat) FourCCString() string { return FourCCString(pf.FourCC) }

// Validate checks that the pixel format describes data this package can
// classify: block compressed, uncompressed RGB, or both flags at once.
func (pf *PixelFormat) Validate() error {
	if !pf.IsCompressed() && !pf.IsRGB() {
		return &HeaderError{Field: "pixelformat flags", Value: pf.Flags, Reason: "neither compressed nor rgb"}
	}
	return nil
}

// MarshalBinary encodes the 32-byte pixel format.
func (pf *PixelFormat) MarshalBinary() ([]byte, error) {
	buf := make([]byte, PixelFormatSize)
	pf.EncodeTo(buf)
	return buf, nil
}

// EncodeTo writes the pixel format to the given buffer.
// The buffer must be at least PixelFormatSize bytes.
func (pf *PixelFormat) EncodeTo(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0x00:0x04], pf.Size)
	binary.LittleEndian.PutUint32(buf[0x04:0x08], pf.Flags)
	binary.LittleEndian.PutUint32(buf[0x08:0x0C], pf.FourCC)
	binary.LittleEndian.PutUint32(buf[0x0C:0x10], pf.RGBBitCount)
	binary.LittleEndian.PutUint32(buf[0x10:0x14], pf.RBitMask)
	binary.LittleEndian.PutUint32(buf[0x14:0x18], pf.GBitMask)
	binary.LittleEndian.PutUint32(buf[0x18:0x1C], pf.BBitMask)
	binary.LittleEndian.PutUint32(buf[0x1C:0x20], pf.ABitMask)
}

// UnmarshalBinary decodes and validates the 32-byte pixel format.
func (pf *PixelFormat) UnmarshalBinary(data []byte) error {
	if len(data) != PixelFormatSize {
		return &HeaderError{Field: "pixelformat", Value: uint32(len(data)), Reason: "must be exactly 32 bytes"}
	}
	pf.DecodeFrom(data)
	return pf.Validate()
}

// DecodeFrom reads the pixel format from the given buffer.
// Does not validate - use UnmarshalBinary for validation.
func (pf *PixelFormat) DecodeFrom(data []byte) {
	pf.Size = binary.LittleEndian.Uint32(data[0x00:0x04])
	pf.Flags = binary.LittleEndian.Uint32(data[0x04:0x08])
	pf.FourCC = binary.LittleEndian.Uint32(data[0x08:0x0C])
	pf.RGBBitCount = binary.LittleEndian.Uint32(data[0x0C:0x10])
	pf.RBitMask = binary.LittleEndian.Uint32(data[0x10:0x14])
	pf.GBitMask = binary.LittleEndian.Uint32(data[0x14:0x18])
	pf.BBitMask = binary.LittleEndian.Uint32(data[0x18:0x1C])
	pf.ABitMask = binary.LittleEndian.Uint32(data[0x1C:0x20])
}
