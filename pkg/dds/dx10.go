package dds

import (
	"encoding/binary"
	"fmt"
)

// DXGI format codes that can appear in the extended header. Only the
// block-compressed subset resolves to a Format; the uncompressed codes are
// named so diagnostics can print them.
const (
	DXGIFormatUnknown           = 0
	DXGIFormatR8G8B8A8Unorm     = 28
	DXGIFormatR8G8B8A8UnormSRGB = 29
	DXGIFormatBC1Unorm          = 71
	DXGIFormatBC1UnormSRGB      = 72
	DXGIFormatBC2Unorm          = 74
	DXGIFormatBC2UnormSRGB      = 75
	DXGIFormatBC3Unorm          = 77
	DXGIFormatBC3UnormSRGB      = 78
	DXGIFormatBC4Unorm          = 80
	DXGIFormatBC4Snorm          = 81
	DXGIFormatBC5Unorm          = 83
	DXGIFormatBC5Snorm          = 84
	DXGIFormatBC6HUF16          = 95
	DXGIFormatBC6HSF16          = 96
	DXGIFormatBC7Unorm          = 98
	DXGIFormatBC7UnormSRGB      = 99
)

// Resource dimension values (DX10Header.ResourceDimension).
const (
	DX10DimensionTexture1D = 2
	DX10DimensionTexture2D = 3
	DX10DimensionTexture3D = 4
)

// DX10MiscTextureCube marks the resource as a cubemap (DX10Header.MiscFlag).
const DX10MiscTextureCube = 0x00000004

// DX10Header is the 20-byte extended header that follows the primary
// header when the pixel format tag is "DX10".
type DX10Header struct {
	DXGIFormat        uint32 // +0x00: numeric format enumerant
	ResourceDimension uint32 // +0x04: 2 = 1D, 3 = 2D, 4 = 3D
	MiscFlag          uint32 // +0x08: texture-cube bit
	ArraySize         uint32 // +0x0C: array element count
	MiscFlags2        uint32 // +0x10: alpha mode
}

// IsTextureCube reports whether the texture-cube resource bit is set.
func (x *DX10Header) IsTextureCube() bool {
	return x.MiscFlag&DX10MiscTextureCube == DX10MiscTextureCube
}

// Validate checks the extended header fields for sane ranges.
func (x *DX10Header) Validate() error {
	if x.ArraySize > MaxArraySize {
		return &HeaderError{Field: "arraysize", Value: x.ArraySize, Reason: "outside sane range"}
	}
	return nil
}

// MarshalBinary encodes the 20-byte extended header.
func (x *DX10Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, DX10HeaderSize)
	x.EncodeTo(buf)
	return buf, nil
}

// EncodeTo writes the extended header to the given buffer.
// The buffer must be at least DX10HeaderSize bytes.
func (x *DX10Header) EncodeTo(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0x00:0x04], x.DXGIFormat)
	binary.LittleEndian.PutUint32(buf[0x04:0x08], x.ResourceDimension)
	binary.LittleEndian.PutUint32(buf[0x08:0x0C], x.MiscFlag)
	binary.LittleEndian.PutUint32(buf[0x0C:0x10], x.ArraySize)
	binary.LittleEndian.PutUint32(buf[0x10:0x14], x.MiscFlags2)
}

// UnmarshalBinary decodes and validates the extended header. The input
// must be exactly DX10HeaderSize bytes.
func (x *DX10Header) UnmarshalBinary(data []byte) error {
	if len(data) != DX10HeaderSize {
		return &HeaderError{Field: "dx10 header", Value: uint32(len(data)), Reason: "must be exactly 20 bytes"}
	}
	x.DecodeFrom(data)
	return x.Validate()
}

// DecodeFrom reads the extended header from the given buffer.
// Does not validate - use UnmarshalBinary for validation.
func (x *DX10Header) DecodeFrom(data []byte) {
	x.DXGIFormat = binary.LittleEndian.Uint32(data[0x00:0x04])
	x.ResourceDimension = binary.LittleEndian.Uint32(data[0x04:0x08])
	x.MiscFlag = binary.LittleEndian.Uint32(data[0x08:0x0C])
	x.ArraySize = binary.LittleEndian.Uint32(data[0x0C:0x10])
	x.MiscFlags2 = binary.LittleEndian.Uint32(data[0x10:0x14])
}

// String implements fmt.Stringer for diagnostics.
func (x *DX10Header) String() string {
	return fmt.Sprintf("DX10Header{Format: %s (%d), Dimension: %d, ArraySize: %d, Cube: %t}",
		DXGIFormatName(x.DXGIFormat), x.DXGIFormat, x.ResourceDimension, x.ArraySize, x.IsTextureCube())
}

// DXGIFormatName returns a human-readable name for a DXGI format code.
func DXGIFormatName(format uint32) string {
	switch format {
	case DXGIFormatR8G8B8A8Unorm:
		return "R8G8B8A8_UNORM"
	case DXGIFormatR8G8B8A8UnormSRGB:
		return "R8G8B8A8_UNORM_SRGB"
	case DXGIFormatBC1Unorm:
		return "BC1_UNORM"
	case DXGIFormatBC1UnormSRGB:
		return "BC1_UNORM_SRGB"
	case DXGIFormatBC2Unorm:
		return "BC2_UNORM"
	case DXGIFormatBC2UnormSRGB:
		return "BC2_UNORM_SRGB"
	case DXGIFormatBC3Unorm:
		return "BC3_UNORM"
	case DXGIFormatBC3UnormSRGB:
		return "BC3_UNORM_SRGB"
	case DXGIFormatBC4Unorm:
		return "BC4_UNORM"
	case DXGIFormatBC4Snorm:
		return "BC4_SNORM"
	case DXGIFormatBC5Unorm:
		return "BC5_UNORM"
	case DXGIFormatBC5Snorm:
		return "BC5_SNORM"
	case DXGIFormatBC6HUF16:
		return "BC6H_UF16"
	case DXGIFormatBC6HSF16:
		return "BC6H_SF16"
	case DXGIFormatBC7Unorm:
		return "BC7_UNORM"
	case DXGIFormatBC7UnormSRGB:
		return "BC7_UNORM_SRGB"
	default:
		return fmt.Sprintf("UNKNOWN(0x%x)", format)
	}
}
