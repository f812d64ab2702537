package dds

import "fmt"

// Format identifies a block compression family. Its numeric value is the
// stable output format identifier carried by containers and handed to
// graphics backends.
type Format uint32

const (
	FormatUnknown Format = iota
	FormatBC1
	FormatBC2
	FormatBC3
	FormatBC4
	FormatBC5
	FormatBC6H
	FormatBC7
)

// BlockSize returns the byte size of one 4x4 texel block: 8 for BC1 and
// BC4, 16 for the rest, 0 for unknown formats.
func (f Format) BlockSize() int {
	switch f {
	case FormatBC1, FormatBC4:
		return 8
	case FormatBC2, FormatBC3, FormatBC5, FormatBC6H, FormatBC7:
		return 16
	default:
		return 0
	}
}

// String implements fmt.Stringer.
func (f Format) String() string {
	switch f {
	case FormatBC1:
		return "BC1"
	case FormatBC2:
		return "BC2"
	case FormatBC3:
		return "BC3"
	case FormatBC4:
		return "BC4"
	case FormatBC5:
		return "BC5"
	case FormatBC6H:
		return "BC6H"
	case FormatBC7:
		return "BC7"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint32(f))
	}
}

// Four-character tags recognized by ResolveFourCC.
const (
	FourCCDXT1 uint32 = 0x31545844 // "DXT1"
	FourCCDXT3 uint32 = 0x33545844 // "DXT3"
	FourCCDXT5 uint32 = 0x35545844 // "DXT5"
	FourCCATI1 uint32 = 0x31495441 // "ATI1"
	FourCCATI2 uint32 = 0x32495441 // "ATI2"
	FourCCDX10 uint32 = 0x30315844 // "DX10"
)

// MakeFourCC packs four ASCII characters into a little-endian tag.
func MakeFourCC(a, b, c, d byte) uint32 {
	return uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24
}

// FourCCString renders a tag as its four ASCII characters. Bytes outside
// the printable range come out as dots.
func FourCCString(fourCC uint32) string {
	b := [4]byte{byte(fourCC), byte(fourCC >> 8), byte(fourCC >> 16), byte(fourCC >> 24)}
	for i, c := range b {
		if c < 0x20 || c > 0x7e {
			b[i] = '.'
		}
	}
	return string(b[:])
}

// ResolveFourCC maps a legacy four-character tag to its compression
// family. "DX10" is not itself a compression format; documents carrying it
// resolve through ResolveDXGI with the extended header's format code.
func ResolveFourCC(fourCC uint32) (Format, error) {
	switch fourCC {
	case FourCCDXT1:
		return FormatBC1, nil
	case FourCCDXT3:
		return FormatBC2, nil
	case FourCCDXT5:
		return FormatBC3, nil
	case FourCCATI1:
		return FormatBC4, nil
	case FourCCATI2:
		return FormatBC5, nil
	default:
		return FormatUnknown, &FormatError{FourCC: FourCCString(fourCC), Reason: "no block compression mapping"}
	}
}

// ResolveDXGI maps an extended-header format code to its compression
// family.
func ResolveDXGI(format uint32) (Format, error) {
	switch format {
	case DXGIFormatBC1Unorm:
		return FormatBC1, nil
	case DXGIFormatBC2Unorm:
		return FormatBC2, nil
	case DXGIFormatBC3Unorm:
		return FormatBC3, nil
	case DXGIFormatBC4Unorm, DXGIFormatBC4Snorm:
		return FormatBC4, nil
	case DXGIFormatBC5Unorm, DXGIFormatBC5Snorm:
		return FormatBC5, nil
	case DXGIFormatBC6HUF16, DXGIFormatBC6HSF16:
		return FormatBC6H, nil
	case DXGIFormatBC7Unorm, DXGIFormatBC7UnormSRGB:
		return FormatBC7, nil
	default:
		return FormatUnknown, &FormatError{
			DXGIFormat: format,
			Reason:     fmt.Sprintf("no block compression mapping for dxgi format %s", DXGIFormatName(format)),
		}
	}
}
