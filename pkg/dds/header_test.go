package dds

import (
	"encoding/binary"
	"errors"
	"testing"
)

// rawHeaderBytes builds a 128-byte document front by hand at explicit file
// offsets, independent of EncodeTo, so the wire layout itself is pinned.
func rawHeaderBytes() []byte {
	data := make([]byte, MagicSize+HeaderSize)
	binary.LittleEndian.PutUint32(data[0:], Magic)
	binary.LittleEndian.PutUint32(data[4:], HeaderSize)                    // dwSize
	binary.LittleEndian.PutUint32(data[8:], RequiredFlags|FlagMipMapCount) // dwFlags
	binary.LittleEndian.PutUint32(data[12:], 512)                          // dwHeight
	binary.LittleEndian.PutUint32(data[16:], 1024)                         // dwWidth
	binary.LittleEndian.PutUint32(data[20:], 524288)                       // dwPitchOrLinearSize
	binary.LittleEndian.PutUint32(data[28:], 11)                           // dwMipMapCount
	binary.LittleEndian.PutUint32(data[76:], PixelFormatSize)              // ddspf.dwSize
	binary.LittleEndian.PutUint32(data[80:], PFFourCC)                     // ddspf.dwFlags
	binary.LittleEndian.PutUint32(data[84:], FourCCDXT5)                   // ddspf.dwFourCC
	binary.LittleEndian.PutUint32(data[108:], CapsTexture|CapsComplex|CapsMipMap)
	return data
}

func TestDecodeHeader(t *testing.T) {
	header, err := DecodeHeader(rawHeaderBytes())
	if err != nil {
		t.Fatalf("Failed to decode header: %v", err)
	}

	if header.Width != 1024 {
		t.Errorf("Expected width 1024, got %d", header.Width)
	}
	if header.Height != 512 {
		t.Errorf("Expected height 512, got %d", header.Height)
	}
	if header.MipMapCount != 11 {
		t.Errorf("Expected 11 mip levels, got %d", header.MipMapCount)
	}
	if header.LevelCount() != 11 {
		t.Errorf("Expected level count 11, got %d", header.LevelCount())
	}
	if header.PixelFormat.FourCC != FourCCDXT5 {
		t.Errorf("Expected fourCC DXT5, got %s", header.PixelFormat.FourCCString())
	}
	if !header.PixelFormat.IsCompressed() {
		t.Error("Expected compressed pixel format")
	}
	if header.HasDX10Header() {
		t.Error("Expected no extended header")
	}
	if header.IsCubeMap() {
		t.Error("Expected non-cubemap header")
	}
}

func TestDecodeHeaderMagic(t *testing.T) {
	t.Run("ExactMagicBytes", func(t *testing.T) {
		data := rawHeaderBytes()
		want := [4]byte{0x44, 0x44, 0x53, 0x20}
		if got := [4]byte(data[0:4]); got != want {
			t.Fatalf("Expected magic bytes %v, got %v", want, got)
		}
		if _, err := DecodeHeader(data); err != nil {
			t.Errorf("Expected valid magic to decode, got %v", err)
		}
	})

	badPrefixes := [][4]byte{
		{0x44, 0x44, 0x53, 0x00}, // "DDS\0"
		{0x20, 0x53, 0x44, 0x44}, // byte-swapped
		{0x00, 0x00, 0x00, 0x00},
		{0x44, 0x58, 0x31, 0x30}, // "DX10"
	}
	for _, prefix := range badPrefixes {
		data := rawHeaderBytes()
		copy(data[0:4], prefix[:])
		_, err := DecodeHeader(data)
		if !errors.Is(err, ErrMalformedHeader) {
			t.Errorf("Prefix %v: expected ErrMalformedHeader, got %v", prefix, err)
			continue
		}
		var headerErr *HeaderError
		if !errors.As(err, &headerErr) || headerErr.Field != "magic" {
			t.Errorf("Prefix %v: expected magic field error, got %v", prefix, err)
		}
	}
}

func TestDecodeHeaderLength(t *testing.T) {
	data := rawHeaderBytes()
	for _, length := range []int{0, 4, 127, 129} {
		buf := make([]byte, length)
		copy(buf, data)
		_, err := DecodeHeader(buf)
		if !errors.Is(err, ErrMalformedHeader) {
			t.Errorf("Length %d: expected ErrMalformedHeader, got %v", length, err)
		}
	}
}

func TestHeaderValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Header)
		field  string
	}{
		{
			"MissingWidthFlag",
			func(h *Header) { h.Flags &^= FlagWidth },
			"flags",
		},
		{
			"MissingPixelFormatFlag",
			func(h *Header) { h.Flags &^= FlagPixelFormat },
			"flags",
		},
		{
			"MissingTextureCap",
			func(h *Header) { h.Caps &^= CapsTexture },
			"caps",
		},
		{
			"ZeroWidth",
			func(h *Header) { h.Width = 0 },
			"width",
		},
		{
			"ZeroHeight",
			func(h *Header) { h.Height = 0 },
			"height",
		},
		{
			"AbsurdMipCount",
			func(h *Header) { h.MipMapCount = 4096 },
			"mipmapcount",
		},
		{
			"NeitherCompressedNorRGB",
			func(h *Header) { h.PixelFormat.Flags = PFLuminance },
			"pixelformat flags",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header, err := DecodeHeader(rawHeaderBytes())
			if err != nil {
				t.Fatalf("Failed to decode fixture: %v", err)
			}
			tt.mutate(header)
			err = header.Validate()
			if !errors.Is(err, ErrMalformedHeader) {
				t.Fatalf("Expected ErrMalformedHeader, got %v", err)
			}
			var headerErr *HeaderError
			if !errors.As(err, &headerErr) {
				t.Fatalf("Expected *HeaderError, got %T", err)
			}
			if headerErr.Field != tt.field {
				t.Errorf("Expected offending field %q, got %q", tt.field, headerErr.Field)
			}
		})
	}
}

func TestHeaderCapabilityBits(t *testing.T) {
	// Matches are exact: a multi-bit mask requires every bit, and single
	// face bits do not imply the cubemap bit.
	header := Header{
		Flags: FlagCaps | FlagHeight,
		Caps:  CapsTexture,
		Caps2: Caps2CubeMapPositiveX,
	}

	if !header.HasFlags(FlagCaps | FlagHeight) {
		t.Error("Expected full mask to match")
	}
	if header.HasFlags(FlagCaps | FlagWidth) {
		t.Error("Expected partial mask not to match")
	}
	if header.IsCubeMap() {
		t.Error("Expected face bit alone not to mark a cubemap")
	}
	if header.IsVolume() {
		t.Error("Expected no volume bit")
	}

	header.Caps2 = Caps2CubeMap | Caps2AllFaces
	if !header.IsCubeMap() {
		t.Error("Expected cubemap bit to mark a cubemap")
	}
	if !header.HasCaps2(Caps2CubeMap | Caps2CubeMapNegativeZ) {
		t.Error("Expected combined caps2 mask to match")
	}
}

func TestHeaderRoundTrip(t *testing.T) {
	original, err := DecodeHeader(rawHeaderBytes())
	if err != nil {
		t.Fatalf("Failed to decode fixture: %v", err)
	}
	original.Caps2 = Caps2CubeMap | Caps2AllFaces
	original.Reserved1[3] = 0xdeadbeef

	data, err := original.MarshalBinary()
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	if len(data) != HeaderSize {
		t.Fatalf("Expected %d bytes, got %d", HeaderSize, len(data))
	}

	decoded := new(Header)
	if err := decoded.UnmarshalBinary(data); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if *decoded != *original {
		t.Errorf("Round trip mismatch: %+v != %+v", decoded, original)
	}
}

func TestPixelFormatRoundTrip(t *testing.T) {
	original := PixelFormat{
		Size:        PixelFormatSize,
		Flags:       PFFourCC | PFAlphaPixels,
		FourCC:      FourCCATI2,
		RGBBitCount: 0,
	}

	data, err := original.MarshalBinary()
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	decoded := PixelFormat{}
	if err := decoded.UnmarshalBinary(data); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if decoded != original {
		t.Errorf("Round trip mismatch: %+v != %+v", decoded, original)
	}
}

func TestDX10HeaderRoundTrip(t *testing.T) {
	original := DX10Header{
		DXGIFormat:        DXGIFormatBC7Unorm,
		ResourceDimension: DX10DimensionTexture2D,
		MiscFlag:          DX10MiscTextureCube,
		ArraySize:         4,
	}

	data, err := original.MarshalBinary()
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	if len(data) != DX10HeaderSize {
		t.Fatalf("Expected %d bytes, got %d", DX10HeaderSize, len(data))
	}

	decoded := DX10Header{}
	if err := decoded.UnmarshalBinary(data); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if decoded != original {
		t.Errorf("Round trip mismatch: %+v != %+v", decoded, original)
	}
	if !decoded.IsTextureCube() {
		t.Error("Expected texture-cube bit to survive the round trip")
	}
}

func TestDX10HeaderLength(t *testing.T) {
	x := DX10Header{}
	for _, length := range []int{0, 19, 21} {
		err := x.UnmarshalBinary(make([]byte, length))
		if !errors.Is(err, ErrMalformedHeader) {
			t.Errorf("Length %d: expected ErrMalformedHeader, got %v", length, err)
		}
	}
}

func TestDXGIFormatName(t *testing.T) {
	tests := []struct {
		format   uint32
		expected string
	}{
		{DXGIFormatBC1Unorm, "BC1_UNORM"},
		{DXGIFormatBC7UnormSRGB, "BC7_UNORM_SRGB"},
		{DXGIFormatR8G8B8A8Unorm, "R8G8B8A8_UNORM"},
		{1234, "UNKNOWN(0x4d2)"},
	}

	for _, tt := range tests {
		if got := DXGIFormatName(tt.format); got != tt.expected {
			t.Errorf("Expected %q, got %q", tt.expected, got)
		}
	}
}
