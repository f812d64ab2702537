package ddsimage

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/woozymasta/bcn"

	"github.com/EchoTools/ddstools/pkg/dds"
)

func TestDecodeConfig(t *testing.T) {
	raw := rawTexture(t, 64, 32, 1, dds.FourCCDXT1, nil)

	config, err := DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode config: %v", err)
	}

	if config.Width != 64 || config.Height != 32 {
		t.Errorf("Expected 64x32, got %dx%d", config.Width, config.Height)
	}
	if config.ColorModel != color.NRGBAModel {
		t.Error("expected NRGBA color model")
	}
}

func TestDecodeConfigShortInput(t *testing.T) {
	if _, err := DecodeConfig(bytes.NewReader(make([]byte, 64))); err == nil {
		t.Error("expected error for short input")
	}
}

func TestRegisteredFormat(t *testing.T) {
	raw := rawTexture(t, 16, 16, 1, dds.FourCCDXT5, nil)

	t.Run("ImageDecodeConfig", func(t *testing.T) {
		config, name, err := image.DecodeConfig(bytes.NewReader(raw))
		if err != nil {
			t.Fatalf("decode config: %v", err)
		}
		if name != "dds" {
			t.Errorf("Expected format dds, got %q", name)
		}
		if config.Width != 16 || config.Height != 16 {
			t.Errorf("Expected 16x16, got %dx%d", config.Width, config.Height)
		}
	})

	t.Run("ImageDecode", func(t *testing.T) {
		img, name, err := image.Decode(bytes.NewReader(raw))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if name != "dds" {
			t.Errorf("Expected format dds, got %q", name)
		}
		bounds := img.Bounds()
		if bounds.Dx() != 16 || bounds.Dy() != 16 {
			t.Errorf("Expected 16x16 image, got %dx%d", bounds.Dx(), bounds.Dy())
		}
	})
}

func TestDecodeLevel(t *testing.T) {
	raw := rawTexture(t, 16, 16, 2, dds.FourCCDXT1, nil)
	doc, err := dds.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	tests := []struct {
		name   string
		level  int
		width  int
		height int
	}{
		{"TopLevel", 0, 16, 16},
		{"MipLevel", 1, 8, 8},
		{"LevelClampsHigh", 99, 8, 8},
		{"LevelClampsLow", -1, 16, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := DecodeLevel(doc, 0, tt.level)
			if err != nil {
				t.Fatalf("decode level: %v", err)
			}
			bounds := img.Bounds()
			if bounds.Dx() != tt.width || bounds.Dy() != tt.height {
				t.Errorf("Expected %dx%d, got %dx%d", tt.width, tt.height, bounds.Dx(), bounds.Dy())
			}
		})
	}
}

func TestDecodeLevelWorkers(t *testing.T) {
	raw := rawTexture(t, 32, 32, 1, dds.FourCCDXT5, nil)
	doc, err := dds.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	img, err := DecodeLevelWithOptions(doc, 0, 0, &Options{Workers: 2})
	if err != nil {
		t.Fatalf("decode level: %v", err)
	}
	if img.Bounds().Dx() != 32 {
		t.Errorf("Expected width 32, got %d", img.Bounds().Dx())
	}
}

func TestDecodeLevelUnsupported(t *testing.T) {
	ext := &dds.DX10Header{
		DXGIFormat:        dds.DXGIFormatBC7Unorm,
		ResourceDimension: dds.DX10DimensionTexture2D,
		ArraySize:         1,
	}
	raw := rawTexture(t, 16, 16, 1, dds.FourCCDX10, ext)
	doc, err := dds.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	_, err = DecodeLevel(doc, 0, 0)
	if err == nil {
		t.Fatal("expected error for BC7 pixel decode")
	}
	if !errors.Is(err, dds.ErrUnsupportedFormat) {
		t.Errorf("Expected unsupported format error, got %v", err)
	}
}

func TestBlockFormat(t *testing.T) {
	tests := []struct {
		format   dds.Format
		expected bcn.Format
	}{
		{dds.FormatBC1, bcn.FormatDXT1},
		{dds.FormatBC2, bcn.FormatDXT3},
		{dds.FormatBC3, bcn.FormatDXT5},
		{dds.FormatBC4, bcn.FormatBC4},
		{dds.FormatBC5, bcn.FormatBC5},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			got, err := blockFormat(tt.format)
			if err != nil {
				t.Fatalf("block format: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}

	for _, format := range []dds.Format{dds.FormatBC6H, dds.FormatBC7, dds.FormatUnknown} {
		if _, err := blockFormat(format); err == nil {
			t.Errorf("expected error for %s", format)
		}
	}
}

// rawTexture builds the raw bytes of a block-compressed texture, with an
// optional extended header.
func rawTexture(t *testing.T, width, height, mips uint32, fourCC uint32, ext *dds.DX10Header) []byte {
	t.Helper()

	var format dds.Format
	var err error
	if ext != nil {
		format, err = dds.ResolveDXGI(ext.DXGIFormat)
	} else {
		format, err = dds.ResolveFourCC(fourCC)
	}
	if err != nil {
		t.Fatalf("resolve format: %v", err)
	}

	header := &dds.Header{
		Size:   dds.HeaderSize,
		Flags:  dds.RequiredFlags,
		Height: height,
		Width:  width,
		PixelFormat: dds.PixelFormat{
			Size:   dds.PixelFormatSize,
			Flags:  dds.PFFourCC,
			FourCC: fourCC,
		},
		Caps: dds.CapsTexture,
	}
	if mips > 1 {
		header.Flags |= dds.FlagMipMapCount
		header.MipMapCount = mips
		header.Caps |= dds.CapsComplex | dds.CapsMipMap
	}

	plan := dds.PlanLayout(int(width), int(height), 1, int(mips), format.BlockSize())
	last := plan[len(plan)-1]
	payload := make([]byte, last.Offset+last.Length)
	for i := range payload {
		payload[i] = byte(i * 11)
	}

	headerBytes, err := header.MarshalBinary()
	if err != nil {
		t.Fatalf("marshal header: %v", err)
	}

	raw := make([]byte, 0, dds.MagicSize+dds.HeaderSize+len(payload))
	raw = binary.LittleEndian.AppendUint32(raw, dds.Magic)
	raw = append(raw, headerBytes...)
	if ext != nil {
		extBytes, err := ext.MarshalBinary()
		if err != nil {
			t.Fatalf("marshal extended header: %v", err)
		}
		raw = append(raw, extBytes...)
	}
	raw = append(raw, payload...)
	return raw
}
