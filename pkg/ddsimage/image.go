// Package ddsimage decodes texture pixels into standard image values.
//
// Importing the package registers a "dds" decoder, so image.Decode
// handles texture streams directly:
//
//	import _ "github.com/EchoTools/ddstools/pkg/ddsimage"
package ddsimage

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/woozymasta/bcn"

	"github.com/EchoTools/ddstools/pkg/dds"
)

func init() {
	image.RegisterFormat("dds", "DDS ", Decode, DecodeConfig)
}

// Options configures pixel decoding.
type Options struct {
	// Workers is the number of goroutines used by the block decoder.
	// Zero selects the decoder default.
	Workers int
}

// DecodeConfig returns the dimensions and color model of a texture
// without reading payload data.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var raw [dds.MagicSize + dds.HeaderSize]byte
	if _, err := io.ReadFull(r, raw[:]); err != nil {
		return image.Config{}, fmt.Errorf("read header: %w", err)
	}

	header, err := dds.DecodeHeader(raw[:])
	if err != nil {
		return image.Config{}, err
	}

	return image.Config{
		Width:      int(header.Width),
		Height:     int(header.Height),
		ColorModel: color.NRGBAModel,
	}, nil
}

// Decode parses a texture stream and decodes the top mip level of its
// first surface.
func Decode(r io.Reader) (image.Image, error) {
	doc, err := dds.Decode(r)
	if err != nil {
		return nil, err
	}
	return DecodeLevel(doc, 0, 0)
}

// DecodeLevel decodes the pixels of one mip level of one surface.
func DecodeLevel(doc *dds.Document, surface, level int) (image.Image, error) {
	return DecodeLevelWithOptions(doc, surface, level, nil)
}

// DecodeLevelWithOptions decodes one mip level with decoder options.
// Out-of-range indices clamp the same way the document buffers do.
func DecodeLevelWithOptions(doc *dds.Document, surface, level int, opts *Options) (image.Image, error) {
	format, err := blockFormat(doc.Format())
	if err != nil {
		return nil, err
	}

	if level < 0 {
		level = 0
	} else if count := doc.MipMapCount(); level >= count {
		level = count - 1
	}

	decOpts := (*bcn.DecodeOptions)(nil)
	if opts != nil && opts.Workers > 0 {
		decOpts = &bcn.DecodeOptions{Workers: opts.Workers}
	}

	img, err := bcn.DecodeImageWithOptions(doc.SurfaceBuffer(surface, level),
		doc.MipWidth(level), doc.MipHeight(level), format, decOpts)
	if err != nil {
		return nil, fmt.Errorf("decode %s pixels: %w", doc.Format(), err)
	}

	return img, nil
}

// blockFormat maps a container format to the block decoder's format.
// BC6H and BC7 parse as containers but have no pixel decoder.
func blockFormat(format dds.Format) (bcn.Format, error) {
	switch format {
	case dds.FormatBC1:
		return bcn.FormatDXT1, nil
	case dds.FormatBC2:
		return bcn.FormatDXT3, nil
	case dds.FormatBC3:
		return bcn.FormatDXT5, nil
	case dds.FormatBC4:
		return bcn.FormatBC4, nil
	case dds.FormatBC5:
		return bcn.FormatBC5, nil
	}
	return bcn.FormatUnknown, &dds.FormatError{Reason: fmt.Sprintf("no pixel decoder for %s", format)}
}
