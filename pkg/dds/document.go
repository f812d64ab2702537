package dds

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Logger receives diagnostic lines during a load. The package never logs
// on its own; callers inject one through WithLogger. *log.Logger satisfies
// the interface.
type Logger interface {
	Printf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// Option configures a load.
type Option func(*loadConfig)

type loadConfig struct {
	log Logger
}

// WithLogger routes load diagnostics to l.
func WithLogger(l Logger) Option {
	return func(cfg *loadConfig) {
		if l != nil {
			cfg.log = l
		}
	}
}

// CubeFace names one face of a cubemap in stored order.
type CubeFace int

const (
	FacePositiveX CubeFace = iota
	FaceNegativeX
	FacePositiveY
	FaceNegativeY
	FacePositiveZ
	FaceNegativeZ
)

// String implements fmt.Stringer.
func (f CubeFace) String() string {
	switch f {
	case FacePositiveX:
		return "+X"
	case FaceNegativeX:
		return "-X"
	case FacePositiveY:
		return "+Y"
	case FaceNegativeY:
		return "-Y"
	case FacePositiveZ:
		return "+Z"
	case FaceNegativeZ:
		return "-Z"
	default:
		return fmt.Sprintf("FACE(%d)", int(f))
	}
}

// Document is a fully parsed texture: validated headers plus one byte
// buffer per (surface, level) pair, in surface-major order. A Document is
// immutable after Decode and safe for unsynchronized concurrent reads.
type Document struct {
	header   Header
	dx10     *DX10Header
	format   Format
	surfaces int
	levels   int
	cubemap  bool
	buffers  [][]byte
}

// Decode reads one complete texture document from r: magic word, primary
// header, optional extended header, then every surface and mip level. The
// reader is consumed exactly to the end of the payload the headers
// describe. A failed read or validation aborts the whole load; no partial
// Document is ever returned.
func Decode(r io.Reader, opts ...Option) (*Document, error) {
	cfg := loadConfig{log: nopLogger{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	var front [MagicSize + HeaderSize]byte
	if n, err := io.ReadFull(r, front[:]); err != nil {
		return nil, fmt.Errorf("read header: %w",
			&HeaderError{Field: "header", Value: uint32(n), Reason: "short read, need 128 bytes"})
	}
	header, err := DecodeHeader(front[:])
	if err != nil {
		return nil, err
	}
	if header.IsVolume() {
		return nil, &FormatError{Reason: fmt.Sprintf("volume textures are not supported (caps2 0x%08x)", header.Caps2)}
	}

	doc := &Document{header: *header}

	if header.HasDX10Header() {
		var ext [DX10HeaderSize]byte
		if n, err := io.ReadFull(r, ext[:]); err != nil {
			return nil, fmt.Errorf("read extended header: %w",
				&HeaderError{Field: "dx10 header", Value: uint32(n), Reason: "short read, need 20 bytes"})
		}
		doc.dx10 = new(DX10Header)
		if err := doc.dx10.UnmarshalBinary(ext[:]); err != nil {
			return nil, err
		}
		doc.format, err = ResolveDXGI(doc.dx10.DXGIFormat)
	} else {
		if !header.PixelFormat.IsCompressed() {
			return nil, &FormatError{Reason: "uncompressed pixel formats are not supported"}
		}
		doc.format, err = ResolveFourCC(header.PixelFormat.FourCC)
	}
	if err != nil {
		return nil, err
	}

	doc.cubemap = header.IsCubeMap() || (doc.dx10 != nil && doc.dx10.IsTextureCube())
	doc.surfaces = 1
	if doc.cubemap {
		doc.surfaces = 6
	}
	if doc.dx10 != nil && doc.dx10.ArraySize > 1 {
		doc.surfaces *= int(doc.dx10.ArraySize)
	}
	doc.levels = header.LevelCount()

	plan := PlanLayout(int(header.Width), int(header.Height), doc.surfaces, doc.levels, doc.format.BlockSize())
	var total int64
	if len(plan) > 0 {
		last := plan[len(plan)-1]
		total = last.Offset + last.Length
	}

	var payload bytes.Buffer
	if got, err := io.CopyN(&payload, r, total); err != nil {
		short := shortSlice(plan, got)
		return nil, fmt.Errorf("read payload: %w", &TruncatedError{
			Surface: short.Surface,
			Level:   short.Level,
			Offset:  short.Offset,
			Want:    total,
			Got:     got,
		})
	}
	data := payload.Bytes()

	doc.buffers = make([][]byte, len(plan))
	for i, s := range plan {
		doc.buffers[i] = data[s.Offset : s.Offset+s.Length : s.Offset+s.Length]
	}

	cfg.log.Printf("decoded %dx%d %s texture: %d surfaces, %d mip levels, %d payload bytes",
		header.Width, header.Height, doc.format, doc.surfaces, doc.levels, total)
	return doc, nil
}

// shortSlice finds the plan entry a short payload read landed in.
func shortSlice(plan []SurfaceSlice, got int64) SurfaceSlice {
	for _, s := range plan {
		if got < s.Offset+s.Length {
			return s
		}
	}
	if len(plan) > 0 {
		return plan[len(plan)-1]
	}
	return SurfaceSlice{}
}

// Header returns a copy of the primary header.
func (d *Document) Header() Header { return d.header }

// DX10 returns a copy of the extended header when one is present.
func (d *Document) DX10() (DX10Header, bool) {
	if d.dx10 == nil {
		return DX10Header{}, false
	}
	return *d.dx10, true
}

// Format returns the resolved compression family. Its numeric value is the
// output format identifier for downstream consumers.
func (d *Document) Format() Format { return d.format }

// Width returns the full-resolution width in pixels.
func (d *Document) Width() int { return int(d.header.Width) }

// Height returns the full-resolution height in pixels.
func (d *Document) Height() int { return int(d.header.Height) }

// MipWidth returns the width of a mip level, never below one pixel.
func (d *Document) MipWidth(level int) int { return MipExtent(int(d.header.Width), level) }

// MipHeight returns the height of a mip level, never below one pixel.
func (d *Document) MipHeight(level int) int { return MipExtent(int(d.header.Height), level) }

// MipMapCount returns the number of stored mip levels per surface.
func (d *Document) MipMapCount() int { return d.levels }

// SurfaceCount returns the number of stored surfaces: six per cubemap,
// multiplied by the extended-header array size when present.
func (d *Document) SurfaceCount() int { return d.surfaces }

// IsCubeMap reports whether the document stores six faces per array
// element.
func (d *Document) IsCubeMap() bool { return d.cubemap }

// Buffer returns the full-resolution image of the first surface.
func (d *Document) Buffer() []byte { return d.SurfaceBuffer(0, 0) }

// MipBuffer returns one mip level of the first surface. Out-of-range
// levels clamp to the nearest stored level, so callers may probe past the
// end of the chain.
func (d *Document) MipBuffer(level int) []byte { return d.SurfaceBuffer(0, level) }

// SurfaceBuffer returns one mip level of one surface. Out-of-range
// arguments clamp to the nearest stored index rather than failing.
func (d *Document) SurfaceBuffer(surface, level int) []byte {
	surface = clampIndex(surface, d.surfaces)
	level = clampIndex(level, d.levels)
	return d.buffers[surface*d.levels+level]
}

// FaceBuffer returns one mip level of one cubemap face. Faces map to
// surfaces in stored order; on non-cubemap documents every face clamps to
// the first surface.
func (d *Document) FaceBuffer(face CubeFace, level int) []byte {
	return d.SurfaceBuffer(int(face), level)
}

func clampIndex(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}

// PayloadSize returns the total byte length of all stored buffers.
func (d *Document) PayloadSize() int64 {
	var total int64
	for _, buf := range d.buffers {
		total += int64(len(buf))
	}
	return total
}

// EncodedSize returns the byte count WriteTo will produce.
func (d *Document) EncodedSize() int64 {
	size := int64(MagicSize + HeaderSize)
	if d.dx10 != nil {
		size += DX10HeaderSize
	}
	return size + d.PayloadSize()
}

// WriteTo re-encodes the document: magic word, headers, then every buffer
// in stored order. The output is byte-identical to the bytes Decode
// consumed.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	front := make([]byte, MagicSize+HeaderSize)
	binary.LittleEndian.PutUint32(front[0:4], Magic)
	d.header.EncodeTo(front[MagicSize:])

	var written int64
	n, err := w.Write(front)
	written += int64(n)
	if err != nil {
		return written, fmt.Errorf("write header: %w", err)
	}
	if d.dx10 != nil {
		ext := make([]byte, DX10HeaderSize)
		d.dx10.EncodeTo(ext)
		n, err = w.Write(ext)
		written += int64(n)
		if err != nil {
			return written, fmt.Errorf("write extended header: %w", err)
		}
	}
	for _, buf := range d.buffers {
		n, err = w.Write(buf)
		written += int64(n)
		if err != nil {
			return written, fmt.Errorf("write payload: %w", err)
		}
	}
	return written, nil
}
