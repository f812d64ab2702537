package texarc

import (
	"fmt"
	"io"

	"github.com/EchoTools/ddstools/pkg/dds"
)

// EncodeDocument compresses a texture document and writes it as a frame to dst.
// The frame header records the document's encoded size and block compression family.
func EncodeDocument(dst io.WriteSeeker, doc *dds.Document, opts ...WriterOption) error {
	withFormat := make([]WriterOption, 0, len(opts)+1)
	withFormat = append(withFormat, WithFormatID(uint32(doc.Format())))
	withFormat = append(withFormat, opts...)

	w, err := NewWriter(dst, uint64(doc.EncodedSize()), withFormat...)
	if err != nil {
		return err
	}

	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("write document: %w", err)
	}

	return w.Close()
}

// DecodeDocument reads a frame from src and parses the decompressed
// content as a texture document.
func DecodeDocument(src io.ReadSeeker) (*dds.Document, error) {
	reader, err := NewReader(src)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	doc, err := dds.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	return doc, nil
}
