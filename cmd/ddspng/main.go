// Package main provides a command-line tool to convert block-compressed textures to PNG.
package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"

	"github.com/EchoTools/ddstools/pkg/dds"
	"github.com/EchoTools/ddstools/pkg/ddsimage"
)

var (
	inputPath  string
	outputPath string
	surface    int
	level      int
	maxDim     uint
)

func init() {
	flag.StringVar(&inputPath, "in", "", "Input texture file")
	flag.StringVar(&outputPath, "out", "", "Output PNG file (default: input with .png extension)")
	flag.IntVar(&surface, "surface", 0, "Surface index (cubemap face or array element)")
	flag.IntVar(&level, "level", 0, "Mip level to convert")
	flag.UintVar(&maxDim, "maxdim", 0, "Downscale so neither dimension exceeds this (0 = no scaling)")
}

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if inputPath == "" {
		flag.Usage()
		return fmt.Errorf("input file is required")
	}
	if outputPath == "" {
		outputPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".png"
	}

	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	doc, err := dds.Decode(f)
	if err != nil {
		return fmt.Errorf("parse texture: %w", err)
	}

	img, err := ddsimage.DecodeLevel(doc, surface, level)
	if err != nil {
		return fmt.Errorf("decode pixels: %w", err)
	}

	if maxDim > 0 {
		img = resize.Thumbnail(maxDim, maxDim, img, resize.Lanczos3)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	if err := png.Encode(out, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}

	bounds := img.Bounds()
	fmt.Printf("Converted %s (surface %d, level %d) → %s (%dx%d)\n",
		inputPath, surface, level, outputPath, bounds.Dx(), bounds.Dy())
	return nil
}
