// Package main provides a command-line tool to inspect texture container files.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/EchoTools/ddstools/pkg/dds"
)

var (
	summaryOnly  bool
	showMips     bool
	cubemapsOnly bool
	jsonOutput   bool
	verbose      bool
)

func init() {
	flag.BoolVar(&summaryOnly, "summary", false, "Only show summary statistics, not individual textures")
	flag.BoolVar(&showMips, "mips", false, "Show the per-level size table for each texture")
	flag.BoolVar(&cubemapsOnly, "cubemaps", false, "Only show cubemap textures")
	flag.BoolVar(&jsonOutput, "json", false, "Output texture info as a JSON array")
	flag.BoolVar(&verbose, "v", false, "Log decode details to stderr")
}

type textureInfo struct {
	Path        string `json:"path"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Format      string `json:"format"`
	FourCC      string `json:"fourCC,omitempty"`
	DXGIFormat  string `json:"dxgiFormat,omitempty"`
	ArraySize   uint32 `json:"arraySize,omitempty"`
	MipMapCount int    `json:"mipMapCount"`
	Surfaces    int    `json:"surfaces"`
	CubeMap     bool   `json:"cubeMap"`
	PayloadSize int64  `json:"payloadSize"`
}

func main() {
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Println("Usage: ddsinfo [options] <file-or-dir>...")
		fmt.Println("\nOptions:")
		flag.PrintDefaults()
		fmt.Println("\nDescription:")
		fmt.Println("  Parses DDS texture containers and displays their header contents.")
		fmt.Println("  Directory arguments are walked recursively for .dds files.")
		fmt.Println("\nExamples:")
		fmt.Println("  ddsinfo texture.dds")
		fmt.Println("  ddsinfo --mips --cubemaps ./extracted")
		fmt.Println("  ddsinfo --json ./extracted > textures.json")
		os.Exit(1)
	}

	paths, err := collectPaths(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var opts []dds.Option
	if verbose {
		opts = append(opts, dds.WithLogger(log.New(os.Stderr, "ddsinfo: ", 0)))
	}

	var (
		infos        []textureInfo
		formatCounts = make(map[string]int)
		cubemaps     int
		failures     int
		totalPayload int64
	)

	for _, path := range paths {
		doc, err := loadTexture(path, opts)
		if err != nil {
			failures++
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", path, err)
			continue
		}

		if cubemapsOnly && !doc.IsCubeMap() {
			continue
		}

		formatCounts[doc.Format().String()]++
		if doc.IsCubeMap() {
			cubemaps++
		}
		totalPayload += doc.PayloadSize()

		if jsonOutput {
			infos = append(infos, describeTexture(path, doc))
			continue
		}
		if !summaryOnly {
			displayTexture(path, doc)
		}
	}

	if jsonOutput {
		out, err := json.MarshalIndent(infos, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(out))
		return
	}

	fmt.Printf("\n=== Summary ===\n")
	fmt.Printf("Textures parsed:  %d\n", countTextures(formatCounts))
	fmt.Printf("Cubemaps:         %d\n", cubemaps)
	fmt.Printf("Failures:         %d\n", failures)
	fmt.Printf("Payload total:    %d bytes\n", totalPayload)
	for _, format := range sortedKeys(formatCounts) {
		fmt.Printf("  %-8s %d\n", format, formatCounts[format])
	}

	if failures > 0 {
		os.Exit(1)
	}
}

// collectPaths expands directory arguments into the .dds files they contain.
func collectPaths(args []string) ([]string, error) {
	var paths []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		err = filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && strings.EqualFold(filepath.Ext(path), ".dds") {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return paths, nil
}

func loadTexture(path string, opts []dds.Option) (*dds.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return dds.Decode(f, opts...)
}

func describeTexture(path string, doc *dds.Document) textureInfo {
	info := textureInfo{
		Path:        path,
		Width:       doc.Width(),
		Height:      doc.Height(),
		Format:      doc.Format().String(),
		MipMapCount: doc.MipMapCount(),
		Surfaces:    doc.SurfaceCount(),
		CubeMap:     doc.IsCubeMap(),
		PayloadSize: doc.PayloadSize(),
	}

	header := doc.Header()
	if ext, ok := doc.DX10(); ok {
		info.DXGIFormat = dds.DXGIFormatName(ext.DXGIFormat)
		info.ArraySize = ext.ArraySize
	} else {
		info.FourCC = header.PixelFormat.FourCCString()
	}

	return info
}

func displayTexture(path string, doc *dds.Document) {
	fmt.Printf("\n=== Texture ===\n")
	fmt.Printf("File:        %s\n", path)
	fmt.Printf("Dimensions:  %dx%d\n", doc.Width(), doc.Height())
	fmt.Printf("Format:      %s\n", doc.Format())

	header := doc.Header()
	if ext, ok := doc.DX10(); ok {
		fmt.Printf("DXGI Format: %s\n", dds.DXGIFormatName(ext.DXGIFormat))
		fmt.Printf("Array Size:  %d\n", ext.ArraySize)
	} else {
		fmt.Printf("FourCC:      %s\n", header.PixelFormat.FourCCString())
	}

	fmt.Printf("Mip Levels:  %d\n", doc.MipMapCount())
	fmt.Printf("Surfaces:    %d\n", doc.SurfaceCount())
	fmt.Printf("CubeMap:     %v\n", doc.IsCubeMap())
	fmt.Printf("Payload:     %d bytes\n", doc.PayloadSize())

	if showMips {
		fmt.Printf("\nMip Levels:\n")
		for level := 0; level < doc.MipMapCount(); level++ {
			fmt.Printf("  Level %2d: %5dx%-5d %10d bytes\n",
				level, doc.MipWidth(level), doc.MipHeight(level), len(doc.MipBuffer(level)))
		}
	}
}

func countTextures(formatCounts map[string]int) int {
	total := 0
	for _, n := range formatCounts {
		total += n
	}
	return total
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
