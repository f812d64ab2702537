// Package main provides a command-line tool for packing and unpacking texture bundles.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/EchoTools/ddstools/pkg/bundle"
	"github.com/EchoTools/ddstools/pkg/dds"
	"github.com/EchoTools/ddstools/pkg/texarc"
)

var (
	mode           string
	inputPath      string
	outputPath     string
	patchDir       string
	level          int
	forceOverwrite bool
)

func init() {
	flag.StringVar(&mode, "mode", "", "Operation mode: pack, extract, list, repack, wrap, unwrap")
	flag.StringVar(&inputPath, "in", "", "Input file or directory")
	flag.StringVar(&outputPath, "out", "", "Output file or directory")
	flag.StringVar(&patchDir, "patch", "", "Directory of replacement textures for repack mode")
	flag.IntVar(&level, "level", texarc.DefaultCompressionLevel, "Zstd compression level")
	flag.BoolVar(&forceOverwrite, "force", false, "Allow non-empty output directory")
}

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := validateFlags(); err != nil {
		flag.Usage()
		return err
	}

	switch mode {
	case "pack":
		return runPack()
	case "extract":
		return runExtract()
	case "list":
		return runList()
	case "repack":
		return runRepack()
	case "wrap":
		return runWrap()
	case "unwrap":
		return runUnwrap()
	default:
		return fmt.Errorf("unknown mode: %s", mode)
	}
}

func validateFlags() error {
	if mode == "" {
		return fmt.Errorf("mode is required")
	}
	if inputPath == "" {
		return fmt.Errorf("input path is required")
	}

	switch mode {
	case "pack", "extract", "wrap", "unwrap":
		if outputPath == "" {
			return fmt.Errorf("%s mode requires -out", mode)
		}
	case "repack":
		if outputPath == "" {
			return fmt.Errorf("repack mode requires -out")
		}
		if patchDir == "" {
			return fmt.Errorf("repack mode requires -patch")
		}
	case "list":
	default:
		return fmt.Errorf("mode must be 'pack', 'extract', 'list', 'repack', 'wrap' or 'unwrap'")
	}

	return nil
}

func prepareOutputDir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	if !forceOverwrite {
		empty, err := isDirEmpty(path)
		if err != nil {
			return fmt.Errorf("check output directory: %w", err)
		}
		if !empty {
			return fmt.Errorf("output directory is not empty (use -force to override)")
		}
	}

	return nil
}

func isDirEmpty(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	_, err = f.Readdir(1)
	return err == io.EOF, nil
}

func runPack() error {
	fmt.Println("Scanning input directory...")
	files, err := bundle.Scan(inputPath)
	if err != nil {
		return fmt.Errorf("scan textures: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no textures found in %s", inputPath)
	}
	fmt.Printf("Found %d textures\n", len(files))

	builder := bundle.NewBuilder()
	builder.SetCompressionLevel(level)
	for _, file := range files {
		if err := builder.AddFile(file.Symbol, file.Path); err != nil {
			return err
		}
	}

	fmt.Println("Building bundle...")
	if err := builder.WriteFile(outputPath); err != nil {
		return fmt.Errorf("write bundle: %w", err)
	}

	fmt.Printf("Bundle complete. %d textures written to %s\n", builder.Len(), outputPath)
	return nil
}

func runExtract() error {
	b, err := bundle.OpenFile(inputPath)
	if err != nil {
		return fmt.Errorf("open bundle: %w", err)
	}
	defer b.Close()

	fmt.Printf("Bundle loaded: %d textures\n", b.Count())

	if err := prepareOutputDir(outputPath); err != nil {
		return err
	}

	fmt.Println("Extracting textures...")
	for _, entry := range b.Entries() {
		raw, err := b.ReadRaw(entry)
		if err != nil {
			return fmt.Errorf("extract %016x: %w", entry.Symbol, err)
		}

		name := filepath.Join(outputPath, fmt.Sprintf("%016x.dds", entry.Symbol))
		if err := os.WriteFile(name, raw, 0644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}

	fmt.Printf("Extraction complete. Files written to %s\n", outputPath)
	return nil
}

func runList() error {
	b, err := bundle.OpenFile(inputPath)
	if err != nil {
		return fmt.Errorf("open bundle: %w", err)
	}
	defer b.Close()

	fmt.Printf("%-16s  %-11s  %4s  %-8s  %-4s  %10s  %10s\n",
		"SYMBOL", "DIMENSIONS", "MIPS", "FORMAT", "CUBE", "COMPRESSED", "SIZE")
	for _, entry := range b.Entries() {
		cube := "-"
		if entry.IsCubeMap() {
			cube = "cube"
		}
		fmt.Printf("%016x  %-11s  %4d  %-8s  %-4s  %10d  %10d\n",
			entry.Symbol,
			fmt.Sprintf("%dx%d", entry.Width, entry.Height),
			entry.MipMapCount,
			dds.Format(entry.FormatID),
			cube,
			entry.CompressedLength,
			entry.Length)
	}

	fmt.Printf("\n%d textures\n", b.Count())
	return nil
}

func runRepack() error {
	b, err := bundle.OpenFile(inputPath)
	if err != nil {
		return fmt.Errorf("open bundle: %w", err)
	}
	defer b.Close()

	fmt.Printf("Bundle loaded: %d textures\n", b.Count())

	files, err := bundle.Scan(patchDir)
	if err != nil {
		return fmt.Errorf("scan textures: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no textures found in %s", patchDir)
	}

	replaced := 0
	for _, file := range files {
		if _, ok := b.Lookup(file.Symbol); ok {
			replaced++
		}
	}
	fmt.Printf("Found %d textures (%d replacing, %d new)\n", len(files), replaced, len(files)-replaced)

	builder, err := bundle.Patch(b, files, level)
	if err != nil {
		return fmt.Errorf("patch bundle: %w", err)
	}

	fmt.Println("Building bundle...")
	if err := builder.WriteFile(outputPath); err != nil {
		return fmt.Errorf("write bundle: %w", err)
	}

	fmt.Printf("Repack complete. %d textures written to %s\n", builder.Len(), outputPath)
	return nil
}

func runWrap() error {
	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	doc, err := dds.Decode(f)
	if err != nil {
		return fmt.Errorf("parse texture: %w", err)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	if err := texarc.EncodeDocument(out, doc, texarc.WithCompressionLevel(level)); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}

	fmt.Printf("Wrapped %s (%d bytes) to %s\n", inputPath, doc.EncodedSize(), outputPath)
	return nil
}

func runUnwrap() error {
	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open frame: %w", err)
	}
	defer f.Close()

	doc, err := texarc.DecodeDocument(f)
	if err != nil {
		return fmt.Errorf("decode frame: %w", err)
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	n, err := doc.WriteTo(out)
	if err != nil {
		return fmt.Errorf("write texture: %w", err)
	}

	fmt.Printf("Unwrapped %dx%d %s texture (%d bytes) to %s\n",
		doc.Width(), doc.Height(), doc.Format(), n, outputPath)
	return nil
}
