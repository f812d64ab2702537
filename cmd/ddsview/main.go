// Package main provides a windowed viewer for block-compressed textures.
package main

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/EchoTools/ddstools/pkg/dds"
	"github.com/EchoTools/ddstools/pkg/ddsimage"
)

const (
	screenWidth  = 1024
	screenHeight = 768
)

// Game displays one texture and flips through its mip levels and surfaces.
type Game struct {
	name    string
	doc     *dds.Document
	surface int
	level   int
	img     *ebiten.Image
	loadErr error
}

func NewGame(name string, doc *dds.Document) *Game {
	g := &Game{name: name, doc: doc}
	g.reload()
	return g
}

func (g *Game) reload() {
	img, err := ddsimage.DecodeLevel(g.doc, g.surface, g.level)
	if err != nil {
		g.img = nil
		g.loadErr = err
		return
	}
	g.img = ebiten.NewImageFromImage(img)
	g.loadErr = nil
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	changed := false
	levels := g.doc.MipMapCount()
	surfaces := g.doc.SurfaceCount()

	if inpututil.IsKeyJustPressed(ebiten.KeyRight) {
		g.level = (g.level + 1) % levels
		changed = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyLeft) {
		g.level = (g.level - 1 + levels) % levels
		changed = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyUp) {
		g.surface = (g.surface + 1) % surfaces
		changed = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDown) {
		g.surface = (g.surface - 1 + surfaces) % surfaces
		changed = true
	}

	if changed {
		g.reload()
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0x20, 0x20, 0x20, 0xff})

	if g.img != nil {
		w := float64(g.img.Bounds().Dx())
		h := float64(g.img.Bounds().Dy())
		scale := math.Min(screenWidth/w, screenHeight/h)
		if scale > 1.0 {
			scale = 1.0
		}

		opts := &ebiten.DrawImageOptions{}
		opts.GeoM.Scale(scale, scale)
		opts.GeoM.Translate((screenWidth-w*scale)/2, (screenHeight-h*scale)/2)
		screen.DrawImage(g.img, opts)
	}

	info := fmt.Sprintf("%s  %dx%d %s  level %d/%d  surface %d/%d",
		g.name, g.doc.MipWidth(g.level), g.doc.MipHeight(g.level), g.doc.Format(),
		g.level+1, g.doc.MipMapCount(), g.surface+1, g.doc.SurfaceCount())
	if g.doc.IsCubeMap() {
		info += "  cubemap"
	}
	if g.loadErr != nil {
		info = fmt.Sprintf("%s  decode error: %v", g.name, g.loadErr)
	}
	ebitenutil.DebugPrint(screen, info)
	ebitenutil.DebugPrintAt(screen, "LEFT/RIGHT: mip level  UP/DOWN: surface  ESC: quit", 0, screenHeight-20)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	if len(os.Args) != 2 {
		fmt.Println("Usage: ddsview <file.dds>")
		os.Exit(1)
	}

	path := os.Args[1]
	doc, err := loadTexture(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle(fmt.Sprintf("ddsview - %s", filepath.Base(path)))

	if err := ebiten.RunGame(NewGame(filepath.Base(path), doc)); err != nil {
		log.Fatal(err)
	}
}

func loadTexture(path string) (*dds.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := dds.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("parse texture: %w", err)
	}

	return doc, nil
}
