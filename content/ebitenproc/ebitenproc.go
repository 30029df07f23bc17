// Package ebitenproc provides content processors for ebiten images and fonts.
package ebitenproc

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/plus3/stagekit/content/fileproc"
)

// Image decodes PNG or JPEG files into GPU backed ebiten images.
type Image struct {
	FS fs.FS
}

func (p Image) Load(path string) (*ebiten.Image, error) {
	src, err := decode(p.FS, path)
	if err != nil {
		return nil, err
	}
	return ebiten.NewImageFromImage(src), nil
}

// Unload frees the image's GPU memory.
func (p Image) Unload(img *ebiten.Image) error {
	img.Deallocate()
	return nil
}

func decode(fsys fs.FS, path string) (image.Image, error) {
	f, err := fileproc.Open(fsys, path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// FontSource parses TrueType or OpenType files into face sources for
// ebiten's text/v2 package.
type FontSource struct {
	FS fs.FS
}

func (p FontSource) Load(path string) (*text.GoTextFaceSource, error) {
	f, err := fileproc.Open(p.FS, path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, err := text.NewGoTextFaceSource(f)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	return src, nil
}

func (p FontSource) Unload(*text.GoTextFaceSource) error {
	return nil
}
