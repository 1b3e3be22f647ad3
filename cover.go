package epubgen

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Cover image geometry. Proportions follow the common 3:4 ebook cover.
const (
	coverWidth  = 600
	coverHeight = 800
)

// WriteCoverImage generates a simple cover image with the title drawn
// near the top and the creator near the bottom, and writes it as
// "cover.png" into the given image directory. It returns the bare
// filename of the written image.
//
// The builder does not call this itself; callers that want a generated
// cover invoke it between Begin and Index so the image is picked up by
// the manifest.
func WriteCoverImage(title, creator, imagesDir string) (string, error) {
	img := image.NewRGBA(image.Rect(0, 0, coverWidth, coverHeight))
	bg := color.RGBA{R: 0x2b, G: 0x3a, B: 0x4a, A: 0xff}
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)

	white := image.NewUniform(color.RGBA{0xff, 0xff, 0xff, 0xff})
	drawCentered(img, white, title, coverHeight/5)
	drawCentered(img, white, creator, coverHeight-coverHeight/8)

	name := "cover.png"
	dest := filepath.Join(imagesDir, name)
	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("epubgen: create cover image %s: %w", dest, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return "", fmt.Errorf("epubgen: encode cover image: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("epubgen: close cover image %s: %w", dest, err)
	}
	return name, nil
}

// drawCentered draws one line of text horizontally centered at the given
// baseline y coordinate, truncating text that would overflow the cover.
func drawCentered(img draw.Image, src image.Image, text string, y int) {
	face := basicfont.Face7x13
	d := font.Drawer{
		Dst:  img,
		Src:  src,
		Face: face,
	}
	for len(text) > 0 && d.MeasureString(text) > fixed.I(coverWidth-40) {
		text = text[:len(text)-1]
	}
	width := d.MeasureString(text)
	d.Dot = fixed.Point26_6{
		X: (fixed.I(coverWidth) - width) / 2,
		Y: fixed.I(y),
	}
	d.DrawString(text)
}
