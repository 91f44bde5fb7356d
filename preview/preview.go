// Package preview draws still images: the layout of one chord and the title
// cards used as stand-in note clips.
package preview

import (
	"hash/fnv"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	"github.com/quanmouren/MidiAssembleVideo/layout"
	"github.com/quanmouren/MidiAssembleVideo/model"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// Region is one chord member and where it is drawn.
type Region struct {
	Label     string
	Placement model.Placement
}

// Layout places notes the way a render would place the members of one
// chord. Notes past the last slot are returned separately.
func Layout(notes []string, outputSize model.Size, ratio float64) (regions []Region, dropped []string) {
	for i, n := range notes {
		p, ok := layout.Assign(len(notes), i, outputSize, ratio)
		if !ok {
			dropped = append(dropped, n)
			continue
		}
		regions = append(regions, Region{Label: n, Placement: p})
	}
	return regions, dropped
}

func fontFace(points float64) (font.Face, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, errors.Wrap(err, "parsing font")
	}
	return truetype.NewFace(f, &truetype.Options{Size: points}), nil
}

// NoteColor is a stable mid-tone color for a note name, each channel in
// [50, 200].
func NoteColor(name string) color.RGBA {
	h := fnv.New32a()
	h.Write([]byte(name))
	sum := h.Sum32()
	channel := func(shift uint) uint8 {
		return uint8(50 + (sum>>shift)%151)
	}
	return color.RGBA{R: channel(0), G: channel(8), B: channel(16), A: 0xff}
}

func setColor(dc *gg.Context, c color.RGBA) {
	dc.SetRGBA255(int(c.R), int(c.G), int(c.B), int(c.A))
}

// DrawLayout renders regions in stacking order over the background.
func DrawLayout(regions []Region, size model.Size, bg color.RGBA) (*gg.Context, error) {
	dc := gg.NewContext(size.W, size.H)
	setColor(dc, bg)
	dc.DrawRectangle(0, 0, float64(size.W), float64(size.H))
	dc.Fill()

	for _, r := range regions {
		p := r.Placement
		x, y := float64(p.Position.X), float64(p.Position.Y)
		w, h := float64(p.Size.W), float64(p.Size.H)

		setColor(dc, NoteColor(r.Label))
		dc.DrawRectangle(x, y, w, h)
		dc.FillPreserve()
		dc.SetRGBA(0, 0, 0, 1)
		dc.SetLineWidth(2)
		dc.Stroke()

		face, err := fontFace(minFloat(w, h) / 6)
		if err != nil {
			return nil, err
		}
		dc.SetFontFace(face)
		dc.SetRGB(1, 1, 1)
		dc.DrawStringAnchored(r.Label+" ("+p.Slot.String()+")", x+w/2, y+h/2, 0.5, 0.5)
	}
	return dc, nil
}

// DrawCard is a solid NoteColor frame with the note name centered.
func DrawCard(name string, size model.Size) (*gg.Context, error) {
	dc := gg.NewContext(size.W, size.H)
	setColor(dc, NoteColor(name))
	dc.DrawRectangle(0, 0, float64(size.W), float64(size.H))
	dc.Fill()

	face, err := fontFace(minFloat(float64(size.W), float64(size.H)) / 4)
	if err != nil {
		return nil, err
	}
	dc.SetFontFace(face)
	dc.SetRGB(1, 1, 1)
	dc.DrawStringAnchored(name, float64(size.W)/2, float64(size.H)/2, 0.5, 0.5)
	return dc, nil
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
