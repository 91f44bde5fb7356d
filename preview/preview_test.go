package preview

import (
	"image/color"
	"path/filepath"
	"testing"

	"github.com/fogleman/gg"
	"github.com/quanmouren/MidiAssembleVideo/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayout(t *testing.T) {
	notes := []string{"C4", "E4", "G4", "B4", "D5", "F5"}
	regions, dropped := Layout(notes, model.Size{W: 540, H: 960}, 0.44)

	assert := assert.New(t)
	require.Len(t, regions, 5)
	assert.Equal([]string{"F5"}, dropped)
	assert.Equal(model.FullFrame, regions[0].Placement.Slot)
	assert.Equal(model.BottomRight, regions[4].Placement.Slot)
	assert.Equal(model.Point{X: 303, Y: 538}, regions[4].Placement.Position)
}

func TestNoteColor(t *testing.T) {
	for _, n := range []string{"C4", "C#4", "A0", "G9"} {
		c := NoteColor(n)
		for _, v := range []uint8{c.R, c.G, c.B} {
			assert.GreaterOrEqual(t, v, uint8(50))
			assert.LessOrEqual(t, v, uint8(200))
		}
		assert.Equal(t, c, NoteColor(n))
	}
	assert.NotEqual(t, NoteColor("C4"), NoteColor("D4"))
}

func TestDrawLayout(t *testing.T) {
	size := model.Size{W: 100, H: 200}
	regions, _ := Layout([]string{"C4", "E4"}, size, 0.5)
	bg := color.RGBA{A: 0xff}

	dc, err := DrawLayout(regions, size, bg)
	require.NoError(t, err)
	img := dc.Image()
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 200, img.Bounds().Dy())

	path := filepath.Join(t.TempDir(), "layout.png")
	require.NoError(t, dc.SavePNG(path))
	loaded, err := gg.LoadPNG(path)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), loaded.Bounds())
}

func TestDrawCard(t *testing.T) {
	dc, err := DrawCard("C4", model.Size{W: 54, H: 96})
	require.NoError(t, err)

	// corner pixel is background, the label sits in the middle
	r, g, b, _ := dc.Image().At(1, 1).RGBA()
	want := NoteColor("C4")
	assert.Equal(t, uint32(want.R), r>>8)
	assert.Equal(t, uint32(want.G), g>>8)
	assert.Equal(t, uint32(want.B), b>>8)
}
