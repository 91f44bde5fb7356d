package clipcache

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/quanmouren/MidiAssembleVideo/media"
	"github.com/quanmouren/MidiAssembleVideo/media/mediatest"
	"github.com/quanmouren/MidiAssembleVideo/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOpener() *mediatest.Opener {
	return mediatest.NewOpener(map[string]media.ClipInfo{
		"sounds/C4.mp4": mediatest.Info(),
		"sounds/E4.mp4": mediatest.Info(),
		"sounds/G4.mp4": mediatest.Info(),
	})
}

func TestGetOpensOnce(t *testing.T) {
	o := newOpener()
	c := New(o)
	ctx := context.Background()

	a, err := c.Get(ctx, "sounds/C4.mp4")
	require.NoError(t, err)
	b, err := c.Get(ctx, "sounds/C4.mp4")
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(1, o.Opens("sounds/C4.mp4"))
	assert.Equal(1, c.Len())
	assert.Equal(2, c.Outstanding())

	a = a.Trim(0.5).Resize(model.Size{W: 10, H: 10})
	assert.Equal(3.0, b.Duration)
	assert.Equal(model.Size{W: 540, H: 960}, b.Size)

	a.Close()
	a.Close()
	assert.Equal(1, c.Outstanding())
	b.Close()
	assert.Equal(0, c.Outstanding())
}

func TestGetMissingSource(t *testing.T) {
	c := New(newOpener())
	_, err := c.Get(context.Background(), "sounds/A0.mp4")
	assert.ErrorIs(t, err, ErrSourceNotFound)
	assert.Equal(t, 0, c.Len())
}

func TestGetOtherOpenFailure(t *testing.T) {
	o := newOpener()
	o.Errs["sounds/C4.mp4"] = errors.New("corrupt moov atom")
	c := New(o)

	_, err := c.Get(context.Background(), "sounds/C4.mp4")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSourceNotFound)
	assert.Contains(t, err.Error(), "corrupt moov atom")
}

func TestPreload(t *testing.T) {
	o := newOpener()
	o.Delay = 10 * time.Millisecond
	o.Errs["sounds/G4.mp4"] = errors.New("bad codec")
	c := New(o)

	ids := []string{"sounds/C4.mp4", "sounds/E4.mp4", "sounds/C4.mp4", "sounds/G4.mp4", "sounds/B9.mp4"}
	n := c.Preload(context.Background(), ids, 2)

	assert := assert.New(t)
	assert.Equal(2, n)
	assert.Equal(1, o.Opens("sounds/C4.mp4"))
	assert.Equal(1, o.Opens("sounds/E4.mp4"))
	assert.LessOrEqual(o.MaxConcurrent(), 2)
	assert.Equal(0, c.Outstanding())

	_, err := c.Get(context.Background(), "sounds/C4.mp4")
	assert.NoError(err)
	assert.Equal(1, o.Opens("sounds/C4.mp4"))
}

func TestReleaseAll(t *testing.T) {
	o := newOpener()
	c := New(o)
	ctx := context.Background()
	c.Preload(ctx, []string{"sounds/C4.mp4", "sounds/E4.mp4"}, 4)

	clip, err := c.Get(ctx, "sounds/C4.mp4")
	require.NoError(t, err)
	clip.Close()

	assert := assert.New(t)
	assert.NoError(c.ReleaseAll())
	assert.Equal(1, o.Closes("sounds/C4.mp4"))
	assert.Equal(1, o.Closes("sounds/E4.mp4"))
	assert.Equal(0, c.Len())

	assert.NoError(c.ReleaseAll())
	assert.Equal(1, o.Closes("sounds/C4.mp4"))

	_, err = c.Get(ctx, "sounds/C4.mp4")
	assert.ErrorIs(err, ErrCacheReleased)
	assert.Equal(0, c.Preload(ctx, []string{"sounds/G4.mp4"}, 1))
	assert.Equal(0, o.Opens("sounds/G4.mp4"))
}
