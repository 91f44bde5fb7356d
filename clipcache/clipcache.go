// Package clipcache keeps decoded note clips open for the length of one
// render so every occurrence of a note shares a single source.
package clipcache

import (
	"context"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/quanmouren/MidiAssembleVideo/media"
	"github.com/quanmouren/MidiAssembleVideo/util"
)

var (
	ErrSourceNotFound = errors.New("source not found")
	ErrCacheReleased  = errors.New("clip cache already released")
)

type Option func(*Cache)

func WithLogger(l *log.Logger) Option {
	return func(c *Cache) {
		c.logger = l
	}
}

type Cache struct {
	opener media.Opener
	logger *log.Logger

	mu          sync.Mutex
	entries     map[string]media.Source
	outstanding int
	released    bool
}

func New(opener media.Opener, opts ...Option) *Cache {
	c := &Cache{
		opener:  opener,
		logger:  log.Default(),
		entries: make(map[string]media.Source),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) open(ctx context.Context, id string) (media.Source, error) {
	src, err := c.opener.Open(ctx, id)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrapf(ErrSourceNotFound, "%s: %v", id, err)
		}
		return nil, errors.Wrapf(err, "opening %s", id)
	}
	return src, nil
}

// store keeps the first source loaded for id and closes any duplicate.
func (c *Cache) store(id string, src media.Source) (media.Source, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		src.Close()
		return nil, ErrCacheReleased
	}
	if existing, ok := c.entries[id]; ok {
		src.Close()
		return existing, nil
	}
	c.entries[id] = src
	return src, nil
}

func (c *Cache) lookup(id string) (media.Source, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return nil, false, ErrCacheReleased
	}
	src, ok := c.entries[id]
	return src, ok, nil
}

// Get returns a fresh handle on id, opening and retaining the source on first
// use. The handle must be closed by whoever ends up owning it.
func (c *Cache) Get(ctx context.Context, id string) (media.Clip, error) {
	src, ok, err := c.lookup(id)
	if err != nil {
		return media.Clip{}, err
	}
	if !ok {
		loaded, err := c.open(ctx, id)
		if err != nil {
			return media.Clip{}, err
		}
		if src, err = c.store(id, loaded); err != nil {
			return media.Clip{}, err
		}
	}

	c.mu.Lock()
	c.outstanding++
	c.mu.Unlock()
	return media.NewClip(src, c.handleClosed), nil
}

func (c *Cache) handleClosed() {
	c.mu.Lock()
	c.outstanding--
	c.mu.Unlock()
}

// Preload opens the distinct ids with at most workers concurrent opens and
// returns once all of them are done. Missing sources are skipped, other
// failures are logged and left for Get to report.
func (c *Cache) Preload(ctx context.Context, ids []string, workers int) int {
	logger := log.FromContext(ctx)
	if workers < 1 {
		workers = 1
	}

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, workers)
	for _, id := range util.Unique(ids) {
		if _, ok, err := c.lookup(id); ok || err != nil {
			continue
		}
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			src, err := c.open(ctx, id)
			if errors.Is(err, ErrSourceNotFound) {
				logger.Debug("skipping absent source", "source", id)
				return
			}
			if err != nil {
				logger.Warn("could not preload source", "source", id, "err", err)
				return
			}
			if _, err := c.store(id, src); err != nil {
				logger.Debug("cache released during preload", "source", id)
			}
		}(id)
	}
	wg.Wait()
	return c.Len()
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Outstanding is the number of handles handed out by Get and not yet closed.
func (c *Cache) Outstanding() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outstanding
}

// ReleaseAll closes every retained source. Only the first call does anything.
func (c *Cache) ReleaseAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return nil
	}
	c.released = true
	if c.outstanding > 0 {
		c.logger.Warn("releasing cache with open handles", "handles", c.outstanding)
	}

	var firstErr error
	for id, src := range c.entries {
		if err := src.Close(); err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "closing %s", id)
		}
	}
	c.entries = make(map[string]media.Source)
	return firstErr
}
