package texture

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/Faultbox/terrain-viewer/internal/engine/scene"
	"github.com/Faultbox/terrain-viewer/internal/logger"
)

// Fetcher returns the raw bytes behind a source locator.
type Fetcher interface {
	Fetch(ctx context.Context, source string) ([]byte, error)
}

// Poster runs callbacks on the goroutine that owns the scene.
type Poster interface {
	Post(fn func())
}

// DoneFunc receives a load result on the scene goroutine.
// Exactly one of tex and err is non-nil.
type DoneFunc func(tex *scene.Texture, err error)

// Options configures a Loader.
type Options struct {
	// MaxTextureSize bounds the longer side of uploaded images. 0 disables.
	MaxTextureSize int
	// MaxConcurrent bounds simultaneous fetches. Values below 1 mean 1.
	MaxConcurrent int
	// Spawn starts background work. Defaults to a new goroutine.
	Spawn func(fn func())
}

// Loader fetches and decodes textures off the scene goroutine.
//
// The loader does not suppress superseded results; callers compare their own
// request tokens when DoneFunc runs.
type Loader struct {
	fetcher Fetcher
	poster  Poster
	spawn   func(fn func())
	maxSize int

	sem   *semaphore.Weighted
	group singleflight.Group

	ctx    context.Context
	cancel context.CancelFunc
	log    *zap.Logger
}

// NewLoader creates a loader.
func NewLoader(fetcher Fetcher, poster Poster, opts Options) *Loader {
	if opts.MaxConcurrent < 1 {
		opts.MaxConcurrent = 1
	}
	if opts.Spawn == nil {
		opts.Spawn = func(fn func()) { go fn() }
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Loader{
		fetcher: fetcher,
		poster:  poster,
		spawn:   opts.Spawn,
		maxSize: opts.MaxTextureSize,
		sem:     semaphore.NewWeighted(int64(opts.MaxConcurrent)),
		ctx:     ctx,
		cancel:  cancel,
		log:     logger.Named("texture"),
	}
}

// Load starts an asynchronous load. done is posted to the scene goroutine.
func (l *Loader) Load(source string, done DoneFunc) {
	l.spawn(func() {
		tex, err := l.LoadSync(l.ctx, source)
		l.poster.Post(func() { done(tex, err) })
	})
}

// LoadSync fetches and decodes source on the calling goroutine.
func (l *Loader) LoadSync(ctx context.Context, source string) (*scene.Texture, error) {
	start := time.Now()

	data, err := l.fetch(ctx, source)
	if err != nil {
		l.log.Warn("texture fetch failed", zap.String("source", source), zap.Error(err))
		return nil, &LoadError{Source: source, Err: fmt.Errorf("%w: %w", ErrUnreachable, err)}
	}

	tex, err := Decode(source, data, l.maxSize)
	if err != nil {
		l.log.Warn("texture decode failed", zap.String("source", source), zap.Error(err))
		return nil, &LoadError{Source: source, Err: err}
	}

	l.log.Debug("texture loaded",
		zap.String("source", source),
		zap.Int("width", tex.Width),
		zap.Int("height", tex.Height),
		zap.Int("bytes", len(data)),
		zap.Duration("elapsed", time.Since(start)))
	return tex, nil
}

// fetch shares one in-flight fetch between concurrent requests for the same source.
func (l *Loader) fetch(ctx context.Context, source string) ([]byte, error) {
	v, err, shared := l.group.Do(source, func() (any, error) {
		if err := l.sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		defer l.sem.Release(1)
		return l.fetcher.Fetch(ctx, source)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		l.log.Debug("texture fetch shared", zap.String("source", source))
	}
	return v.([]byte), nil
}

// Close cancels in-flight fetches. Pending callbacks are still posted, with errors.
func (l *Loader) Close() {
	l.cancel()
}
