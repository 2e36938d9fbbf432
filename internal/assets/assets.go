// Package assets resolves image source locators to raw bytes.
//
// Supported locators:
//
//	field.png, /abs/field.tif, file:///abs/field.tif   local files
//	http://host/tile.png, https://host/tile.png         remote files
//	grf://path/to/data.grf!/data/texture/field.bmp      GRF archive entry
//	grf://!/data/texture/field.bmp                      entry from any mounted archive
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/terrain-viewer/internal/logger"
	"github.com/Faultbox/terrain-viewer/pkg/grf"
)

// Scheme identifies how a locator is fetched.
type Scheme int

const (
	SchemeFile Scheme = iota
	SchemeHTTP
	SchemeArchive
)

func (s Scheme) String() string {
	switch s {
	case SchemeHTTP:
		return "http"
	case SchemeArchive:
		return "grf"
	default:
		return "file"
	}
}

// ErrNotFound is returned when a locator does not resolve to any data.
var ErrNotFound = errors.New("asset not found")

// ErrBadLocator is returned for locators that cannot be parsed.
var ErrBadLocator = errors.New("bad asset locator")

// Locator is a parsed source string.
type Locator struct {
	Raw    string
	Scheme Scheme
	Path   string // file path, URL or archive path
	Entry  string // archive entry, SchemeArchive only
}

// ParseSource parses a source string into a Locator.
func ParseSource(source string) (Locator, error) {
	loc := Locator{Raw: source}
	switch {
	case source == "":
		return loc, fmt.Errorf("%w: empty source", ErrBadLocator)

	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		if _, err := url.Parse(source); err != nil {
			return loc, fmt.Errorf("%w: %w", ErrBadLocator, err)
		}
		loc.Scheme = SchemeHTTP
		loc.Path = source

	case strings.HasPrefix(source, "grf://"):
		rest := strings.TrimPrefix(source, "grf://")
		archive, entry, ok := strings.Cut(rest, "!/")
		if !ok || entry == "" {
			return loc, fmt.Errorf("%w: archive locator needs '!/<entry>': %s", ErrBadLocator, source)
		}
		loc.Scheme = SchemeArchive
		loc.Path = archive
		loc.Entry = grf.NormalizePath(entry)

	case strings.HasPrefix(source, "file://"):
		u, err := url.Parse(source)
		if err != nil {
			return loc, fmt.Errorf("%w: %w", ErrBadLocator, err)
		}
		loc.Scheme = SchemeFile
		loc.Path = u.Path

	default:
		loc.Scheme = SchemeFile
		loc.Path = source
	}
	return loc, nil
}

// Options configures a Manager.
type Options struct {
	HTTPTimeout time.Duration
	HTTPClient  *http.Client
}

// Manager fetches source bytes from files, HTTP and GRF archives.
// It is safe for concurrent use.
type Manager struct {
	client *http.Client
	log    *zap.Logger

	mu       sync.RWMutex
	mounted  []*grf.Archive
	archives map[string]*grf.Archive
	cache    *Cache
}

// NewManager creates a new asset manager.
func NewManager(opts Options) *Manager {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.HTTPTimeout}
	}
	return &Manager{
		client:   client,
		log:      logger.Named("assets"),
		archives: make(map[string]*grf.Archive),
		cache:    NewCache(),
	}
}

// AddArchive mounts a GRF archive for grf://!/ lookups.
// Archives are searched in reverse order (last added = highest priority).
func (m *Manager) AddArchive(path string) error {
	archive, err := m.archive(path)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.mounted = append(m.mounted, archive)
	m.mu.Unlock()

	m.log.Info("archive mounted", zap.String("path", path), zap.Int("entries", len(archive.List())))
	return nil
}

// Fetch returns the bytes a source locator points at.
func (m *Manager) Fetch(ctx context.Context, source string) ([]byte, error) {
	loc, err := ParseSource(source)
	if err != nil {
		return nil, err
	}

	switch loc.Scheme {
	case SchemeHTTP:
		return m.fetchHTTP(ctx, loc)
	case SchemeArchive:
		return m.fetchArchive(loc)
	default:
		return m.fetchFile(loc)
	}
}

func (m *Manager) fetchFile(loc Locator) ([]byte, error) {
	data, err := os.ReadFile(loc.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, loc.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", loc.Path, err)
	}
	return data, nil
}

func (m *Manager) fetchHTTP(ctx context.Context, loc Locator) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, loc.Path, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadLocator, err)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting %s: %w", loc.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, loc.Path)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("requesting %s: unexpected status %s", loc.Path, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body of %s: %w", loc.Path, err)
	}
	m.log.Debug("fetched", zap.String("url", loc.Path), zap.Int("bytes", len(data)))
	return data, nil
}

func (m *Manager) fetchArchive(loc Locator) ([]byte, error) {
	key := loc.Path + "!/" + loc.Entry
	if data, ok := m.cache.Get(key); ok {
		return data, nil
	}

	var candidates []*grf.Archive
	if loc.Path != "" {
		archive, err := m.archive(loc.Path)
		if err != nil {
			return nil, err
		}
		candidates = []*grf.Archive{archive}
	} else {
		m.mu.RLock()
		for i := len(m.mounted) - 1; i >= 0; i-- {
			candidates = append(candidates, m.mounted[i])
		}
		m.mu.RUnlock()
	}

	for _, archive := range candidates {
		data, err := archive.Read(loc.Entry)
		if errors.Is(err, grf.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		m.cache.Set(key, data)
		return data, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, loc.Raw)
}

// archive returns an opened archive, opening it on first use.
func (m *Manager) archive(path string) (*grf.Archive, error) {
	m.mu.RLock()
	archive, ok := m.archives[path]
	m.mu.RUnlock()
	if ok {
		return archive, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if archive, ok := m.archives[path]; ok {
		return archive, nil
	}

	archive, err := grf.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: archive %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", path, err)
	}
	m.archives[path] = archive
	return archive, nil
}

// Close closes all archives.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for path, archive := range m.archives {
		if err := archive.Close(); err != nil {
			m.log.Warn("closing archive", zap.String("path", path), zap.Error(err))
		}
	}
	m.archives = make(map[string]*grf.Archive)
	m.mounted = nil
	m.cache.Clear()
}

// CacheStats returns archive entry cache statistics.
func (m *Manager) CacheStats() (hits, misses int) {
	return m.cache.Stats()
}
