package texture

import (
	"image"
	"log/slog"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	_ "golang.org/x/image/webp" // register webp with image.Decode
)

// Well-known image references resolved by registered sources.
const (
	RefGuide  = "builtin:guide"
	RefScreen = "screen"
)

// Source produces an image on demand.
type Source func() (image.Image, error)

// Options configures a Loader.
type Options struct {
	MaxSide   int // longest side after downscaling, 0 keeps the original size
	CacheSize int // decoded files kept in memory
}

type cacheKey struct {
	path  string
	mtime int64
	size  int64
}

// Loader resolves image references to prepared textures. Files are decoded
// once per (path, mtime, size) and kept in an LRU cache.
type Loader struct {
	opts    Options
	logger  *slog.Logger
	cache   *lru.Cache[cacheKey, *image.NRGBA]
	sources map[string]Source
}

// NewLoader returns a loader with an empty cache and no named sources.
func NewLoader(opts Options, logger *slog.Logger) (*Loader, error) {
	if opts.CacheSize <= 0 {
		opts.CacheSize = 1
	}
	cache, err := lru.New[cacheKey, *image.NRGBA](opts.CacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "texture cache")
	}
	return &Loader{opts: opts, logger: logger, cache: cache, sources: make(map[string]Source)}, nil
}

// Register binds a named reference such as RefGuide to src.
func (l *Loader) Register(ref string, src Source) {
	if l == nil || src == nil {
		return
	}
	l.sources[ref] = src
}

// Load resolves ref to a prepared image. ref is either a registered name or
// a file path.
func (l *Loader) Load(ref string) (image.Image, error) {
	if l == nil {
		return nil, errors.New("nil texture loader")
	}
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, errors.New("empty image reference")
	}
	if src, ok := l.sources[ref]; ok {
		img, err := src()
		if err != nil {
			return nil, errors.Wrapf(err, "load %s", ref)
		}
		if img == nil {
			return nil, errors.Errorf("load %s: no image", ref)
		}
		return Prepare(img, l.opts.MaxSide), nil
	}
	return l.loadFile(ref)
}

// CacheLen returns the number of decoded files held in memory.
func (l *Loader) CacheLen() int {
	if l == nil {
		return 0
	}
	return l.cache.Len()
}

// Purge drops all cached files.
func (l *Loader) Purge() {
	if l != nil {
		l.cache.Purge()
	}
}

func (l *Loader) loadFile(path string) (image.Image, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	if fi.IsDir() {
		return nil, errors.Errorf("%s is a directory", path)
	}
	key := cacheKey{path: path, mtime: fi.ModTime().UnixNano(), size: fi.Size()}
	if img, ok := l.cache.Get(key); ok {
		if l.logger != nil {
			l.logger.Debug("texture cache hit", "path", path)
		}
		return img, nil
	}
	src, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrapf(err, "decode %s", path)
	}
	img := Prepare(src, l.opts.MaxSide)
	l.cache.Add(key, img)
	if l.logger != nil {
		sb, b := src.Bounds(), img.Bounds()
		l.logger.Info("texture loaded",
			"path", path,
			"file_size", humanize.Bytes(uint64(fi.Size())),
			"source_pixels", humanize.Comma(int64(sb.Dx()*sb.Dy())),
			"width", b.Dx(),
			"height", b.Dy(),
		)
	}
	return img, nil
}
