// Package images maintains a local cache of card artwork. Remote image
// references are downloaded at most once per process and written atomically,
// so interrupted runs never leave half-written files behind.
package images

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/collectorking/collectorking/internal/transport"
	"github.com/collectorking/collectorking/pkg/errors"
	"github.com/collectorking/collectorking/pkg/logging"
)

const (
	// MaxPerCard caps how many images are cached for a single record.
	MaxPerCard = 3

	// defaultExt is used when the remote reference carries no extension.
	defaultExt = ".jpg"

	downloadTimeout = 30 * time.Second
)

// Cache downloads and stores card images under a single directory. Local
// file names are derived from the set code and image index, so repeated
// runs reuse what is already on disk.
type Cache struct {
	dir    string
	client *transport.Client

	mu      sync.Mutex
	once    map[string]*sync.Once
	results map[string]string
}

// Option configures a Cache.
type Option func(*Cache)

// WithTransport replaces the HTTP client used for downloads.
func WithTransport(t *transport.Client) Option {
	return func(c *Cache) {
		c.client = t
	}
}

// New creates a Cache rooted at dir. The directory is created on first
// download, not here.
func New(dir string, opts ...Option) *Cache {
	c := &Cache{
		dir:     dir,
		client:  transport.New(transport.WithTimeout(downloadTimeout)),
		once:    make(map[string]*sync.Once),
		results: make(map[string]string),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dir returns the cache root directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Fetch ensures local copies of up to MaxPerCard remote references for a
// set code and returns their paths. A reference that cannot be downloaded
// is skipped, not fatal; only cancellation aborts the whole fetch.
func (c *Cache) Fetch(ctx context.Context, setCode string, refs []string) ([]string, error) {
	logger := logging.Ctx(ctx)

	paths := make([]string, 0, MaxPerCard)
	for i, ref := range refs {
		if i == MaxPerCard {
			break
		}
		if ctx.Err() != nil {
			return paths, errors.ErrCanceled
		}

		name := LocalName(setCode, i, ref)
		local, err := c.fetchOne(ctx, name, ref)
		if err != nil {
			if errors.IsCanceled(err) {
				return paths, err
			}
			logger.Warn().
				Str("set_code", setCode).
				Str("url", ref).
				Err(err).
				Msg("Image download failed, skipping")
			continue
		}
		paths = append(paths, local)
	}
	return paths, nil
}

// fetchOne downloads a single reference at most once per process. Later
// callers for the same local name get the first attempt's outcome.
func (c *Cache) fetchOne(ctx context.Context, name, ref string) (string, error) {
	local := filepath.Join(c.dir, name)

	// A file left by a previous run counts as cached.
	if _, err := os.Stat(local); err == nil {
		return local, nil
	}

	c.mu.Lock()
	once, ok := c.once[name]
	if !ok {
		once = &sync.Once{}
		c.once[name] = once
	}
	c.mu.Unlock()

	var downloadErr error
	once.Do(func() {
		if err := c.download(ctx, ref, local); err != nil {
			downloadErr = err
			return
		}
		c.mu.Lock()
		c.results[name] = local
		c.mu.Unlock()
	})
	if downloadErr != nil {
		return "", downloadErr
	}

	c.mu.Lock()
	stored, ok := c.results[name]
	c.mu.Unlock()
	if !ok {
		return "", errors.NewIOError("download", ref, fmt.Errorf("previous attempt failed"))
	}
	return stored, nil
}

// download writes the remote image to a temp file and renames it into
// place, so a crash mid-transfer never leaves a partial image.
func (c *Cache) download(ctx context.Context, ref, local string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return errors.WrapIO("create request", ref, err)
	}
	req.Header.Set("Accept", "image/*")

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.IsCanceled(err) || ctx.Err() != nil {
			return errors.ErrCanceled
		}
		return errors.WrapIO("download", ref, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return &errors.APIError{
			Service:    "image host",
			StatusCode: resp.StatusCode,
			Endpoint:   ref,
			Message:    "unexpected status",
		}
	}

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return errors.WrapIO("create directory", c.dir, err)
	}

	tmp, err := os.CreateTemp(c.dir, ".image_*")
	if err != nil {
		return errors.WrapIO("create temp file", c.dir, err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		if ctx.Err() != nil {
			return errors.ErrCanceled
		}
		return errors.WrapIO("write", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errors.WrapIO("close", tmpName, err)
	}
	if err := os.Rename(tmpName, local); err != nil {
		_ = os.Remove(tmpName)
		return errors.WrapIO("rename", local, err)
	}
	return nil
}

// LocalName derives the cache file name for the index-th image of a set
// code. Path separators and other unsafe characters in the code become
// underscores; the extension follows the remote reference, defaulting to
// .jpg when it has none.
func LocalName(setCode string, index int, ref string) string {
	return fmt.Sprintf("%s_%d%s", sanitize(setCode), index+1, extOf(ref))
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		default:
			return '_'
		}
	}, strings.TrimSpace(s))
}

func extOf(ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return defaultExt
	}
	if ext := path.Ext(u.Path); ext != "" && len(ext) <= 5 {
		return strings.ToLower(ext)
	}
	return defaultExt
}
