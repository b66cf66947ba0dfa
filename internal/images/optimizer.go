// Package images resolves remote image URLs to locally cached WebP files.
//
// Resolve never fails: any problem along the way is logged and answered with
// Placeholder, so a broken logo URL never breaks a page build.
package images

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/pagebuilder/internal/logfields"
	"git.home.luguber.info/inful/pagebuilder/internal/metrics"
	"git.home.luguber.info/inful/pagebuilder/internal/observability"
)

// Placeholder is a 1x1 transparent GIF returned whenever an image cannot be
// resolved.
const Placeholder = "data:image/gif;base64,R0lGODlhAQABAAAAACH5BAEKAAEALAAAAAABAAEAAAICTAEAOw=="

const (
	DefaultPublicPrefix = "/global-assets/default/logos"
	DefaultTimeout      = 30 * time.Second
	DefaultMaxBytes     = 20 << 20
	DefaultUserAgent    = "pagebuilder/1.0"
)

// Transcoder converts fetched image bytes to WebP.
type Transcoder interface {
	Transcode(ctx context.Context, src []byte) ([]byte, error)
}

// Options configures an Optimizer. CacheDir is required.
type Options struct {
	CacheDir     string
	PublicPrefix string
	Timeout      time.Duration
	MaxBytes     int64
	UserAgent    string
}

// Optimizer fetches, transcodes and caches images by canonical file name.
type Optimizer struct {
	opts       Options
	client     *http.Client
	transcoder Transcoder
	recorder   metrics.Recorder
}

// NewOptimizer returns an Optimizer. A nil client gets one with opts.Timeout;
// a nil transcoder uses WebPTranscoder with no resizing.
func NewOptimizer(opts Options, client *http.Client, t Transcoder, rec metrics.Recorder) *Optimizer {
	if opts.PublicPrefix == "" {
		opts.PublicPrefix = DefaultPublicPrefix
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	if t == nil {
		t = WebPTranscoder{}
	}
	return &Optimizer{opts: opts, client: client, transcoder: t, recorder: metrics.OrNoop(rec)}
}

// CanonicalName is the last path segment of rawURL without query or fragment.
func CanonicalName(rawURL string) string {
	s := rawURL
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}
	return s
}

// CachePath returns the file a URL with the given canonical name is cached at.
func (o *Optimizer) CachePath(name string) string {
	return filepath.Join(o.opts.CacheDir, name+".webp")
}

// PublicURL returns the site-relative URL of a cached image.
func (o *Optimizer) PublicURL(name string) string {
	return path.Join(o.opts.PublicPrefix, name+".webp")
}

// Resolve returns the public URL of the WebP version of rawURL, fetching and
// transcoding it on a cache miss. It returns Placeholder on any failure.
func (o *Optimizer) Resolve(ctx context.Context, rawURL string) string {
	name := CanonicalName(rawURL)
	if name == "" {
		return o.placeholder(ctx, rawURL, "image URL has no file name", nil)
	}

	if _, err := os.Stat(o.CachePath(name)); err == nil {
		o.recorder.IncImageResult(metrics.ImageCacheHit)
		observability.DebugContext(ctx, "Image cache hit", logfields.URL(rawURL))
		return o.PublicURL(name)
	}

	lower := strings.ToLower(rawURL)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return o.placeholder(ctx, rawURL, "Invalid image URL", nil)
	}

	data, err := o.fetch(ctx, rawURL)
	if err != nil {
		return o.placeholder(ctx, rawURL, "Image fetch failed", err)
	}

	webp, err := o.transcoder.Transcode(ctx, data)
	if err != nil {
		return o.placeholder(ctx, rawURL, "Image transcode failed", err)
	}
	if err := writeAtomic(o.opts.CacheDir, o.CachePath(name), webp); err != nil {
		return o.placeholder(ctx, rawURL, "Image cache write failed", err)
	}

	o.recorder.IncImageResult(metrics.ImageFetched)
	observability.InfoContext(ctx, "Image optimized", logfields.URL(rawURL), logfields.Path(o.CachePath(name)))
	return o.PublicURL(name)
}

func (o *Optimizer) placeholder(ctx context.Context, rawURL, msg string, err error) string {
	o.recorder.IncImageResult(metrics.ImagePlaceholder)
	if err != nil {
		observability.WarnContext(ctx, msg, logfields.URL(rawURL), logfields.Error(err))
	} else {
		observability.WarnContext(ctx, msg, logfields.URL(rawURL))
	}
	return Placeholder
}

func (o *Optimizer) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, o.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.ImageError("build image request").WithCause(err).Build()
	}
	req.Header.Set("User-Agent", o.opts.UserAgent)
	req.Header.Set("Accept", "image/*")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, errors.NetworkError("image request failed").WithCause(err).Build()
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.ImageError(fmt.Sprintf("unexpected status %d", resp.StatusCode)).
			WithContext("status", resp.StatusCode).
			Build()
	}
	ct := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "image/") {
		return nil, errors.ImageError("response is not an image").WithContext("content_type", ct).Build()
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, o.opts.MaxBytes+1))
	if err != nil {
		return nil, errors.NetworkError("read image body").WithCause(err).Build()
	}
	if int64(len(data)) > o.opts.MaxBytes {
		return nil, errors.ImageError("image exceeds size limit").WithContext("max_bytes", o.opts.MaxBytes).Build()
	}
	return data, nil
}

// writeAtomic writes data to a temp file in dir and renames it over dst.
func writeAtomic(dir, dst string, data []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".img-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, dst); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
