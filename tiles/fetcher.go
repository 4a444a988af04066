package tiles

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Timeouts bound a single fetch attempt. Connect limits dialing and the TLS
// handshake and Transfer limits the wait for response headers. The whole
// attempt, body included, must finish within Connect+Transfer; Transfer is
// not an idle timeout between reads.
type Timeouts struct {
	Connect  time.Duration
	Transfer time.Duration
}

var DefaultTimeouts = Timeouts{Connect: 3 * time.Second, Transfer: 3 * time.Second}

// Transport fetches raw tile bytes. One call is one attempt; retries are
// applied by the Orchestrator.
type Transport interface {
	Get(ctx context.Context, url string, to Timeouts) ([]byte, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, url string, to Timeouts) ([]byte, error)

func (f TransportFunc) Get(ctx context.Context, url string, to Timeouts) ([]byte, error) {
	return f(ctx, url, to)
}

// StatusError is a non-200 tile response.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tile HTTP %d for %s", e.Code, e.URL)
}

// HTTPTransport fetches tiles over HTTP, optionally rate limited and backed
// by an on-disk cache.
type HTTPTransport struct {
	Limiter   *rate.Limiter
	CacheDir  string // empty disables the cache
	UserAgent string
	Headers   map[string]string

	mu      sync.Mutex
	clients map[Timeouts]*http.Client
}

// NewHTTPTransport builds a transport limited to rps requests per second
// (rps <= 0 means unlimited).
func NewHTTPTransport(cacheDir string, rps float64, burst int) (*HTTPTransport, error) {
	if cacheDir != "" {
		if err := os.MkdirAll(cacheDir, 0o755); err != nil {
			return nil, err
		}
	}
	lim := rate.Limit(rps)
	if rps <= 0 {
		lim = rate.Inf
	}
	if burst < 1 {
		burst = 1
	}
	return &HTTPTransport{
		Limiter:   rate.NewLimiter(lim, burst),
		CacheDir:  cacheDir,
		UserAgent: "staticmap/1.0 (+tiles; https://openstreetmap.org)",
	}, nil
}

func (f *HTTPTransport) client(to Timeouts) *http.Client {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.clients[to]; ok {
		return c
	}
	if f.clients == nil {
		f.clients = make(map[Timeouts]*http.Client)
	}
	dialer := &net.Dialer{Timeout: to.Connect}
	c := &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           dialer.DialContext,
			TLSHandshakeTimeout:   to.Connect,
			ResponseHeaderTimeout: to.Transfer,
			MaxIdleConnsPerHost:   8,
		},
	}
	f.clients[to] = c
	return c
}

func (f *HTTPTransport) cachePath(u string) string {
	sum := sha1.Sum([]byte(u))
	hexid := hex.EncodeToString(sum[:])
	ext := ".tile"
	if i := strings.IndexByte(u, '?'); i >= 0 {
		u = u[:i]
	}
	if j := strings.LastIndexByte(u, '.'); j >= 0 && j > len(u)-6 {
		ext = u[j:]
		if len(ext) > 5 || strings.ContainsRune(ext, '/') {
			ext = ".tile"
		}
	}
	return filepath.Join(f.CacheDir, hexid[:2], hexid[2:4], hexid+ext)
}

// Get performs one attempt: cache lookup, then a single HTTP request whose
// whole exchange must finish within to.Connect+to.Transfer.
func (f *HTTPTransport) Get(ctx context.Context, url string, to Timeouts) ([]byte, error) {
	var cp string
	if f.CacheDir != "" {
		cp = f.cachePath(url)
		if b, err := os.ReadFile(cp); err == nil {
			Logger().Debug("tile cache hit", "url", url)
			return b, nil
		}
	}

	if f.Limiter != nil {
		if err := f.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	actx, cancel := withTimeout(ctx, to.Connect+to.Transfer)
	defer cancel()

	req, err := http.NewRequestWithContext(actx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}
	for k, v := range f.Headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client(to).Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 2<<10))
		return nil, &StatusError{Code: resp.StatusCode, URL: url}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if cp != "" {
		if err := writeCache(cp, body); err != nil {
			Logger().Warn("tile cache write failed", "path", cp, "err", err)
		}
	}
	return body, nil
}

func writeCache(cp string, body []byte) error {
	if err := os.MkdirAll(filepath.Dir(cp), 0o755); err != nil {
		return err
	}
	tmp := cp + ".tmp"
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, cp)
}
