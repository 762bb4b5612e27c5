package receipt

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	appErrors "github.com/carolinadevia11/coparently/errors"
	"github.com/carolinadevia11/coparently/internal/auth"
	"github.com/carolinadevia11/coparently/logging"
)

// DefaultHandleTTL is how long a fetched receipt stays on disk before it is
// released automatically.
const DefaultHandleTTL = 60 * time.Second

// Handle is a scoped local copy of a fetched receipt. It is released after a
// fixed delay regardless of how the viewing action went; Release may also be
// called early and is safe to call more than once.
type Handle struct {
	path    string
	timer   *time.Timer
	release sync.Once
}

// Path returns the local file holding the receipt bytes.
func (h *Handle) Path() string {
	return h.path
}

// Release removes the local copy and cancels the auto-release timer.
func (h *Handle) Release() {
	h.release.Do(func() {
		if h.timer != nil {
			h.timer.Stop()
		}
		if err := os.Remove(h.path); err != nil && !os.IsNotExist(err) {
			logging.Logger.WithError(err).Warn("failed to remove receipt copy")
		}
	})
}

// Retriever downloads receipt files from the authenticated API.
type Retriever struct {
	baseURL string
	http    *http.Client
	ttl     time.Duration
	logger  *logrus.Logger
}

func NewRetriever(baseURL string) *Retriever {
	return &Retriever{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		ttl:     DefaultHandleTTL,
		logger:  logging.Logger,
	}
}

// WithTTL overrides the handle lifetime.
func (r *Retriever) WithTTL(ttl time.Duration) *Retriever {
	r.ttl = ttl
	return r
}

// Fetch downloads the receipt behind ref with the given credential and
// materializes it as a short-lived local handle. Stored references may be
// absolute URLs or root-relative paths; the latter are resolved against the
// API base. Missing credential, missing reference and non-2xx responses each
// fail distinctly; no request is issued without a credential.
func (r *Retriever) Fetch(ctx context.Context, ref string, cred auth.Credential) (*Handle, error) {
	if err := cred.Check(); err != nil {
		return nil, err
	}
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: no receipt attached to this expense", appErrors.ErrNotFound)
	}

	target := ref
	if !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://") {
		target = r.baseURL + "/" + strings.TrimLeft(ref, "/")
	}

	reqID := uuid.New().String()
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build receipt request: %w", err)
	}
	req.Header.Set("Authorization", cred.Authorization())

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErrors.ErrRetrieval, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		r.logger.WithFields(logrus.Fields{
			"req_id": reqID,
			"status": resp.StatusCode,
			"url":    target,
		}).Warn("receipt download rejected")
		return nil, fmt.Errorf("%w: receipt download failed with status %d", appErrors.ErrRetrieval, resp.StatusCode)
	}

	ext := path.Ext(strings.SplitN(target, "?", 2)[0])
	tmp, err := os.CreateTemp("", "receipt-*"+ext)
	if err != nil {
		return nil, fmt.Errorf("stage receipt: %w", err)
	}
	n, err := io.Copy(tmp, resp.Body)
	if err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("stage receipt: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("stage receipt: %w", err)
	}

	h := &Handle{path: tmp.Name()}
	h.timer = time.AfterFunc(r.ttl, h.Release)

	r.logger.WithFields(logrus.Fields{
		"req_id":     reqID,
		"bytes":      n,
		"elapsed_ms": time.Since(start).Milliseconds(),
	}).Info("receipt staged for viewing")

	return h, nil
}
