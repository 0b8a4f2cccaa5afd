// Package references resolves the reference imagery attached to a model
// call: the subject photo, the business logo, and style reference images.
// Every reference produces an explicit per-item outcome; a failed fetch
// skips that reference instead of failing the job.
package references

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/IkonicR/ads-x-create-v2-sub001/internal/domain"
)

// Reference kinds, in inclusion priority order.
const (
	KindSubject = "subject"
	KindLogo    = "logo"
	KindStyle   = "style"
)

// MaxReferenceImages caps how many references accompany one model call.
const MaxReferenceImages = 6

const fetchTimeout = 10 * time.Second

// Ref identifies one reference image to include with a model call.
type Ref struct {
	Kind string
	URL  string
}

// Resolution records the outcome for one reference. Skipped resolutions
// carry a reason and no data.
type Resolution struct {
	Ref      Ref
	Data     []byte
	MIMEType string
	Skipped  bool
	Reason   string
}

// Collect assembles the reference list for a job: subject photo first, then
// the logo, then style references, truncated to MaxReferenceImages.
func Collect(b *domain.Business, subject *domain.Subject, style *domain.Style) []Ref {
	refs := []Ref{}
	if subject != nil && strings.TrimSpace(subject.ImageURL) != "" {
		refs = append(refs, Ref{Kind: KindSubject, URL: subject.ImageURL})
	}
	if b != nil && strings.TrimSpace(b.LogoURL) != "" {
		refs = append(refs, Ref{Kind: KindLogo, URL: b.LogoURL})
	}
	if style != nil {
		for _, u := range style.ReferenceImages {
			if strings.TrimSpace(u) != "" {
				refs = append(refs, Ref{Kind: KindStyle, URL: u})
			}
		}
	}
	if len(refs) > MaxReferenceImages {
		refs = refs[:MaxReferenceImages]
	}
	return refs
}

// Fetcher downloads reference images with a bounded per-fetch timeout, a
// host allowlist, and a size cap.
type Fetcher struct {
	Client       *http.Client
	AllowedHosts []string
	MaxBytes     int64
	Logger       zerolog.Logger
}

func NewFetcher(allowedHosts []string, maxBytes int64, logger zerolog.Logger) *Fetcher {
	return &Fetcher{
		Client:       &http.Client{Timeout: fetchTimeout},
		AllowedHosts: allowedHosts,
		MaxBytes:     maxBytes,
		Logger:       logger,
	}
}

// Resolve fetches every reference and returns one Resolution per input, in
// input order.
func (f *Fetcher) Resolve(ctx context.Context, refs []Ref) []Resolution {
	out := make([]Resolution, 0, len(refs))
	for _, ref := range refs {
		res := f.resolveOne(ctx, ref)
		if res.Skipped {
			f.Logger.Warn().
				Str("kind", ref.Kind).
				Str("url", ref.URL).
				Str("reason", res.Reason).
				Msg("reference skipped")
		}
		out = append(out, res)
	}
	return out
}

func (f *Fetcher) resolveOne(ctx context.Context, ref Ref) Resolution {
	skipped := func(reason string) Resolution {
		return Resolution{Ref: ref, Skipped: true, Reason: reason}
	}

	u, err := url.Parse(ref.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return skipped("unsupported url")
	}
	if !f.hostAllowed(u.Hostname()) {
		return skipped("host not allowed")
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref.URL, nil)
	if err != nil {
		return skipped("build request: " + err.Error())
	}
	resp, err := f.client().Do(req)
	if err != nil {
		return skipped("fetch: " + err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return skipped(fmt.Sprintf("unexpected status %d", resp.StatusCode))
	}

	limit := f.MaxBytes
	if limit <= 0 {
		limit = 8 << 20
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return skipped("read body: " + err.Error())
	}
	if int64(len(data)) > limit {
		return skipped("reference too large")
	}
	if len(data) == 0 {
		return skipped("empty body")
	}

	mimeType := strings.TrimSpace(resp.Header.Get("Content-Type"))
	if idx := strings.Index(mimeType, ";"); idx >= 0 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return skipped("not an image")
	}

	return Resolution{Ref: ref, Data: data, MIMEType: mimeType}
}

func (f *Fetcher) hostAllowed(host string) bool {
	if len(f.AllowedHosts) == 0 {
		return true
	}
	for _, h := range f.AllowedHosts {
		if strings.EqualFold(h, host) {
			return true
		}
	}
	return false
}

func (f *Fetcher) client() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	return http.DefaultClient
}
