/*
   BoldBriefing - autonomous news briefing agent
   Copyright (C) 2025  Unbewohnte (Kasyanov Nikolay Alexeevich)

   This program is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   This program is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Package sources looks up readable titles for citations that arrived with
// a placeholder title.
package sources

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/markusmobius/go-trafilatura"

	"Unbewohnte/BoldBriefing/internal/article"
)

const (
	DefaultUserAgent = "Mozilla/5.0 (compatible; BoldBriefing/1.0)"
	// DefaultAgent is the product token matched against robots.txt groups.
	DefaultAgent = "BoldBriefing"

	defaultTimeout      = 15 * time.Second
	defaultMaxBodyBytes = 2 << 20
)

var (
	ErrDisallowed = errors.New("disallowed by robots.txt")
	ErrProtected  = errors.New("page is behind bot protection")
	ErrNoTitle    = errors.New("no title found")
)

type Config struct {
	UserAgent string
	Agent     string
	Timeout   time.Duration
	// RequestsPerSecond per host. Zero means unlimited.
	RequestsPerSecond float64
	Burst             int
	MaxBodyBytes      int64
	HTTPClient        *http.Client
	Logger            *slog.Logger
}

type Resolver struct {
	client    *http.Client
	robots    *robotsChecker
	limiter   *hostLimiter
	userAgent string
	maxBody   int64
	logger    *slog.Logger
}

func New(conf Config) *Resolver {
	if conf.UserAgent == "" {
		conf.UserAgent = DefaultUserAgent
	}
	if conf.Agent == "" {
		conf.Agent = DefaultAgent
	}
	if conf.Timeout <= 0 {
		conf.Timeout = defaultTimeout
	}
	if conf.MaxBodyBytes <= 0 {
		conf.MaxBodyBytes = defaultMaxBodyBytes
	}
	if conf.Logger == nil {
		conf.Logger = slog.New(slog.DiscardHandler)
	}

	client := conf.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: conf.Timeout}
	}

	return &Resolver{
		client:    client,
		robots:    newRobotsChecker(client, conf.UserAgent, conf.Agent),
		limiter:   newHostLimiter(conf.RequestsPerSecond, conf.Burst),
		userAgent: conf.UserAgent,
		maxBody:   conf.MaxBodyBytes,
		logger:    conf.Logger,
	}
}

// Resolve returns a copy of sources in which placeholder titles are replaced
// by the cited page's title wherever it could be fetched.
func (r *Resolver) Resolve(ctx context.Context, sources []article.Source) []article.Source {
	out := make([]article.Source, len(sources))
	copy(out, sources)

	for i, s := range out {
		if s.Title != article.PlaceholderSourceTitle {
			continue
		}
		if ctx.Err() != nil {
			break
		}

		title, err := r.Title(ctx, s.URL)
		if err != nil {
			r.logger.Debug("Could not resolve source title", "url", s.URL, "error", err)
			continue
		}
		out[i].Title = title
	}
	return out
}

// Title fetches a page and extracts its title.
func (r *Resolver) Title(ctx context.Context, rawURL string) (string, error) {
	page, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if page.Scheme != "http" && page.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", page.Scheme)
	}

	if !r.robots.Allowed(ctx, page) {
		return "", ErrDisallowed
	}
	if err := r.limiter.Wait(ctx, page.Host); err != nil {
		return "", err
	}

	body, err := r.fetch(ctx, page)
	if err != nil {
		return "", err
	}
	if isProtectedPage(body) {
		return "", ErrProtected
	}

	if title := extractTitle(body, page); title != "" {
		return title, nil
	}
	return "", ErrNoTitle
}

func (r *Resolver) fetch(ctx context.Context, page *url.URL) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, page.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	r.setHeaders(req)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("load page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("load page: unexpected status %d", resp.StatusCode)
	}

	var reader io.Reader
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	case "deflate":
		fl := flate.NewReader(resp.Body)
		defer fl.Close()
		reader = fl
	default:
		reader = resp.Body
	}

	body, err := io.ReadAll(io.LimitReader(reader, r.maxBody))
	if err != nil {
		return nil, fmt.Errorf("read page: %w", err)
	}
	return body, nil
}

func (r *Resolver) setHeaders(req *http.Request) {
	headers := map[string]string{
		"User-Agent":                r.userAgent,
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language":           "en-US,en;q=0.8",
		"Accept-Encoding":           "gzip, deflate",
		"Connection":                "keep-alive",
		"Upgrade-Insecure-Requests": "1",
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
}

// extractTitle prefers trafilatura metadata and falls back to the document
// head.
func extractTitle(body []byte, page *url.URL) string {
	var sitename string
	result, err := trafilatura.Extract(bytes.NewReader(body), trafilatura.Options{
		OriginalURL: page,
	})
	if err == nil && result != nil {
		if title := cleanTitle(result.Metadata.Title); title != "" {
			return title
		}
		sitename = cleanTitle(result.Metadata.Sitename)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return sitename
	}
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		if title := cleanTitle(og); title != "" {
			return title
		}
	}
	if title := cleanTitle(doc.Find("title").First().Text()); title != "" {
		return title
	}

	return sitename
}

func cleanTitle(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isProtectedPage(body []byte) bool {
	s := string(body)
	return strings.Contains(s, "Checking your browser") ||
		strings.Contains(s, "DDoS protection by Cloudflare") ||
		strings.Contains(s, "cf-challenge")
}
