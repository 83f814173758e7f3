package routing

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"golang.org/x/sync/singleflight"

	"github.com/pelyams/car_catalog_service/internal/domain"
	"github.com/pelyams/car_catalog_service/internal/ports"
)

const (
	CacheStatusHeader = "X-Cache"
	meterName         = "github.com/pelyams/car_catalog_service/internal/routing"
)

// ResponseCacher wraps read handlers and serves their successful responses
// from a ports.ResponseCache. Concurrent misses on the same key share a single
// render.
type ResponseCacher struct {
	cache  ports.ResponseCache
	group  singleflight.Group
	hits   metric.Int64Counter
	misses metric.Int64Counter
}

func NewResponseCacher(cache ports.ResponseCache) *ResponseCacher {
	meter := otel.Meter(meterName)
	hits, err := meter.Int64Counter("catalog.cache.hits",
		metric.WithDescription("Read responses served from the response cache"),
		metric.WithUnit("{response}"))
	if err != nil {
		hits = noop.Int64Counter{}
	}
	misses, err := meter.Int64Counter("catalog.cache.misses",
		metric.WithDescription("Read responses rendered because the cache had no entry"),
		metric.WithUnit("{response}"))
	if err != nil {
		misses = noop.Int64Counter{}
	}
	return &ResponseCacher{cache: cache, hits: hits, misses: misses}
}

// ResponseKey is the cache key of a request: method, path and the query
// string with parameters sorted, hashed to a fixed length.
func ResponseKey(r *http.Request) string {
	signature := r.Method + " " + r.URL.Path + "?" + r.URL.Query().Encode()
	hash := sha256.Sum256([]byte(signature))
	return "responses:" + hex.EncodeToString(hash[:8])
}

type renderedResponse struct {
	status int
	header http.Header
	body   []byte
	errs   []error
}

// bufferedWriter captures a handler's response so it can be cached and
// replayed.
type bufferedWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newBufferedWriter() *bufferedWriter {
	return &bufferedWriter{header: make(http.Header)}
}

func (b *bufferedWriter) Header() http.Header { return b.header }

func (b *bufferedWriter) WriteHeader(status int) {
	if b.status == 0 {
		b.status = status
	}
}

func (b *bufferedWriter) Write(p []byte) (int, error) {
	if b.status == 0 {
		b.status = http.StatusOK
	}
	return b.body.Write(p)
}

// Cached serves GET requests from the cache for ttl after the first
// successful (200) render. Other methods and statuses pass through uncached.
func (c *ResponseCacher) Cached(ttl time.Duration, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || ttl <= 0 {
			next(w, r)
			return
		}
		ctx := r.Context()
		errs := domain.ErrorContainerFrom(ctx)
		route := attribute.String("http.route", r.URL.Path)
		key := ResponseKey(r)

		cached, err := c.cache.Get(ctx, key)
		if err == nil {
			c.hits.Add(ctx, 1, metric.WithAttributes(route))
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set(CacheStatusHeader, "HIT")
			w.WriteHeader(http.StatusOK)
			w.Write(cached)
			return
		}
		if !errors.Is(err, domain.ErrNotFound) {
			errs.Add(err)
		}
		c.misses.Add(ctx, 1, metric.WithAttributes(route))

		// The render is shared by every request waiting on key, so it must not
		// inherit the cancellation of whichever request started it.
		ch := c.group.DoChan(key, func() (any, error) {
			renderErrs := domain.NewErrorContainer()
			renderCtx := domain.WithErrorContainer(context.WithoutCancel(ctx), renderErrs)
			buf := newBufferedWriter()
			next(buf, r.WithContext(renderCtx))
			if buf.status == 0 {
				buf.status = http.StatusOK
			}
			if buf.status == http.StatusOK {
				if putErr := c.cache.Put(renderCtx, key, buf.body.Bytes(), ttl); putErr != nil {
					renderErrs.Add(putErr)
				}
			}
			return &renderedResponse{
				status: buf.status,
				header: buf.header,
				body:   buf.body.Bytes(),
				errs:   renderErrs.Unwrap(),
			}, nil
		})

		var res *renderedResponse
		select {
		case result := <-ch:
			res = result.Val.(*renderedResponse)
		case <-ctx.Done():
			errs.Add(fmt.Errorf("response cache: request ended while waiting for render: %w", ctx.Err()))
			return
		}
		errs.Add(res.errs...)

		for k, values := range res.header {
			w.Header()[k] = append([]string(nil), values...)
		}
		w.Header().Set(CacheStatusHeader, "MISS")
		w.WriteHeader(res.status)
		w.Write(res.body)
	}
}
