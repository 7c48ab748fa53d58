// Package gzippedhttp holds the devserver's compression middleware: gzip
// responses for clients that accept them and inflate gzip request bodies.
package gzippedhttp

import (
	"compress/gzip"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
)

const encodingGzip = "gzip"

var gzipWriters = sync.Pool{
	New: func() interface{} {
		zw, _ := gzip.NewWriterLevel(nil, gzip.BestSpeed)
		return zw
	},
}

// inflatingBody replaces a gzip request body; closing it closes the original.
type inflatingBody struct {
	raw io.ReadCloser
	zr  *gzip.Reader
}

func newInflatingBody(raw io.ReadCloser) (*inflatingBody, error) {
	zr, err := gzip.NewReader(raw)
	if err != nil {
		return nil, err
	}

	return &inflatingBody{raw: raw, zr: zr}, nil
}

func (b *inflatingBody) Read(p []byte) (int, error) {
	return b.zr.Read(p)
}

func (b *inflatingBody) Close() error {
	return errors.Join(b.zr.Close(), b.raw.Close())
}

// deflatingWriter compresses everything the handler writes. Encoding headers
// go out with the status line, whichever status it is.
type deflatingWriter struct {
	http.ResponseWriter
	zw      *gzip.Writer
	started bool
}

func newDeflatingWriter(w http.ResponseWriter) *deflatingWriter {
	zw := gzipWriters.Get().(*gzip.Writer)
	zw.Reset(w)

	return &deflatingWriter{ResponseWriter: w, zw: zw}
}

func (d *deflatingWriter) WriteHeader(statusCode int) {
	if d.started {
		return
	}
	d.started = true

	header := d.ResponseWriter.Header()
	header.Set("Content-Encoding", encodingGzip)
	header.Add("Vary", "Accept-Encoding")
	header.Del("Content-Length")
	d.ResponseWriter.WriteHeader(statusCode)
}

func (d *deflatingWriter) Write(p []byte) (int, error) {
	d.WriteHeader(http.StatusOK)

	return d.zw.Write(p)
}

// finish terminates the gzip stream. A handler that wrote nothing leaves the
// response untouched so net/http can still send its default one.
func (d *deflatingWriter) finish() error {
	defer gzipWriters.Put(d.zw)

	if !d.started {
		d.zw.Reset(io.Discard)
		return nil
	}

	return d.zw.Close()
}

// GzipResponse compresses responses for requests that accept gzip.
func GzipResponse(h http.Handler) http.Handler {
	return http.HandlerFunc(func(response http.ResponseWriter, request *http.Request) {
		if !strings.Contains(request.Header.Get("Accept-Encoding"), encodingGzip) {
			h.ServeHTTP(response, request)
			return
		}

		deflating := newDeflatingWriter(response)
		defer func() {
			_ = deflating.finish()
		}()

		h.ServeHTTP(deflating, request)
	})
}

// UngzipRequest inflates request bodies sent with "Content-Encoding: gzip".
// A body that is not valid gzip is answered with 400.
func UngzipRequest(h http.Handler) http.Handler {
	return http.HandlerFunc(func(response http.ResponseWriter, request *http.Request) {
		if strings.Contains(request.Header.Get("Content-Encoding"), encodingGzip) {
			body, err := newInflatingBody(request.Body)
			if err != nil {
				response.WriteHeader(http.StatusBadRequest)
				return
			}
			request.Body = body
			defer body.Close()
		}

		h.ServeHTTP(response, request)
	})
}
