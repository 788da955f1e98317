package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

var compress = chimiddleware.Compress(gzip.DefaultCompression,
	"text/html",
	"text/plain",
	"application/json",
)

type gzipReadCloser struct {
	*gzip.Reader
	body io.ReadCloser
}

func (g gzipReadCloser) Close() error {
	if err := g.Reader.Close(); err != nil {
		_ = g.body.Close()
		return err
	}
	return g.body.Close()
}

// GzipMiddleware распаковывает тело запроса с Content-Encoding: gzip
// и сжимает ответ, если клиент принимает gzip.
func GzipMiddleware(next http.Handler) http.Handler {
	decompress := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.Header.Get("Content-Encoding"), "gzip") {
			gr, err := gzip.NewReader(r.Body)
			if err != nil {
				http.Error(w, "invalid gzip body", http.StatusBadRequest)
				return
			}
			r.Body = gzipReadCloser{Reader: gr, body: r.Body}
			r.Header.Del("Content-Encoding")
			r.Header.Del("Content-Length")
			r.ContentLength = -1
		}
		next.ServeHTTP(w, r)
	})

	return compress(decompress)
}
