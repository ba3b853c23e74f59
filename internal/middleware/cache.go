// Package middleware contains http middlewares of the service.
package middleware

import (
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// cacheSize bounds count of cached paths.
const cacheSize = 128

type entry struct {
	code    int
	header  http.Header
	content []byte
}

// Cached responds with the handler's response saved for ttl. Responses are cached by path, query is ignored.
func Cached(ttl time.Duration, handler http.HandlerFunc) http.HandlerFunc {
	storage := expirable.NewLRU[string, entry](cacheSize, nil, ttl)

	return func(w http.ResponseWriter, r *http.Request) {
		e, ok := storage.Get(r.URL.Path)
		if !ok {
			c := httptest.NewRecorder()
			handler(c, r)

			e = entry{
				code:    c.Code,
				header:  c.Header().Clone(),
				content: c.Body.Bytes(),
			}

			storage.Add(r.URL.Path, e)
		}

		for k, v := range e.header {
			w.Header()[k] = v
		}

		w.WriteHeader(e.code)
		_, _ = w.Write(e.content)
	}
}
