package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/cppla/yatube/pagecache"
)

type captureWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// CachePage serves GET responses from store for ttl after the first
// successful render. Other methods pass through. Concurrent misses on the
// same URI render once and share the result.
func CachePage(store pagecache.Store, ttl time.Duration, log *zap.SugaredLogger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	var group singleflight.Group
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}
		key := pagecache.Key(c.Request.URL.RequestURI())
		if raw, ok := store.Get(c.Request.Context(), key); ok {
			if page, err := pagecache.Decode(raw); err == nil {
				writePage(c, page)
				return
			}
			log.Warnw("discarding unreadable cached page", "key", key)
		}

		rendered := false
		v, _, _ := group.Do(key, func() (interface{}, error) {
			rendered = true
			w := &captureWriter{ResponseWriter: c.Writer}
			c.Writer = w
			c.Next()
			c.Writer = w.ResponseWriter

			page := pagecache.Page{
				Status:      w.Status(),
				ContentType: w.Header().Get("Content-Type"),
				Body:        w.body.Bytes(),
			}
			if page.Status == http.StatusOK {
				if raw, err := page.Encode(); err == nil {
					store.Set(c.Request.Context(), key, raw, ttl)
				}
			}
			return page, nil
		})
		if rendered {
			return
		}
		writePage(c, v.(pagecache.Page))
	}
}

func writePage(c *gin.Context, page pagecache.Page) {
	c.Data(page.Status, page.ContentType, page.Body)
	c.Abort()
}
