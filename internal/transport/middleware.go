package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// noisyPaths are high-frequency paths logged at Debug to keep Info clean.
var noisyPaths = map[string]bool{
	"/health": true,
	"/ws":     true,
}

func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if c.Request.Method == http.MethodOptions {
			return
		}

		level := slog.LevelInfo
		if noisyPaths[c.Request.URL.Path] {
			level = slog.LevelDebug
		}
		slog.Log(c.Request.Context(), level, "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// CORSMiddleware allows the configured origins; "*" allows any origin.
func CORSMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", IdempotencyHeader},
		ExposeHeaders: []string{"Content-Length", ReplayHeader},
		MaxAge:        12 * time.Hour,
	}
	if slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

const (
	IdempotencyHeader = "Idempotency-Key"
	ReplayHeader      = "Idempotent-Replay"
)

// ResponseCache stores recorded responses for idempotent replay.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type recordedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// IdempotencyMiddleware replays the first successful response of a POST for
// any repeat carrying the same Idempotency-Key on the same path, for ttl.
// Failed responses are not recorded, so a client may retry them.
func IdempotencyMiddleware(cache ResponseCache, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyHeader)
		if key == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := c.Request.Method + " " + c.Request.URL.Path + " " + key

		if data, err := cache.Get(ctx, cacheKey); err == nil {
			var rec recordedResponse
			if err := json.Unmarshal(data, &rec); err == nil {
				c.Header(ReplayHeader, "true")
				c.Data(rec.Status, rec.ContentType, rec.Body)
				c.Abort()
				return
			}
		}

		rw := &recordingWriter{ResponseWriter: c.Writer}
		c.Writer = rw
		c.Next()

		status := rw.Status()
		if status < 200 || status >= 300 {
			return
		}
		data, err := json.Marshal(recordedResponse{
			Status:      status,
			ContentType: rw.Header().Get("Content-Type"),
			Body:        rw.body.Bytes(),
		})
		if err != nil {
			return
		}
		if err := cache.Set(ctx, cacheKey, data, ttl); err != nil {
			slog.WarnContext(ctx, "failed to record idempotent response", "path", c.Request.URL.Path, "error", err)
		}
	}
}

// recordingWriter tees the response body so it can be cached.
type recordingWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *recordingWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
