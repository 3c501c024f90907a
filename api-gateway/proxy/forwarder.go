// Package proxy forwards gateway requests to the backing services.
package proxy

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/yashrajoria/marketplace/services/common/auth"
	"github.com/yashrajoria/marketplace/services/common/logger"
)

// Identity headers set for downstream services. Client supplied values are
// always dropped.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

var hopByHop = map[string]bool{
	"connection":          true,
	"keep-alive":          true,
	"proxy-authenticate":  true,
	"proxy-authorization": true,
	"te":                  true,
	"trailers":            true,
	"transfer-encoding":   true,
	"upgrade":             true,
}

type Forwarder struct {
	client *http.Client
	log    *zap.Logger
}

// NewForwarder returns a forwarder whose client is traced with otelhttp.
func NewForwarder(timeout time.Duration, log *zap.Logger) *Forwarder {
	return &Forwarder{
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log: log,
	}
}

// To proxies to targetBase plus the "*any" wildcard of the route.
func (f *Forwarder) To(targetBase string) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetURL := strings.TrimSuffix(targetBase, "/") + c.Param("any")
		if c.Request.URL.RawQuery != "" {
			targetURL += "?" + c.Request.URL.RawQuery
		}

		req, err := http.NewRequestWithContext(c.Request.Context(), c.Request.Method, targetURL, c.Request.Body)
		if err != nil {
			f.log.Error("Failed to create forward request", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create request"})
			return
		}

		for k, v := range c.Request.Header {
			if hopByHop[strings.ToLower(k)] {
				continue
			}
			req.Header[k] = v
		}
		req.Header.Del(HeaderUserID)
		req.Header.Del(HeaderUserRole)
		if p, ok := auth.PrincipalFrom(c); ok {
			req.Header.Set(HeaderUserID, p.ID)
			req.Header.Set(HeaderUserRole, p.Role)
		}
		if id := c.GetString(logger.RequestIDKey); id != "" {
			req.Header.Set("X-Request-ID", id)
		}

		resp, err := f.client.Do(req)
		if err != nil {
			f.log.Error("Failed to forward request", zap.String("url", targetURL), zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "service unreachable"})
			return
		}
		defer resp.Body.Close()

		for k, v := range resp.Header {
			lower := strings.ToLower(k)
			// CORS is answered by the gateway itself
			if strings.HasPrefix(lower, "access-control-") || hopByHop[lower] {
				continue
			}
			c.Header(k, strings.Join(v, ","))
		}
		c.Status(resp.StatusCode)

		if _, err := io.Copy(c.Writer, resp.Body); err != nil {
			f.log.Warn("Failed to copy response body", zap.Error(err))
		}
	}
}
