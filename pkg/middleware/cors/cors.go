package cors

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/theshushant/gyaan-buddy-combined-sub001/pkg/config"
)

const (
	allowHeaders = "Authorization, Content-Type, X-Requested-With, X-Request-ID"
	allowMethods = "GET, POST, PUT, DELETE, OPTIONS"
)

// New returns a CORS middleware. An empty origin list allows any origin.
func New(cfg config.CORSConfig) gin.HandlerFunc {
	origins := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		origins[normalize(origin)] = struct{}{}
	}
	maxAge := strconv.Itoa(int(cfg.MaxAge.Seconds()))

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Add("Vary", "Origin")

		origin := c.GetHeader("Origin")
		switch {
		case origin == "" && len(origins) == 0:
			h.Set("Access-Control-Allow-Origin", "*")
		case origin != "" && allowed(origins, origin):
			h.Set("Access-Control-Allow-Origin", origin)
			if cfg.AllowCredentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
		}

		if c.Request.Method == http.MethodOptions {
			h.Set("Access-Control-Allow-Headers", allowHeaders)
			h.Set("Access-Control-Allow-Methods", allowMethods)
			h.Set("Access-Control-Max-Age", maxAge)
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func allowed(origins map[string]struct{}, origin string) bool {
	if len(origins) == 0 {
		return true
	}
	_, ok := origins[normalize(origin)]
	return ok
}

func normalize(origin string) string {
	return strings.ToLower(strings.TrimRight(origin, "/"))
}
