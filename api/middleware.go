package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yaoapp/kun/exception"
	"github.com/yaoapp/kun/log"
)

// Logger logs every request through kun/log
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		latency := time.Since(start)
		if status >= http.StatusInternalServerError {
			log.Warn("[HTTP] %d %s %s %v", status, c.Request.Method, c.Request.URL.Path, latency)
			return
		}
		log.Info("[HTTP] %d %s %s %v", status, c.Request.Method, c.Request.URL.Path, latency)
	}
}

// Recovery converts panics into a {"detail"} response
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		var code = http.StatusInternalServerError
		var detail = "Internal server error"
		switch err := recovered.(type) {
		case string:
			log.Error("[API] panic %s %s: %s", c.Request.Method, c.Request.URL.Path, err)
		case exception.Exception:
			code = err.Code
			detail = err.Message
		case *exception.Exception:
			code = err.Code
			detail = err.Message
		default:
			log.Error("[API] panic %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
		}
		c.AbortWithStatusJSON(code, gin.H{"detail": detail})
	})
}

// CORS allows cross domain requests from the given origins
func CORS(allows []string) gin.HandlerFunc {
	allowAny := false
	allowsMap := map[string]bool{}
	for _, allow := range allows {
		if allow == "*" {
			allowAny = true
			continue
		}
		allowsMap[strings.TrimRight(allow, "/")] = true
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			if referer, err := url.Parse(c.Request.Referer()); err == nil && referer.Host != "" {
				origin = fmt.Sprintf("%s://%s", referer.Scheme, referer.Host)
			}
		}

		if origin == "" {
			c.Next()
			return
		}

		if !allowAny && !allowsMap[origin] {
			if c.Request.Method == http.MethodOptions {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
			c.Next()
			return
		}

		header := c.Writer.Header()
		header.Set("Access-Control-Allow-Origin", origin)
		header.Set("Access-Control-Allow-Credentials", "true")
		header.Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		header.Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")
		header.Set("Access-Control-Expose-Headers", "Content-Disposition")
		header.Add("Vary", "Origin")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
