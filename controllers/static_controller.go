package controllers

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// StaticFallback serves the built front-end for unmatched routes. Unknown
// API paths stay JSON 404s; client-side routes get index.html.
func StaticFallback(staticDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqPath := c.Request.URL.Path
		if reqPath == "/api" || strings.HasPrefix(reqPath, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}

		clean := path.Clean("/" + reqPath)
		if clean != "/" {
			candidate := filepath.Join(staticDir, filepath.FromSlash(clean))
			if serveFile(c, candidate) {
				return
			}
		}
		if !serveFile(c, filepath.Join(staticDir, "index.html")) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		}
	}
}

// serveFile reports false when name is missing or a directory.
func serveFile(c *gin.Context, name string) bool {
	f, err := os.Open(name)
	if err != nil {
		return false
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil || info.IsDir() {
		return false
	}
	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), f)
	return true
}
