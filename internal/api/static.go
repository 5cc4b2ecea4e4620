package api

import (
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
)

// SetupStaticRoutes serves the landing page at / and other assets under /static
func SetupStaticRoutes(r *gin.Engine, files fs.FS) {
	r.GET("/", func(c *gin.Context) {
		serveFile(c, files, "index.html")
	})

	r.GET("/static/*filepath", func(c *gin.Context) {
		name := strings.TrimPrefix(c.Param("filepath"), "/")
		if name == "" {
			name = "index.html"
		}
		serveFile(c, files, name)
	})
}

func serveFile(c *gin.Context, files fs.FS, name string) {
	content, err := fs.ReadFile(files, name)
	if err != nil {
		c.String(http.StatusNotFound, "Page not found")
		return
	}

	contentType := mime.TypeByExtension(path.Ext(name))
	if contentType == "" {
		contentType = http.DetectContentType(content)
	}

	c.Data(http.StatusOK, contentType, content)
}
