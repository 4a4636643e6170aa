package handler

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/story"
	"github.com/gin-gonic/gin"
)

// maxImportSize bounds story uploads; every sentence carries an inline image.
const maxImportSize = 32 << 20

type ExportHandler struct{}

func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

// Export returns the posted story as a download in json, md or yaml.
func (h *ExportHandler) Export(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", story.FormatJSON))

	st, err := story.Import(io.LimitReader(c.Request.Body, maxImportSize))
	if err != nil {
		respondError(c, err, CodeInvalidStory, "Invalid story")
		return
	}

	out, contentType, err := story.Render(st, format)
	if err != nil {
		badRequest(c, "Invalid format. Use json, md, or yaml")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", story.FileName(st, story.Extension(format))))
	c.Data(http.StatusOK, contentType, out)
}

// Import accepts a story document either as the raw body or as a multipart
// "file" field, and echoes the parsed story.
func (h *ExportHandler) Import(c *gin.Context) {
	var r io.Reader = c.Request.Body
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			badRequest(c, "file is required")
			return
		}
		f, err := fh.Open()
		if err != nil {
			badRequest(c, "Failed to read uploaded file")
			return
		}
		defer f.Close()
		r = f
	}

	st, err := story.Import(io.LimitReader(r, maxImportSize))
	if err != nil {
		respondError(c, err, CodeInvalidStory, "Invalid story")
		return
	}

	c.JSON(http.StatusOK, st)
}
