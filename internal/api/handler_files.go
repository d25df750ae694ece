package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UploadFile handles POST /api/files/upload. The multipart "file" part is
// streamed to object storage; the response carries the metadata the client
// passes back when creating a history record.
func (h *Handler) UploadFile(c *gin.Context) {
	if h.blobs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "object storage is not configured"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	if header.Size > h.maxUpload {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file exceeds the upload size limit"})
		return
	}

	mimeType := header.Header.Get("Content-Type")
	uploaded, err := h.blobs.Upload(c.Request.Context(), userID(c), header.Filename, mimeType, header.Size, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "file": uploaded})
}
