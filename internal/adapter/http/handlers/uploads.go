package handlers

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"pcshop_service/internal/domain/entities"

	"github.com/gin-gonic/gin"
)

// readUploads loads every file of a multipart field. A request that is not
// multipart carries no files.
func readUploads(c *gin.Context, field string) ([]entities.UploadFile, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}

	headers := form.File[field]
	files := make([]entities.UploadFile, 0, len(headers))
	for _, fh := range headers {
		f, err := readUpload(fh)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

func readUpload(fh *multipart.FileHeader) (entities.UploadFile, error) {
	src, err := fh.Open()
	if err != nil {
		return entities.UploadFile{}, err
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return entities.UploadFile{}, err
	}

	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		if byExt := mime.TypeByExtension(filepath.Ext(fh.Filename)); byExt != "" {
			mimeType = byExt
		}
	}
	return entities.UploadFile{
		Filename: fh.Filename,
		MimeType: mimeType,
		Size:     int64(len(content)),
		Content:  content,
	}, nil
}
