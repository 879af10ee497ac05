package utils

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"deliciasmz/logging"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

const (
	maxUploadSize = 10 << 20
	maxImageSide  = 1200
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Uploader stores recipe images under Dir and serves them from URLPrefix.
type Uploader struct {
	Dir       string
	URLPrefix string
	Log       *zap.Logger
}

// SaveFile decodes an uploaded image, fixes its orientation, bounds it to
// maxImageSide and writes it as JPEG under a random name. It returns the
// public URL of the stored file.
func (u *Uploader) SaveFile(file multipart.File, header *multipart.FileHeader) (string, error) {
	if ct := header.Header.Get("Content-Type"); ct != "" && !allowedImageTypes[strings.ToLower(ct)] {
		return "", fmt.Errorf("unsupported image type %q", ct)
	}
	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", header.Filename, err)
	}
	img = imaging.Fit(img, maxImageSide, maxImageSide, imaging.Lanczos)

	if err := os.MkdirAll(u.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	name := uuid.NewString() + ".jpg"
	if err := imaging.Save(img, filepath.Join(u.Dir, name), imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("save %s: %w", name, err)
	}
	return strings.TrimSuffix(u.URLPrefix, "/") + "/" + name, nil
}

// UploadImages stores every file of the "images" form field.
func (u *Uploader) UploadImages(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	log := logging.OrNop(u.Log)
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Failed to parse form")
		return
	}

	files := r.MultipartForm.File["images"]
	if len(files) == 0 {
		RespondWithError(w, http.StatusBadRequest, "No images provided")
		return
	}

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		url, err := u.saveHeader(fh)
		if err != nil {
			log.Warn("Image upload rejected", zap.String("file", fh.Filename), zap.Error(err))
			RespondWithError(w, http.StatusBadRequest, "Error saving file")
			return
		}
		urls = append(urls, url)
	}
	RespondWithJSON(w, http.StatusCreated, M{"urls": urls})
}

func (u *Uploader) saveHeader(fh *multipart.FileHeader) (string, error) {
	file, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()
	return u.SaveFile(file, fh)
}
