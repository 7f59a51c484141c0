package validators

import (
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	MsgFileNotImage     = "File must be an image."
	MsgImageWrongFormat = "Image must be a JPEG, PNG, JPG, GIF, or WebP file."
	MsgImageTooLarge    = "Image size cannot exceed 2MB."
)

var allowedImageMIMEs = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// ImageUpload describes a sniffed, validated image file.
type ImageUpload struct {
	File      multipart.File
	Extension string
	Size      int64
}

// ValidateImageUpload sniffs the file's actual content type and enforces the
// allowed formats and the size ceiling. The message returned is the exact
// per-field validation text shown to the user; a nil message means valid.
func ValidateImageUpload(file multipart.File, header *multipart.FileHeader, maxBytes int64) (*ImageUpload, string, error) {
	if header.Size > maxBytes {
		return nil, MsgImageTooLarge, nil
	}

	mime, err := mimetype.DetectReader(file)
	if err != nil {
		return nil, "", fmt.Errorf("sniffing upload: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, "", fmt.Errorf("rewinding upload: %w", err)
	}

	if !strings.HasPrefix(mime.String(), "image/") {
		return nil, MsgFileNotImage, nil
	}

	ext, ok := allowedImageMIMEs[mime.String()]
	if !ok {
		return nil, MsgImageWrongFormat, nil
	}

	// Keep the client's extension when it matches the sniffed family, so
	// .jpeg uploads stay .jpeg.
	if clientExt := strings.ToLower(strings.TrimPrefix(filepath.Ext(header.Filename), ".")); clientExt != "" {
		if extMatchesMIME(clientExt, mime.String()) {
			ext = clientExt
		}
	}

	return &ImageUpload{File: file, Extension: ext, Size: header.Size}, "", nil
}

func extMatchesMIME(ext, mimeType string) bool {
	switch mimeType {
	case "image/jpeg":
		return ext == "jpg" || ext == "jpeg"
	case "image/png":
		return ext == "png"
	case "image/gif":
		return ext == "gif"
	case "image/webp":
		return ext == "webp"
	}
	return false
}
