package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

const MaxImageSize = 5 * 1024 * 1024 // 5MB

var ErrInvalidImage = errors.New("invalid image")

// allowedImageTypes maps accepted MIME types to the extension used in keys.
var allowedImageTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// IsDataURL reports whether s is an inline data: URL.
func IsDataURL(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), "data:")
}

// DecodeDataURL decodes a base64 image data URL and checks its type and size.
func DecodeDataURL(s string) ([]byte, string, error) {
	header, payload, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return nil, "", fmt.Errorf("%w: expected a base64 data URL", ErrInvalidImage)
	}
	mimeType := strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64"))
	if _, ok := allowedImageTypes[mimeType]; !ok {
		return nil, "", fmt.Errorf("%w: only PNG, JPEG, WEBP and GIF images are allowed", ErrInvalidImage)
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageSize+3 {
		return nil, "", fmt.Errorf("%w: image exceeds maximum size of 5MB", ErrInvalidImage)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", fmt.Errorf("%w: malformed base64 payload", ErrInvalidImage)
		}
	}
	if len(data) > MaxImageSize {
		return nil, "", fmt.Errorf("%w: image exceeds maximum size of 5MB", ErrInvalidImage)
	}
	if sniffed := http.DetectContentType(data); sniffed != mimeType {
		return nil, "", fmt.Errorf("%w: content does not match %s", ErrInvalidImage, mimeType)
	}
	return data, mimeType, nil
}

// StoreImage uploads value when it is a data URL and returns the stored
// public URL. Any other value (an existing URL, empty) is returned as is.
func StoreImage(ctx context.Context, storage StorageProvider, prefix, value string) (string, error) {
	if !IsDataURL(value) {
		return strings.TrimSpace(value), nil
	}
	if storage == nil {
		return "", errors.New("storage not initialized")
	}

	data, mimeType, err := DecodeDataURL(value)
	if err != nil {
		return "", err
	}
	key := GenerateStorageKey(prefix, allowedImageTypes[mimeType])
	res, err := storage.Put(ctx, bytes.NewReader(data), key, mimeType, int64(len(data)))
	if err != nil {
		return "", err
	}
	if res.URL == "" {
		return "", errors.New("storage returned no public URL")
	}
	return res.URL, nil
}

// ValidateImageUpload checks a multipart image upload and returns its
// sniffed MIME type and key extension.
func ValidateImageUpload(fileHeader *multipart.FileHeader) (string, string, error) {
	if fileHeader.Size > MaxImageSize {
		return "", "", fmt.Errorf("%w: image exceeds maximum size of 5MB", ErrInvalidImage)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	// Read first 512 bytes to detect content type
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", "", fmt.Errorf("failed to read file content: %w", err)
	}
	mimeType := http.DetectContentType(buffer[:n])
	ext, ok := allowedImageTypes[mimeType]
	if !ok {
		return "", "", fmt.Errorf("%w: only PNG, JPEG, WEBP and GIF images are allowed", ErrInvalidImage)
	}
	return mimeType, ext, nil
}

// SaveImageUpload validates and stores a multipart image under prefix.
func SaveImageUpload(ctx context.Context, storage StorageProvider, fileHeader *multipart.FileHeader, prefix string) (*StorageResult, error) {
	mimeType, ext, err := ValidateImageUpload(fileHeader)
	if err != nil {
		return nil, err
	}
	if orig := strings.ToLower(filepath.Ext(fileHeader.Filename)); orig == ".jpeg" {
		ext = orig
	}
	return putFile(ctx, storage, fileHeader, GenerateStorageKey(prefix, ext), mimeType)
}

// RemoveStoredImage deletes an image this app uploaded. URLs pointing
// elsewhere are left alone.
func RemoveStoredImage(ctx context.Context, storage StorageProvider, url string) {
	if storage == nil || url == "" {
		return
	}
	key, ok := storage.KeyForURL(url)
	if !ok {
		return
	}
	if err := storage.Delete(ctx, key); err != nil {
		log.Printf("[WARNING] Failed to delete stored image %s: %v", key, err)
	}
}
