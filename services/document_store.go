package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// maxPDFSize caps uploaded abstract documents at 20 MB.
const maxPDFSize = 20 << 20

// StoreAbstractPDF persists an uploaded reviewable document under UPLOAD_PATH
// and returns the opaque stored path. The workflow core never inspects the
// bytes beyond this extension and size gate.
func StoreAbstractPDF(file *multipart.FileHeader) (string, error) {
	if file == nil {
		return "", invalidTransition("a PDF file is required")
	}
	if !strings.HasSuffix(strings.ToLower(file.Filename), ".pdf") {
		return "", invalidTransition("uploaded file must be a PDF")
	}
	if file.Size > maxPDFSize {
		return "", invalidTransition("PDF must be 20 MB or smaller")
	}

	uploadPath := os.Getenv("UPLOAD_PATH")
	if uploadPath == "" {
		uploadPath = "./uploads"
	}
	dir := filepath.Join(uploadPath, "abstracts")
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to prepare upload directory: %w", err)
	}

	storedName := uuid.New().String() + ".pdf"
	dst := filepath.Join(dir, storedName)

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		os.Remove(dst)
		return "", err
	}

	return dst, nil
}

// NewParticipantCode builds the public participant code shown across the
// site, e.g. "CC-A1B2C3" for a Climate Change participant.
func NewParticipantCode(themeCode string) string {
	prefix := themePrefix(themeCode)
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:6]
	return prefix + "-" + suffix
}

func themePrefix(themeCode string) string {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(themeCode)), "_")
	prefix := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		prefix += strings.ToUpper(p[:1])
	}
	if len(prefix) < 2 {
		return "OT"
	}
	if len(prefix) > 2 {
		prefix = prefix[:2]
	}
	return prefix
}
