package scan

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gen2brain/heic"
)

// File is an image selected for upload
type File struct {
	Name        string
	ContentType string
	Size        int64

	open func() (io.ReadCloser, error)
}

// NewFile describes a file whose content is produced by open
func NewFile(name, contentType string, size int64, open func() (io.ReadCloser, error)) *File {
	return &File{Name: name, ContentType: contentType, Size: size, open: open}
}

// FileFromPath stats path and sniffs its MIME type from the content
func FileFromPath(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, fmt.Errorf("detecting file type: %w", err)
	}

	return &File{
		Name:        filepath.Base(path),
		ContentType: baseMIME(mtype.String()),
		Size:        info.Size(),
		open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// FileFromBytes wraps in-memory content, sniffing its MIME type
func FileFromBytes(name string, data []byte) *File {
	return &File{
		Name:        name,
		ContentType: baseMIME(mimetype.Detect(data).String()),
		Size:        int64(len(data)),
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// Open returns a fresh reader over the file content
func (f *File) Open() (io.ReadCloser, error) {
	if f.open == nil {
		return nil, fmt.Errorf("file %s has no content", f.Name)
	}
	return f.open()
}

// IsImage reports whether the content type is an image/* type
func (f *File) IsImage() bool {
	return strings.HasPrefix(strings.ToLower(f.ContentType), "image/")
}

// baseMIME strips parameters such as charset from a MIME string
func baseMIME(s string) string {
	if i := strings.IndexByte(s, ';'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// Preview is a locally computed summary of the selected image
type Preview struct {
	Format string
	Width  int
	Height int
}

func (p Preview) String() string {
	return fmt.Sprintf("%s %dx%d", p.Format, p.Width, p.Height)
}

// LoadPreview reads the image header. HEIC/HEIF photos need the heic decoder;
// JPEG, PNG and GIF go through the image package.
func LoadPreview(f *File) (*Preview, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	if isHEICMimeType(f.ContentType) {
		cfg, err := heic.DecodeConfig(rc)
		if err != nil {
			return nil, fmt.Errorf("decoding HEIC/HEIF header: %w", err)
		}
		return &Preview{Format: "heic", Width: cfg.Width, Height: cfg.Height}, nil
	}

	cfg, format, err := image.DecodeConfig(rc)
	if err != nil {
		return nil, fmt.Errorf("decoding image header: %w", err)
	}
	return &Preview{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

func isHEICMimeType(mimeType string) bool {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	return strings.Contains(mimeType, "heic") || strings.Contains(mimeType, "heif")
}
