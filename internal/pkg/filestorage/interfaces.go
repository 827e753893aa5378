package filestorage

import (
	"errors"
	"mime/multipart"
)

// ErrUnsupportedContent is returned when content sniffing rejects an upload
var ErrUnsupportedContent = errors.New("unsupported file content")

// FileInfo represents information about a stored file
type FileInfo struct {
	Path     string // Public path the file is served under, e.g. /uploads/<name>
	Name     string // Generated file name on disk
	Filename string // Original filename
	FileSize int64  // Size in bytes
	MimeType string // Sniffed MIME type of the content
}

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// SaveFile stores an uploaded file under a generated unique name
	SaveFile(fileHeader *multipart.FileHeader) (*FileInfo, error)

	// DeleteFile removes a file previously returned by SaveFile
	DeleteFile(publicPath string) error

	// GetFullPath returns the filesystem path for a public file path
	GetFullPath(publicPath string) string
}
