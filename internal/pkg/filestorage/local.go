package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/yigit/empdesk/internal/pkg/logger"
)

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath     string   // The root directory where files will be stored
	urlPrefix    string   // Public path prefix the directory is served under
	allowedMimes []string // When non-empty, sniffed content must match one of these
}

// Option configures a LocalStorage.
type Option func(*LocalStorage)

// WithAllowedMimeTypes enables content sniffing of uploads.
func WithAllowedMimeTypes(mimes ...string) Option {
	return func(ls *LocalStorage) {
		ls.allowedMimes = mimes
	}
}

// NewLocalStorage creates a new LocalStorage instance.
// basePath is the directory on the server, urlPrefix the path it is served under (e.g. /uploads).
func NewLocalStorage(basePath, urlPrefix string, opts ...Option) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	ls := &LocalStorage{
		basePath:  basePath,
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
	}
	for _, opt := range opts {
		opt(ls)
	}
	return ls, nil
}

// SaveFile saves an uploaded file under a generated unique name
func (ls *LocalStorage) SaveFile(fileHeader *multipart.FileHeader) (*FileInfo, error) {
	if fileHeader == nil {
		return nil, nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to detect file content: %w", err)
	}
	if len(ls.allowedMimes) > 0 && !mimetype.EqualsAny(mtype.String(), ls.allowedMimes...) {
		logger.Warn().Str("filename", fileHeader.Filename).Str("mime", mtype.String()).Msg("Rejected upload content")
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedContent, mtype.String())
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind uploaded file: %w", err)
	}

	// Generate a unique filename to prevent collisions
	uniqueFilename := uuid.New().String() + filepath.Ext(fileHeader.Filename)
	dstPath := filepath.Join(ls.basePath, uniqueFilename)

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, file)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		_ = os.Remove(dstPath)
		return nil, fmt.Errorf("failed to save file content: %w", err)
	}

	info := &FileInfo{
		Path:     path.Join(ls.urlPrefix, uniqueFilename),
		Name:     uniqueFilename,
		Filename: fileHeader.Filename,
		FileSize: written,
		MimeType: mtype.String(),
	}
	logger.Info().Str("filename", fileHeader.Filename).Str("saved_as", uniqueFilename).Str("mime", info.MimeType).Msg("File saved successfully")
	return info, nil
}

// DeleteFile removes a stored file. Missing files are not an error.
func (ls *LocalStorage) DeleteFile(publicPath string) error {
	if publicPath == "" {
		return nil
	}

	physicalPath := ls.GetFullPath(publicPath)
	if physicalPath == "" {
		return fmt.Errorf("invalid file path: %s", publicPath)
	}

	if _, err := os.Stat(physicalPath); os.IsNotExist(err) {
		logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
		return nil
	}

	if err := os.Remove(physicalPath); err != nil {
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted successfully")
	return nil
}

// GetFullPath returns the filesystem path for a public path or bare file name.
func (ls *LocalStorage) GetFullPath(publicPath string) string {
	filename := path.Base(filepath.ToSlash(publicPath))
	if filename == "" || filename == "." || filename == "/" || filename == strings.Trim(ls.urlPrefix, "/") {
		return ""
	}
	return filepath.Join(ls.basePath, filename)
}

// BasePath returns the storage directory.
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// URLPrefix returns the public path prefix.
func (ls *LocalStorage) URLPrefix() string {
	return ls.urlPrefix
}
