// internal/domain/upload/service.go
package upload

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
	"github.com/tduong196/bookstore/internal/config"
	"gorm.io/gorm"
)

var (
	// ErrFileTooLarge is returned when the upload exceeds the size limit
	ErrFileTooLarge = errors.New("file exceeds maximum size")
	// ErrUnsupportedType is returned for disallowed file extensions
	ErrUnsupportedType = errors.New("file type is not allowed")
)

// Provider stores an image and returns its public URL
type Provider interface {
	Store(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) (string, error)
	Name() string
}

// Service handles cover image uploads
type Service struct {
	db       *gorm.DB
	config   *config.Config
	provider Provider
	log      *logrus.Logger
}

// NewService creates an upload service with the configured provider
func NewService(db *gorm.DB, cfg *config.Config, log *logrus.Logger) (*Service, error) {
	provider, err := newProvider(cfg)
	if err != nil {
		return nil, err
	}
	return &Service{
		db:       db,
		config:   cfg,
		provider: provider,
		log:      log,
	}, nil
}

// NewServiceWithProvider creates an upload service around an explicit
// provider, used in tests.
func NewServiceWithProvider(db *gorm.DB, cfg *config.Config, provider Provider, log *logrus.Logger) *Service {
	return &Service{db: db, config: cfg, provider: provider, log: log}
}

func newProvider(cfg *config.Config) (Provider, error) {
	switch cfg.External.Storage.Provider {
	case "cloudinary":
		return NewCloudinaryProvider(cfg), nil
	case "minio":
		return NewMinioProvider(cfg)
	case "local":
		return NewLocalProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unknown storage provider: %s", cfg.External.Storage.Provider)
	}
}

// UploadCover validates and stores a cover image, recording it in
// the database.
func (s *Service) UploadCover(ctx context.Context, userID uint, fileHeader *multipart.FileHeader) (*UploadedFile, error) {
	if fileHeader.Size > s.config.Upload.MaxSize {
		return nil, fmt.Errorf("%w (%d bytes over %d)", ErrFileTooLarge, fileHeader.Size, s.config.Upload.MaxSize)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileHeader.Filename), "."))
	if !s.extensionAllowed(ext) {
		return nil, fmt.Errorf("%w: .%s", ErrUnsupportedType, ext)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	storedName := fmt.Sprintf("%s.%s", uuid.New().String(), ext)
	contentType := fileHeader.Header.Get("Content-Type")

	url, err := s.provider.Store(ctx, storedName, file, fileHeader.Size, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	record := &UploadedFile{
		FileName:    fileHeader.Filename,
		StoredName:  storedName,
		URL:         url,
		Provider:    s.provider.Name(),
		Size:        fileHeader.Size,
		ContentType: contentType,
		UploadedBy:  userID,
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, fmt.Errorf("failed to record upload: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"file":     record.StoredName,
		"provider": record.Provider,
		"size":     record.Size,
	}).Info("cover image uploaded")

	return record, nil
}

func (s *Service) extensionAllowed(ext string) bool {
	for _, allowed := range s.config.Upload.AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// CloudinaryProvider uploads through an unsigned upload preset
type CloudinaryProvider struct {
	uploadURL string
	preset    string
	client    *http.Client
}

// NewCloudinaryProvider creates a cloudinary provider
func NewCloudinaryProvider(cfg *config.Config) *CloudinaryProvider {
	return &CloudinaryProvider{
		uploadURL: cfg.External.Storage.CloudinaryURL,
		preset:    cfg.External.Storage.CloudinaryPreset,
		client:    &http.Client{},
	}
}

// Name returns the provider name
func (p *CloudinaryProvider) Name() string { return "cloudinary" }

// Store uploads the image as a multipart POST with the unsigned
// preset and returns the hosted secure URL.
func (p *CloudinaryProvider) Store(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) (string, error) {
	body := &strings.Builder{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", objectName)
	if err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if err := writer.WriteField("upload_preset", p.preset); err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.uploadURL, strings.NewReader(body.String()))
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("upload rejected with status %d: %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		SecureURL string `json:"secure_url"`
		URL       string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to parse upload response: %w", err)
	}
	if result.SecureURL != "" {
		return result.SecureURL, nil
	}
	if result.URL != "" {
		return result.URL, nil
	}
	return "", fmt.Errorf("upload response contained no URL")
}

// MinioProvider stores images in a MinIO bucket
type MinioProvider struct {
	client   *minio.Client
	bucket   string
	endpoint string
	useSSL   bool
	cdnBase  string
}

// NewMinioProvider creates a MinIO provider
func NewMinioProvider(cfg *config.Config) (*MinioProvider, error) {
	storage := cfg.External.Storage
	client, err := minio.New(storage.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(storage.MinioAccessKey, storage.MinioSecretKey, ""),
		Secure: storage.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return &MinioProvider{
		client:   client,
		bucket:   storage.MinioBucket,
		endpoint: storage.MinioEndpoint,
		useSSL:   storage.MinioUseSSL,
		cdnBase:  storage.CDNBaseURL,
	}, nil
}

// Name returns the provider name
func (p *MinioProvider) Name() string { return "minio" }

// Store uploads the image to the configured bucket
func (p *MinioProvider) Store(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := p.client.PutObject(ctx, p.bucket, objectName, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to store object: %w", err)
	}

	if p.cdnBase != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(p.cdnBase, "/"), objectName), nil
	}

	scheme := "http"
	if p.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, p.endpoint, p.bucket, objectName), nil
}

// LocalProvider stores images on local disk
type LocalProvider struct {
	basePath string
	cdnBase  string
}

// NewLocalProvider creates a local disk provider
func NewLocalProvider(cfg *config.Config) *LocalProvider {
	return &LocalProvider{
		basePath: cfg.External.Storage.LocalPath,
		cdnBase:  cfg.External.Storage.CDNBaseURL,
	}
}

// Name returns the provider name
func (p *LocalProvider) Name() string { return "local" }

// Store writes the image under the configured directory
func (p *LocalProvider) Store(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) (string, error) {
	if err := os.MkdirAll(p.basePath, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	path := filepath.Join(p.basePath, objectName)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	if p.cdnBase != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(p.cdnBase, "/"), objectName), nil
	}
	return "/uploads/" + objectName, nil
}
