package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
	"voltedge_site_go/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// StorageProvider stores uploaded images under keys such as
// "gallery/<uuid>_<unix>.png" and serves them from public URLs.
type StorageProvider interface {
	Put(ctx context.Context, r io.Reader, key, contentType string, size int64) (*StorageResult, error)
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
	// KeyForURL maps a public URL produced by this provider back to its key.
	KeyForURL(url string) (string, bool)
}

// StorageResult describes a stored object.
type StorageResult struct {
	Key      string
	FileName string
	FileSize int64
	MimeType string
	URL      string
}

// Storage is the provider used by handlers and services.
var Storage StorageProvider

// InitializeStorage picks Cloudflare R2 when it is fully configured and
// reachable, local disk otherwise.
func InitializeStorage(cfg *config.Config) {
	r2, err := connectR2(cfg)
	if err == nil {
		Storage = r2
		log.Printf("Storage connection established (Cloudflare R2 - bucket: %s)", cfg.R2BucketName)
		return
	}
	if !errors.Is(err, errR2NotConfigured) {
		log.Printf("[WARNING] %v. Falling back to local storage.", err)
	}
	Storage = NewLocalStorage(cfg.UploadDir)
	log.Printf("Storage connection established (Local filesystem - path: %s)", cfg.UploadDir)
}

var errR2NotConfigured = errors.New("r2 not configured")

func connectR2(cfg *config.Config) (*R2Storage, error) {
	if cfg.R2AccountID == "" || cfg.R2AccessKeyID == "" || cfg.R2SecretAccessKey == "" || cfg.R2BucketName == "" {
		return nil, errR2NotConfigured
	}
	if cfg.R2PublicURL == "" {
		return nil, errors.New("R2_PUBLIC_URL is not set, uploaded images would have no public links")
	}

	r2, err := NewR2Storage(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize R2 storage: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := r2.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(r2.bucket)}); err != nil {
		return nil, fmt.Errorf("R2 bucket connection test failed: %w", err)
	}
	return r2, nil
}

// R2Storage keeps images in a Cloudflare R2 bucket through its S3 API.
type R2Storage struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// NewR2Storage builds an S3 client against https://<account>.r2.cloudflarestorage.com.
func NewR2Storage(cfg *config.Config) (*R2Storage, error) {
	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID)

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &R2Storage{
		client:    client,
		bucket:    cfg.R2BucketName,
		publicURL: strings.TrimSuffix(cfg.R2PublicURL, "/"),
	}, nil
}

// Put uploads an object. Keys are unique per upload so objects are cached
// as immutable.
func (r *R2Storage) Put(ctx context.Context, body io.Reader, key, contentType string, size int64) (*StorageResult, error) {
	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to R2: %w", err)
	}
	return &StorageResult{Key: key, FileName: path.Base(key), FileSize: size, MimeType: contentType, URL: r.PublicURL(key)}, nil
}

func (r *R2Storage) Delete(ctx context.Context, key string) error {
	_, err := r.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from R2: %w", err)
	}
	return nil
}

func (r *R2Storage) PublicURL(key string) string {
	if r.publicURL == "" {
		return ""
	}
	return r.publicURL + "/" + key
}

func (r *R2Storage) KeyForURL(url string) (string, bool) {
	prefix := r.publicURL + "/"
	if r.publicURL == "" || !strings.HasPrefix(url, prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}

// LocalStorage keeps images under a directory served by the static route.
type LocalStorage struct {
	baseDir string
}

func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{baseDir: baseDir}
}

func (l *LocalStorage) Put(ctx context.Context, body io.Reader, key, contentType string, size int64) (*StorageResult, error) {
	fullPath, err := l.resolve(key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, body)
	if err != nil {
		os.Remove(fullPath)
		return nil, fmt.Errorf("failed to save file: %w", err)
	}
	return &StorageResult{Key: key, FileName: path.Base(key), FileSize: written, MimeType: contentType, URL: l.PublicURL(key)}, nil
}

func (l *LocalStorage) Delete(ctx context.Context, key string) error {
	fullPath, err := l.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// PublicURL is the site-relative path, e.g. /static/uploads/gallery/x.png.
func (l *LocalStorage) PublicURL(key string) string {
	return "/" + filepath.ToSlash(filepath.Join(l.baseDir, key))
}

func (l *LocalStorage) KeyForURL(url string) (string, bool) {
	prefix := "/" + filepath.ToSlash(filepath.Clean(l.baseDir)) + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}

// resolve joins key onto baseDir and rejects paths escaping it.
func (l *LocalStorage) resolve(key string) (string, error) {
	absBase, err := filepath.Abs(l.baseDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve upload directory: %w", err)
	}
	absPath, err := filepath.Abs(filepath.Join(l.baseDir, key))
	if err != nil {
		return "", fmt.Errorf("failed to resolve file path: %w", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid file path: path traversal detected")
	}
	return absPath, nil
}

// putFile streams a multipart upload into storage.
func putFile(ctx context.Context, storage StorageProvider, file *multipart.FileHeader, key, contentType string) (*StorageResult, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer src.Close()
	return storage.Put(ctx, src, key, contentType, file.Size)
}

// GenerateStorageKey creates a unique storage key like "gallery/<uuid>_<unix>.png".
func GenerateStorageKey(prefix string, ext string) string {
	filename := fmt.Sprintf("%s_%d%s", uuid.New().String(), time.Now().Unix(), ext)
	return path.Join(prefix, filename)
}
