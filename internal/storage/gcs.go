package storage

import (
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

const (
	// Ссылки живут 7 дней, максимум для V4 подписи
	signedURLExpiry = 7 * 24 * time.Hour

	// Голосовые записи загружаются только в этом формате
	voiceContentType = "audio/ogg"
)

// GCSSigner подписывает V4-ссылки на бакет голосовых записей.
// Ключ сервисного аккаунта берется из окружения, клиент не нужен.
type GCSSigner struct {
	bucket     string
	accessID   string
	privateKey []byte
}

func NewGCSSignerFromEnv() (*GCSSigner, error) {
	bucket := os.Getenv("GCP_UPLOAD_BUCKET")
	accessID := os.Getenv("FIREBASE_CLIENT_EMAIL")
	privateKey := strings.ReplaceAll(os.Getenv("FIREBASE_PRIVATE_KEY"), `\n`, "\n")

	if bucket == "" || accessID == "" || privateKey == "" {
		return nil, errors.New("GCP_UPLOAD_BUCKET, FIREBASE_CLIENT_EMAIL and FIREBASE_PRIVATE_KEY must be set")
	}

	return &GCSSigner{
		bucket:     bucket,
		accessID:   accessID,
		privateKey: []byte(privateKey),
	}, nil
}

func (s *GCSSigner) SignUpload(object string) (string, error) {
	return s.sign(http.MethodPut, object, voiceContentType)
}

func (s *GCSSigner) SignDownload(object string) (string, error) {
	return s.sign(http.MethodGet, object, "")
}

func (s *GCSSigner) SignDelete(object string) (string, error) {
	return s.sign(http.MethodDelete, object, voiceContentType)
}

func (s *GCSSigner) sign(method, object, contentType string) (string, error) {
	return storage.SignedURL(s.bucket, object, &storage.SignedURLOptions{
		Scheme:         storage.SigningSchemeV4,
		Method:         method,
		GoogleAccessID: s.accessID,
		PrivateKey:     s.privateKey,
		Expires:        time.Now().Add(signedURLExpiry),
		ContentType:    contentType,
	})
}
