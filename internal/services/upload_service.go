package services

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"amplifyd_backend/internal/logger"
	"amplifyd_backend/internal/services/dto"
	"amplifyd_backend/internal/storage"
	"amplifyd_backend/pkg/apperrors"

	"github.com/google/uuid"
)

type UploadService interface {
	// RequestUploadLocation hands out a write-only, time-bounded location
	// in object storage. Purely generative: nothing is persisted, and
	// every call yields a fresh unique path.
	RequestUploadLocation(ctx context.Context, req *dto.UploadLocationRequest) (*dto.UploadLocationResponse, error)
}

type uploadService struct {
	storage       storage.Storage
	grantValidity time.Duration
}

func NewUploadService(store storage.Storage, grantValidity time.Duration) UploadService {
	if grantValidity <= 0 || grantValidity > 15*time.Minute {
		grantValidity = 15 * time.Minute
	}
	return &uploadService{
		storage:       store,
		grantValidity: grantValidity,
	}
}

func (s *uploadService) RequestUploadLocation(ctx context.Context, req *dto.UploadLocationRequest) (*dto.UploadLocationResponse, error) {
	fileName := sanitizeFileName(req.FileName)
	if fileName == "" || strings.TrimSpace(req.ContentType) == "" {
		return nil, apperrors.ErrInvalidArgument("uploads", "file_name and content_type are required")
	}

	var (
		objectPath   string
		trackingSeed string
	)
	if req.CallerID != "" {
		objectPath = fmt.Sprintf("submissions/%s/%s-%s", req.CallerID, uuid.NewString(), fileName)
	} else {
		// Anonymous uploads are namespaced by a fresh seed so leaked
		// paths stay confined to one upload.
		trackingSeed = uuid.NewString()
		objectPath = fmt.Sprintf("music-uploads/temp/%s/%s-%s", trackingSeed, uuid.NewString(), fileName)
	}

	uploadURL, err := s.storage.GetSignedUploadURL(ctx, objectPath, req.ContentType, s.grantValidity)
	if err != nil {
		logger.CtxWithError(ctx, "failed to presign upload location", err, "path", objectPath)
		return nil, apperrors.ErrExternalService(err, "uploads", "Could not create upload location")
	}

	return &dto.UploadLocationResponse{
		Path:         objectPath,
		UploadURL:    uploadURL,
		ContentType:  req.ContentType,
		TrackingSeed: trackingSeed,
		ExpiresAt:    time.Now().Add(s.grantValidity),
	}, nil
}

// sanitizeFileName strips any path components a client may have smuggled
// into the file name.
func sanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	return name
}
