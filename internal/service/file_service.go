package service

import (
	"context"
	"errors"
	"io"

	"github.com/fakturo-as/billing-api/internal/domain"
	"github.com/fakturo-as/billing-api/internal/repository"
	"github.com/fakturo-as/billing-api/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FileService reads archived documents back out of storage.
type FileService struct {
	fileRepo *repository.FileRepository
	store    storage.Storage
	logger   *zap.Logger
}

func NewFileService(fileRepo *repository.FileRepository, store storage.Storage, logger *zap.Logger) *FileService {
	return &FileService{
		fileRepo: fileRepo,
		store:    store,
		logger:   logger,
	}
}

func (s *FileService) GetByID(ctx context.Context, id uuid.UUID) (*domain.FileDTO, error) {
	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	dto := domain.ToFileDTO(file)
	return &dto, nil
}

// Download returns the file metadata and a reader over its content. The
// caller closes the reader.
func (s *FileService) Download(ctx context.Context, id uuid.UUID) (*domain.FileDTO, io.ReadCloser, error) {
	file, err := s.fileRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	reader, err := s.store.Download(ctx, file.StoragePath)
	if err != nil {
		return nil, nil, err
	}

	dto := domain.ToFileDTO(file)
	return &dto, reader, nil
}

func (s *FileService) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]domain.FileDTO, error) {
	files, err := s.fileRepo.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	dtos := make([]domain.FileDTO, 0, len(files))
	for i := range files {
		dtos = append(dtos, domain.ToFileDTO(&files[i]))
	}
	return dtos, nil
}
