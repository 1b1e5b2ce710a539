package document

import (
	"context"
	"errors"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"contractdesk/internal/entity"
	contractrepo "contractdesk/internal/modules/contract/repository"
	"contractdesk/internal/modules/document/dto"
	"contractdesk/internal/modules/document/repository"
	"contractdesk/pkg/apperror"
	"contractdesk/pkg/storage"
	"gorm.io/gorm"
)

type DocumentService interface {
	Upload(ctx context.Context, contractID uint, fileName string, content io.Reader) (*entity.Document, error)
	ListByContract(ctx context.Context, contractID uint) ([]*entity.Document, error)
	Download(ctx context.Context, id uint) (*dto.DownloadResult, error)
	Delete(ctx context.Context, id uint) error
}

type documentService struct {
	repo      repository.DocumentRepository
	contracts contractrepo.ContractRepository
	store     storage.DocumentStorage
}

func NewDocumentService(repo repository.DocumentRepository, contracts contractrepo.ContractRepository, store storage.DocumentStorage) DocumentService {
	return &documentService{
		repo:      repo,
		contracts: contracts,
		store:     store,
	}
}

func (s *documentService) Upload(ctx context.Context, contractID uint, fileName string, content io.Reader) (*entity.Document, error) {
	if !strings.EqualFold(filepath.Ext(fileName), ".pdf") {
		return nil, apperror.BadRequest("only PDF documents are accepted")
	}

	if _, err := s.contracts.FindByID(ctx, contractID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("contract not found")
		}
		return nil, err
	}

	ref, err := s.store.Save(ctx, content, fileName)
	if err != nil {
		return nil, err
	}

	doc := &entity.Document{
		ContractID: contractID,
		Filename:   fileName,
		StorageRef: ref,
		UploadedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, doc); err != nil {
		// Orphaned blobs are worse than a failed request.
		if delErr := s.store.Delete(ctx, ref); delErr != nil {
			log.Printf("failed to remove stored document %s after db error: %v", ref, delErr)
		}
		return nil, err
	}

	return doc, nil
}

func (s *documentService) ListByContract(ctx context.Context, contractID uint) ([]*entity.Document, error) {
	if _, err := s.contracts.FindByID(ctx, contractID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("contract not found")
		}
		return nil, err
	}
	return s.repo.FindByContract(ctx, contractID)
}

func (s *documentService) Download(ctx context.Context, id uint) (*dto.DownloadResult, error) {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("document not found")
		}
		return nil, err
	}

	content, err := s.store.Open(ctx, doc.StorageRef)
	if err != nil {
		return nil, apperror.NotFound("document file is missing")
	}

	return &dto.DownloadResult{
		Filename: doc.Filename,
		Content:  content,
	}, nil
}

func (s *documentService) Delete(ctx context.Context, id uint) error {
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("document not found")
		}
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, doc.StorageRef); err != nil {
		log.Printf("failed to remove stored document %s: %v", doc.StorageRef, err)
	}
	return nil
}
