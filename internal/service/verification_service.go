package service

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"

	"github.com/ignatzorin/gigwork-backend/internal/logger"
	"github.com/ignatzorin/gigwork-backend/internal/models"
	"github.com/ignatzorin/gigwork-backend/internal/pkg/apperror"
	"github.com/ignatzorin/gigwork-backend/internal/repository"
)

// VerificationRepositoryIface описывает зависимости от слоя хранилища.
type VerificationRepositoryIface interface {
	Create(ctx context.Context, rec *models.VerificationRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.VerificationRecord, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.VerificationRecord, error)
	ListPending(ctx context.Context) ([]models.VerificationRecord, error)
	Review(ctx context.Context, id, reviewerID uuid.UUID, approve bool, comment *string) (*models.VerificationRecord, error)
}

// DocumentSaver сохраняет загруженный документ и возвращает его путь.
type DocumentSaver interface {
	Save(ctx context.Context, userID uuid.UUID, originalName string, r io.Reader) (string, int64, error)
	Delete(ctx context.Context, relativePath string) error
}

// Допустимые типы документов для верификации.
var validDocumentTypes = map[string]struct{}{
	"passport":        {},
	"id_card":         {},
	"driver_license":  {},
	"company_charter": {},
}

// VerificationService инкапсулирует подачу и рассмотрение заявок
// на верификацию личности.
type VerificationService struct {
	repo    VerificationRepositoryIface
	storage DocumentSaver
}

// NewVerificationService создаёт сервис верификации.
func NewVerificationService(repo VerificationRepositoryIface, storage DocumentSaver) *VerificationService {
	return &VerificationService{repo: repo, storage: storage}
}

// Submit сохраняет документ и создаёт заявку на верификацию.
// Повторная заявка при уже ожидающей рассмотрения отклоняется.
func (s *VerificationService) Submit(ctx context.Context, actor *models.User, documentType, fileName string, file io.Reader) (*models.VerificationRecord, error) {
	if _, ok := validDocumentTypes[documentType]; !ok {
		return nil, apperror.New(apperror.ErrCodeValidation, "недопустимый тип документа")
	}

	path, size, err := s.storage.Save(ctx, actor.ID, fileName, file)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, "не удалось сохранить документ")
	}

	rec := &models.VerificationRecord{
		UserID:       actor.ID,
		DocumentType: documentType,
		DocumentPath: path,
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		if delErr := s.storage.Delete(ctx, path); delErr != nil {
			logger.Log.WithError(delErr).Warn("не удалось удалить осиротевший документ")
		}
		if errors.Is(err, repository.ErrVerificationPending) {
			return nil, apperror.NewBiz(apperror.ErrCodeConflict, apperror.BizCodeDuplicate, "заявка на верификацию уже на рассмотрении")
		}
		return nil, err
	}

	logger.Log.WithField("user_id", actor.ID).WithField("size", size).Info("подана заявка на верификацию")
	return rec, nil
}

// ListMine возвращает заявки текущего пользователя.
func (s *VerificationService) ListMine(ctx context.Context, actor *models.User) ([]models.VerificationRecord, error) {
	return s.repo.ListByUser(ctx, actor.ID)
}

// ListPending возвращает заявки на рассмотрение администратору.
func (s *VerificationService) ListPending(ctx context.Context, actor *models.User) ([]models.VerificationRecord, error) {
	if actor.Role != models.UserRoleAdmin {
		return nil, apperror.ErrForbidden
	}
	return s.repo.ListPending(ctx)
}

// Review закрывает заявку решением администратора.
func (s *VerificationService) Review(ctx context.Context, actor *models.User, id uuid.UUID, approve bool, comment *string) (*models.VerificationRecord, error) {
	if actor.Role != models.UserRoleAdmin {
		return nil, apperror.ErrForbidden
	}
	if !approve && (comment == nil || *comment == "") {
		return nil, apperror.New(apperror.ErrCodeValidation, "комментарий при отклонении обязателен")
	}

	rec, err := s.repo.Review(ctx, id, actor.ID, approve, comment)
	if err != nil {
		if errors.Is(err, repository.ErrVerificationNotFound) {
			return nil, apperror.New(apperror.ErrCodeNotFound, "заявка на верификацию не найдена")
		}
		return nil, err
	}
	return rec, nil
}
