package handlers

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/h2non/filetype"

	"github.com/ignatzorin/gigwork-backend/internal/dto"
	"github.com/ignatzorin/gigwork-backend/internal/http/handlers/common"
	"github.com/ignatzorin/gigwork-backend/internal/service"
)

// Разрешённые форматы документов: сканы и фото.
var allowedDocumentExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
}

var allowedDocumentMimeTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"application/pdf": true,
}

// VerificationHandler предоставляет HTTP слой для верификации личности.
type VerificationHandler struct {
	verifications *service.VerificationService
}

// NewVerificationHandler создаёт хэндлер.
func NewVerificationHandler(verifications *service.VerificationService) *VerificationHandler {
	return &VerificationHandler{verifications: verifications}
}

// Submit обрабатывает POST /verification: multipart с полями
// document_type и file.
func (h *VerificationHandler) Submit(c *gin.Context) {
	actor, err := common.CurrentUser(c)
	if err != nil {
		common.FailUnauthorized(c)
		return
	}

	documentType := c.PostForm("document_type")
	if documentType == "" {
		common.FailValidation(c, "поле document_type обязательно")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		common.FailValidation(c, "поле file обязательно")
		return
	}
	if file.Size == 0 {
		common.FailValidation(c, "файл не может быть пустым")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedDocumentExtensions[ext] {
		common.FailValidation(c, "неподдерживаемый формат файла, разрешены jpg, jpeg, png, pdf")
		return
	}

	src, err := file.Open()
	if err != nil {
		common.Fail(c, err)
		return
	}
	defer src.Close()

	// Проверка магических байтов: расширению не доверяем.
	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		common.FailValidation(c, "не удалось прочитать файл")
		return
	}

	kind, err := filetype.Match(buffer[:n])
	if err != nil || kind == filetype.Unknown {
		common.FailValidation(c, "не удалось определить тип файла")
		return
	}
	if !allowedDocumentMimeTypes[kind.MIME.Value] {
		common.FailValidation(c, fmt.Sprintf("неподдерживаемый тип файла (%s)", kind.MIME.Value))
		return
	}

	if seeker, ok := src.(io.Seeker); ok {
		if _, err := seeker.Seek(0, io.SeekStart); err != nil {
			common.Fail(c, err)
			return
		}
	}

	record, err := h.verifications.Submit(c.Request.Context(), actor, documentType, file.Filename, src)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondCreated(c, record)
}

// ListMine обрабатывает GET /verification.
func (h *VerificationHandler) ListMine(c *gin.Context) {
	actor, err := common.CurrentUser(c)
	if err != nil {
		common.FailUnauthorized(c)
		return
	}

	records, err := h.verifications.ListMine(c.Request.Context(), actor)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondOK(c, records)
}

// ListPending обрабатывает GET /admin/verification.
func (h *VerificationHandler) ListPending(c *gin.Context) {
	actor, err := common.CurrentUser(c)
	if err != nil {
		common.FailUnauthorized(c)
		return
	}

	records, err := h.verifications.ListPending(c.Request.Context(), actor)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondOK(c, records)
}

// Review обрабатывает POST /admin/verification/:id/review.
func (h *VerificationHandler) Review(c *gin.Context) {
	actor, err := common.CurrentUser(c)
	if err != nil {
		common.FailUnauthorized(c)
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.FailValidation(c, err.Error())
		return
	}

	var req dto.ReviewVerificationRequest
	if err := common.BindAndValidate(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	var comment *string
	if req.Comment != "" {
		comment = &req.Comment
	}

	record, err := h.verifications.Review(c.Request.Context(), actor, id, req.Approve, comment)
	if err != nil {
		common.Fail(c, err)
		return
	}

	common.RespondOK(c, record)
}
