package handler

import (
	"net/http"
	"strings"

	"github.com/foodorder/backend/internal/application/catalog"
	"github.com/foodorder/backend/internal/interfaces/http/dto"
	"github.com/foodorder/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// csvContentTypes are the part content types browsers send for .csv files
var csvContentTypes = map[string]bool{
	"":                         true,
	"text/csv":                 true,
	"text/plain":               true,
	"application/csv":          true,
	"application/octet-stream": true,
	"application/vnd.ms-excel": true,
}

// MenuImportHandler handles bulk menu uploads
type MenuImportHandler struct {
	BaseHandler
	importService *catalog.MenuImportService
}

// NewMenuImportHandler creates a new menu import handler
func NewMenuImportHandler(importService *catalog.MenuImportService, logger *zap.Logger) *MenuImportHandler {
	return &MenuImportHandler{
		BaseHandler:   BaseHandler{logger: logger},
		importService: importService,
	}
}

// Import godoc
// @ID           importMenuItems
// @Summary      Import a restaurant menu from CSV
// @Description  Columns: name, price, category (required), description, image_url, is_available. Nothing is written unless every row is valid.
// @Tags         menu-items
// @Accept       multipart/form-data
// @Produce      json
// @Param        id path string true "Restaurant ID" format(uuid)
// @Param        file formData file true "Menu CSV file"
// @Param        conflictMode query string false "What to do with rows naming an existing item" Enums(skip, update, fail)
// @Param        dryRun query bool false "Validate without writing"
// @Success      200 {object} APIResponse[catalog.MenuImportResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      413 {object} ErrorResponse
// @Failure      415 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /restaurants/{id}/menu-items/import [post]
func (h *MenuImportHandler) Import(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	req, ok := bindQuery[catalog.MenuImportRequest](&h.BaseHandler, c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if middleware.IsBodyTooLarge(err) {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "file exceeds maximum upload size")
		return
	}
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	defer file.Close()

	contentType := strings.ToLower(strings.TrimSpace(strings.Split(header.Header.Get("Content-Type"), ";")[0]))
	if !csvContentTypes[contentType] {
		h.Error(c, http.StatusUnsupportedMediaType, dto.ErrCodeValidation, "file must be a CSV file")
		return
	}

	result, err := h.importService.Import(c.Request.Context(), p, id, file, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
