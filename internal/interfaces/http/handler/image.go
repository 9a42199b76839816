package handler

import (
	"github.com/foodorder/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ImageHandler handles presigned image uploads for restaurants and menu items
type ImageHandler struct {
	BaseHandler
	imageService *catalog.ImageService
}

// NewImageHandler creates a new image handler
func NewImageHandler(imageService *catalog.ImageService, logger *zap.Logger) *ImageHandler {
	return &ImageHandler{
		BaseHandler:  BaseHandler{logger: logger},
		imageService: imageService,
	}
}

// InitiateRestaurantUpload godoc
// @ID           initiateRestaurantImageUpload
// @Summary      Request a restaurant image upload URL
// @Description  Returns a presigned PUT URL. Upload the file with the same Content-Type, then confirm the storage key.
// @Tags         restaurants
// @Accept       json
// @Produce      json
// @Param        id path string true "Restaurant ID" format(uuid)
// @Param        request body catalog.ImageUploadRequest true "Image metadata"
// @Success      200 {object} APIResponse[catalog.ImageUploadResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /restaurants/{id}/image/upload-url [post]
func (h *ImageHandler) InitiateRestaurantUpload(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	req, ok := bindJSON[catalog.ImageUploadRequest](&h.BaseHandler, c)
	if !ok {
		return
	}

	upload, err := h.imageService.InitiateRestaurantImage(c.Request.Context(), p, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, upload)
}

// ConfirmRestaurantUpload godoc
// @ID           confirmRestaurantImage
// @Summary      Attach an uploaded restaurant image
// @Tags         restaurants
// @Accept       json
// @Produce      json
// @Param        id path string true "Restaurant ID" format(uuid)
// @Param        request body catalog.ImageConfirmRequest true "Storage key returned by the upload URL request"
// @Success      200 {object} APIResponse[catalog.RestaurantResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /restaurants/{id}/image [put]
func (h *ImageHandler) ConfirmRestaurantUpload(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	req, ok := bindJSON[catalog.ImageConfirmRequest](&h.BaseHandler, c)
	if !ok {
		return
	}

	restaurant, err := h.imageService.ConfirmRestaurantImage(c.Request.Context(), p, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, restaurant)
}

// InitiateMenuItemUpload godoc
// @ID           initiateMenuItemImageUpload
// @Summary      Request a menu item image upload URL
// @Tags         menu-items
// @Accept       json
// @Produce      json
// @Param        id path string true "Menu item ID" format(uuid)
// @Param        request body catalog.ImageUploadRequest true "Image metadata"
// @Success      200 {object} APIResponse[catalog.ImageUploadResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /menu-items/{id}/image/upload-url [post]
func (h *ImageHandler) InitiateMenuItemUpload(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	req, ok := bindJSON[catalog.ImageUploadRequest](&h.BaseHandler, c)
	if !ok {
		return
	}

	upload, err := h.imageService.InitiateMenuItemImage(c.Request.Context(), p, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, upload)
}

// ConfirmMenuItemUpload godoc
// @ID           confirmMenuItemImage
// @Summary      Attach an uploaded menu item image
// @Tags         menu-items
// @Accept       json
// @Produce      json
// @Param        id path string true "Menu item ID" format(uuid)
// @Param        request body catalog.ImageConfirmRequest true "Storage key returned by the upload URL request"
// @Success      200 {object} APIResponse[catalog.MenuItemResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /menu-items/{id}/image [put]
func (h *ImageHandler) ConfirmMenuItemUpload(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	req, ok := bindJSON[catalog.ImageConfirmRequest](&h.BaseHandler, c)
	if !ok {
		return
	}

	item, err := h.imageService.ConfirmMenuItemImage(c.Request.Context(), p, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}
