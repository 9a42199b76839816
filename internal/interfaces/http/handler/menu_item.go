package handler

import (
	"net/http"

	"github.com/foodorder/backend/internal/application/catalog"
	"github.com/foodorder/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MenuItemHandler handles menu item endpoints
type MenuItemHandler struct {
	BaseHandler
	menuItemService *catalog.MenuItemService
}

// NewMenuItemHandler creates a new menu item handler
func NewMenuItemHandler(menuItemService *catalog.MenuItemService, logger *zap.Logger) *MenuItemHandler {
	return &MenuItemHandler{
		BaseHandler:     BaseHandler{logger: logger},
		menuItemService: menuItemService,
	}
}

// Create godoc
// @ID           createMenuItem
// @Summary      Create a menu item
// @Tags         menu-items
// @Accept       json
// @Produce      json
// @Param        request body catalog.CreateMenuItemRequest true "Menu item details"
// @Success      201 {object} APIResponse[catalog.MenuItemResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /menu-items [post]
func (h *MenuItemHandler) Create(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	req, ok := bindJSON[catalog.CreateMenuItemRequest](&h.BaseHandler, c)
	if !ok {
		return
	}

	item, err := h.menuItemService.Create(c.Request.Context(), p, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, item)
}

// List godoc
// @ID           listMenuItems
// @Summary      List available menu items
// @Tags         menu-items
// @Produce      json
// @Param        restaurantId query string false "Only items of this restaurant" format(uuid)
// @Success      200 {object} APIResponse[[]catalog.MenuItemResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /menu-items [get]
func (h *MenuItemHandler) List(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	var restaurantID *uuid.UUID
	if raw := c.Query("restaurantId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid restaurantId format")
			return
		}
		restaurantID = &id
	}

	items, err := h.menuItemService.List(c.Request.Context(), p, restaurantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}

// Get godoc
// @ID           getMenuItem
// @Summary      Get a menu item
// @Tags         menu-items
// @Produce      json
// @Param        id path string true "Menu item ID" format(uuid)
// @Success      200 {object} APIResponse[catalog.MenuItemResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /menu-items/{id} [get]
func (h *MenuItemHandler) Get(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	item, err := h.menuItemService.Get(c.Request.Context(), p, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// Update godoc
// @ID           updateMenuItem
// @Summary      Update a menu item
// @Tags         menu-items
// @Accept       json
// @Produce      json
// @Param        id path string true "Menu item ID" format(uuid)
// @Param        request body catalog.UpdateMenuItemRequest true "Fields to change"
// @Success      200 {object} APIResponse[catalog.MenuItemResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /menu-items/{id} [patch]
func (h *MenuItemHandler) Update(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	req, ok := bindJSON[catalog.UpdateMenuItemRequest](&h.BaseHandler, c)
	if !ok {
		return
	}

	item, err := h.menuItemService.Update(c.Request.Context(), p, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// Delete godoc
// @ID           deleteMenuItem
// @Summary      Delete a menu item
// @Tags         menu-items
// @Param        id path string true "Menu item ID" format(uuid)
// @Success      204
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /menu-items/{id} [delete]
func (h *MenuItemHandler) Delete(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.menuItemService.Delete(c.Request.Context(), p, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
