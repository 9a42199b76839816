package handler

import (
	"github.com/foodorder/backend/internal/application/catalog"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RestaurantHandler handles restaurant endpoints
type RestaurantHandler struct {
	BaseHandler
	restaurantService *catalog.RestaurantService
}

// NewRestaurantHandler creates a new restaurant handler
func NewRestaurantHandler(restaurantService *catalog.RestaurantService, logger *zap.Logger) *RestaurantHandler {
	return &RestaurantHandler{
		BaseHandler:       BaseHandler{logger: logger},
		restaurantService: restaurantService,
	}
}

// Create godoc
// @ID           createRestaurant
// @Summary      Create a restaurant
// @Tags         restaurants
// @Accept       json
// @Produce      json
// @Param        request body catalog.CreateRestaurantRequest true "Restaurant details"
// @Success      201 {object} APIResponse[catalog.RestaurantResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /restaurants [post]
func (h *RestaurantHandler) Create(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	req, ok := bindJSON[catalog.CreateRestaurantRequest](&h.BaseHandler, c)
	if !ok {
		return
	}

	restaurant, err := h.restaurantService.Create(c.Request.Context(), p, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, restaurant)
}

// List godoc
// @ID           listRestaurants
// @Summary      List restaurants
// @Description  Administrators see every restaurant, everyone else sees their own country
// @Tags         restaurants
// @Produce      json
// @Success      200 {object} APIResponse[[]catalog.RestaurantResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /restaurants [get]
func (h *RestaurantHandler) List(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}

	restaurants, err := h.restaurantService.List(c.Request.Context(), p)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, restaurants)
}

// Get godoc
// @ID           getRestaurant
// @Summary      Get a restaurant
// @Tags         restaurants
// @Produce      json
// @Param        id path string true "Restaurant ID" format(uuid)
// @Success      200 {object} APIResponse[catalog.RestaurantResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /restaurants/{id} [get]
func (h *RestaurantHandler) Get(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	restaurant, err := h.restaurantService.Get(c.Request.Context(), p, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, restaurant)
}

// Update godoc
// @ID           updateRestaurant
// @Summary      Update a restaurant
// @Tags         restaurants
// @Accept       json
// @Produce      json
// @Param        id path string true "Restaurant ID" format(uuid)
// @Param        request body catalog.UpdateRestaurantRequest true "Fields to change"
// @Success      200 {object} APIResponse[catalog.RestaurantResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /restaurants/{id} [patch]
func (h *RestaurantHandler) Update(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	req, ok := bindJSON[catalog.UpdateRestaurantRequest](&h.BaseHandler, c)
	if !ok {
		return
	}

	restaurant, err := h.restaurantService.Update(c.Request.Context(), p, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, restaurant)
}

// Delete godoc
// @ID           deleteRestaurant
// @Summary      Delete a restaurant
// @Tags         restaurants
// @Param        id path string true "Restaurant ID" format(uuid)
// @Success      204
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /restaurants/{id} [delete]
func (h *RestaurantHandler) Delete(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.restaurantService.Delete(c.Request.Context(), p, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
