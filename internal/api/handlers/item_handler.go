package handlers

import (
	"net/http"
	"time"

	"bidding-system/internal/domain"
	"bidding-system/pkg/logger"

	"github.com/labstack/echo/v4"
)

type CreateItemRequest struct {
	Name          string    `json:"name"`
	StartingPrice float64   `json:"starting_price"`
	EndingAt      time.Time `json:"ending_at"`
}

type ItemResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Price            float64   `json:"price"`
	Bids             int64     `json:"bids"`
	EndingAt         time.Time `json:"ending_at"`
	HighestBidUserID string    `json:"highest_bid_user_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

type ItemListResponse struct {
	Order  string              `json:"order"`
	Offset int                 `json:"offset"`
	Items  []domain.PricedItem `json:"items"`
}

type ItemHandler struct {
	catalog         ItemCatalog
	defaultPageSize int
	log             logger.Logger
}

func NewItemHandler(catalog ItemCatalog, defaultPageSize int, log logger.Logger) *ItemHandler {
	return &ItemHandler{
		catalog:         catalog,
		defaultPageSize: defaultPageSize,
		log:             log,
	}
}

func (h *ItemHandler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.POST("/items", h.CreateItem)
	api.GET("/items", h.ListItems)
	api.GET("/items/:id", h.GetItem)
}

func (h *ItemHandler) CreateItem(c echo.Context) error {
	var req CreateItemRequest
	if err := c.Bind(&req); err != nil {
		h.log.Debug("Failed to bind item request", "error", err)
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body", Reason: "invalid_item"})
	}

	item, err := h.catalog.CreateItem(c.Request().Context(), req.Name, req.StartingPrice, req.EndingAt)
	if err != nil {
		return h.errorJSON(c, err)
	}

	h.log.Info("Item created", "item_id", item.ID, "remote_addr", c.RealIP())
	return c.JSON(http.StatusCreated, toItemResponse(item))
}

func (h *ItemHandler) GetItem(c echo.Context) error {
	item, err := h.catalog.GetItem(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, toItemResponse(item))
}

func (h *ItemHandler) ListItems(c echo.Context) error {
	order := c.QueryParam("order")
	switch order {
	case "":
		order = "desc"
	case "asc", "desc":
	default:
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "order must be asc or desc", Reason: "invalid_page"})
	}

	offset, err := intParam(c.QueryParam("offset"), 0)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "offset must be an integer", Reason: "invalid_page"})
	}
	count, err := intParam(c.QueryParam("count"), h.defaultPageSize)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "count must be an integer", Reason: "invalid_page"})
	}

	items, err := h.catalog.ListByPrice(c.Request().Context(), offset, count, order == "desc")
	if err != nil {
		return h.errorJSON(c, err)
	}

	return c.JSON(http.StatusOK, ItemListResponse{
		Order:  order,
		Offset: offset,
		Items:  items,
	})
}

func (h *ItemHandler) errorJSON(c echo.Context, err error) error {
	status, reason, retry := classify(err)
	if status == http.StatusInternalServerError {
		h.log.Error("Request failed", "path", c.Path(), "error", err)
	}
	if retry {
		c.Response().Header().Set("Retry-After", retryAfterSeconds)
	}
	return c.JSON(status, errorBody(err, status, reason))
}

func toItemResponse(item *domain.Item) ItemResponse {
	return ItemResponse{
		ID:               item.ID,
		Name:             item.Name,
		Price:            item.Price,
		Bids:             item.Bids,
		EndingAt:         item.EndingAt.UTC(),
		HighestBidUserID: item.HighestBidUserID,
		CreatedAt:        item.CreatedAt.UTC(),
	}
}
