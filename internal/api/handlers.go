package api

import (
	"context"
	"net/http"

	"github.com/Veraticus/microscan/internal/model"
	"github.com/gin-gonic/gin"
)

// Service is the engine surface exposed over HTTP.
type Service interface {
	ResolveProduct(ctx context.Context, name string) ([]model.ClassificationRecord, error)
	FindAlternatives(ctx context.Context, name string, current model.RiskTier) ([]model.ClassificationRecord, error)
	AddUserProduct(ctx context.Context, userID, name string) (model.SavedProductEntry, error)
	RemoveUserProduct(ctx context.Context, userID, entryID string) error
	ListUserProducts(ctx context.Context, userID string) ([]model.SavedProductEntry, error)
	RecentClassifications(ctx context.Context, limit int) ([]model.ClassificationRecord, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
}

// Handler serves the product and user routes.
type Handler struct {
	service Service
}

// NewHandler creates a handler backed by service.
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type productNameRequest struct {
	Name string `json:"name"`
}

// SubmitProduct handles POST /api/submit_product.
func (h *Handler) SubmitProduct(c *gin.Context) {
	var req productNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, CodeValidation, err)
		return
	}

	results, err := h.service.ResolveProduct(c.Request.Context(), req.Name)
	if err != nil {
		respondErr(c, err, "failed to resolve product")
		return
	}

	message := "Product classified"
	if len(results) == 0 {
		message = "No matching products found"
	}
	RespondOK(c, gin.H{"message": message, "results": results})
}

// RecentResults handles GET /api/get_scraper_results.
func (h *Handler) RecentResults(c *gin.Context) {
	results, err := h.service.RecentClassifications(c.Request.Context(), 0)
	if err != nil {
		respondErr(c, err, "failed to retrieve results")
		return
	}
	RespondOK(c, results)
}

// Alternatives handles GET /api/products/alternatives?name=&currentRisk=.
func (h *Handler) Alternatives(c *gin.Context) {
	current, err := model.ParseRiskTier(c.Query("currentRisk"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, CodeValidation, err)
		return
	}

	results, err := h.service.FindAlternatives(c.Request.Context(), c.Query("name"), current)
	if err != nil {
		respondErr(c, err, "failed to find alternatives")
		return
	}
	RespondOK(c, gin.H{"results": results})
}

// Profile handles GET /api/user/profile.
func (h *Handler) Profile(c *gin.Context) {
	user, err := h.service.GetUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondErr(c, err, "failed to fetch user profile")
		return
	}
	RespondOK(c, user)
}

// AddProduct handles POST /api/user/products.
func (h *Handler) AddProduct(c *gin.Context) {
	var req productNameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, CodeValidation, err)
		return
	}

	entry, err := h.service.AddUserProduct(c.Request.Context(), currentUserID(c), req.Name)
	if err != nil {
		respondErr(c, err, "failed to add product")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Product added", "product": entry})
}

// ListProducts handles GET /api/user/products.
func (h *Handler) ListProducts(c *gin.Context) {
	entries, err := h.service.ListUserProducts(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondErr(c, err, "failed to retrieve products")
		return
	}
	RespondOK(c, gin.H{"products": entries})
}

// RemoveProduct handles DELETE /api/user/products/:productId.
func (h *Handler) RemoveProduct(c *gin.Context) {
	if err := h.service.RemoveUserProduct(c.Request.Context(), currentUserID(c), c.Param("productId")); err != nil {
		respondErr(c, err, "failed to delete product")
		return
	}
	RespondOK(c, gin.H{"message": "Product deleted"})
}

// HealthCheck handles GET /healthcheck.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
