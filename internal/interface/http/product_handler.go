package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jyotir-aditya/fullstackAssignment/internal/application"
	"github.com/jyotir-aditya/fullstackAssignment/internal/domain/entity"
	"github.com/jyotir-aditya/fullstackAssignment/internal/interface/middleware"
	"github.com/jyotir-aditya/fullstackAssignment/pkg/response"
	"github.com/jyotir-aditya/fullstackAssignment/pkg/validation"
)

type ProductHandler struct {
	Svc    *application.ProductService
	Logger *logrus.Logger
}

func NewProductHandler(svc *application.ProductService, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{Svc: svc, Logger: logger}
}

type createProductRequest struct {
	Name        string   `json:"name" binding:"required,notblank,productname"`
	Description string   `json:"description" binding:"required,notblank"`
	Category    string   `json:"category" binding:"required,notblank"`
	Price       *float64 `json:"price" binding:"required,gte=0"`
	Rating      *float64 `json:"rating" binding:"required,gte=0,lte=5"`
}

type updateProductRequest struct {
	Name        *string  `json:"name" binding:"omitempty,notblank,productname"`
	Description *string  `json:"description" binding:"omitempty,notblank"`
	Category    *string  `json:"category" binding:"omitempty,notblank"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	Rating      *float64 `json:"rating" binding:"omitempty,gte=0,lte=5"`
}

type listProductsQuery struct {
	Search    string   `form:"search" json:"search"`
	Category  string   `form:"category" json:"category"`
	MinPrice  *float64 `form:"minPrice" json:"minPrice" binding:"omitempty,gte=0"`
	MaxPrice  *float64 `form:"maxPrice" json:"maxPrice" binding:"omitempty,gte=0"`
	MinRating *float64 `form:"minRating" json:"minRating" binding:"omitempty,gte=0,lte=5"`
	SortBy    string   `form:"sortBy" json:"sortBy"`
	SortOrder string   `form:"sortOrder" json:"sortOrder"`
	Page      int      `form:"page,default=1" json:"page" binding:"gte=1"`
	Limit     int      `form:"limit,default=8" json:"limit" binding:"gte=1,lte=100"`
}

func (q listProductsQuery) toFilter() (entity.ProductFilter, error) {
	sortBy, err := entity.ParseSortField(q.SortBy)
	if err != nil {
		return entity.ProductFilter{}, err
	}
	order, err := entity.ParseSortOrder(q.SortOrder)
	if err != nil {
		return entity.ProductFilter{}, err
	}
	return entity.ProductFilter{
		Search:    q.Search,
		Category:  q.Category,
		MinPrice:  q.MinPrice,
		MaxPrice:  q.MaxPrice,
		MinRating: q.MinRating,
		SortBy:    sortBy,
		SortOrder: order,
		Page:      q.Page,
		Limit:     q.Limit,
	}, nil
}

func (h *ProductHandler) List(c *gin.Context) {
	var q listProductsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return
	}
	f, err := q.toFilter()
	if err != nil {
		writeServiceError(c, h.Logger, err, "fetch products")
		return
	}
	page, err := h.Svc.List(c.Request.Context(), f)
	if err != nil {
		writeServiceError(c, h.Logger, err, "fetch products")
		return
	}
	response.JSON(c, http.StatusOK, page)
}

// productID returns the path id, or false after replying 404 for ids that
// cannot name a product.
func productID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		response.Error(c, http.StatusNotFound, "Product not found", nil)
		return "", false
	}
	return id, true
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}
	p, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, h.Logger, err, "fetch product")
		return
	}
	response.JSON(c, http.StatusOK, p)
}

func (h *ProductHandler) Create(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Svc.Create(c.Request.Context(), application.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       *req.Price,
		Rating:      *req.Rating,
	}, actor)
	if err != nil {
		writeServiceError(c, h.Logger, err, "create product")
		return
	}
	response.JSON(c, http.StatusCreated, p)
}

func (h *ProductHandler) Update(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}
	id, ok := productID(c)
	if !ok {
		return
	}
	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	patch := entity.ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Rating:      req.Rating,
	}
	p, err := h.Svc.Update(c.Request.Context(), id, patch, actor)
	if err != nil {
		writeServiceError(c, h.Logger, err, "update")
		return
	}
	response.JSON(c, http.StatusOK, p)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}
	id, ok := productID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id, actor); err != nil {
		writeServiceError(c, h.Logger, err, "delete")
		return
	}
	response.Message(c, http.StatusOK, "Product deleted successfully")
}
