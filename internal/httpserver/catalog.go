package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"shop-api/internal/domain"
)

func (h *handler) listCategories(c *gin.Context) {
	cats, err := h.deps.CategorySvc.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]categoryResponse, 0, len(cats))
	for _, cat := range cats {
		out = append(out, categoryResponse{ID: cat.ID, Name: cat.Name})
	}
	c.JSON(http.StatusOK, out)
}

func (h *handler) listProducts(c *gin.Context) {
	filter := domain.ProductFilter{
		Search:   c.Query("search"),
		Ordering: domain.ProductOrdering(c.Query("ordering")),
	}
	if raw := strings.TrimSpace(c.Query("category")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			badRequest(c, "category must be a numeric id")
			return
		}
		filter.CategoryID = &id
	}

	products, err := h.deps.ProductSvc.List(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProduct(p))
	}
	c.JSON(http.StatusOK, out)
}

func (h *handler) getProduct(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	p, err := h.deps.ProductSvc.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toProduct(*p))
}
