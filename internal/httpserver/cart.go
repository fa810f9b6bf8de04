package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shop-api/internal/service/cart"
)

type addItemRequest struct {
	ProductID *int64  `json:"product_id"`
	Quantity  *int    `json:"quantity"`
	Color     *string `json:"color"`
	Size      *string `json:"size"`
}

type updateItemRequest struct {
	Quantity *int `json:"quantity"`
}

type addressRequest struct {
	Address string `json:"address"`
	City    string `json:"city"`
	ZipCode string `json:"zip_code"`
}

func (h *handler) getCart(c *gin.Context) {
	o, err := h.deps.CartSvc.GetOrCreateOrder(c.Request.Context(), currentOwner(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cartResponse{ID: o.ID, Status: string(o.Status)})
}

func (h *handler) addToCart(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if req.ProductID == nil {
		badRequest(c, "product_id is required")
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	item, err := h.deps.CartSvc.AddItem(c.Request.Context(), currentOwner(c), cart.AddItemInput{
		ProductID: *req.ProductID,
		Quantity:  qty,
		Color:     req.Color,
		Size:      req.Size,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toItem(*item))
}

func (h *handler) orderItems(c *gin.Context) {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return
	}
	items, err := h.deps.CartSvc.ListItems(c.Request.Context(), currentOwner(c), orderID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toItems(items))
}

func (h *handler) orderDetail(c *gin.Context) {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return
	}
	detail, err := h.deps.CartSvc.OrderDetail(c.Request.Context(), currentOwner(c), orderID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderDetail(detail))
}

func (h *handler) updateItem(c *gin.Context) {
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if req.Quantity == nil {
		badRequest(c, "quantity is required")
		return
	}
	item, err := h.deps.CartSvc.SetItemQuantity(c.Request.Context(), currentOwner(c), itemID, *req.Quantity)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toItem(*item))
}

func (h *handler) deleteItem(c *gin.Context) {
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}
	if err := h.deps.CartSvc.RemoveItem(c.Request.Context(), currentOwner(c), itemID); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) orderHistory(c *gin.Context) {
	orders, err := h.deps.CartSvc.History(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrders(orders))
}

func (h *handler) addShippingAddress(c *gin.Context) {
	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	addr, err := h.deps.CartSvc.AddShippingAddress(c.Request.Context(), currentOwner(c), cart.AddressInput{
		Address: req.Address,
		City:    req.City,
		ZipCode: req.ZipCode,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAddress(*addr))
}

func (h *handler) listShippingAddresses(c *gin.Context) {
	addrs, err := h.deps.CartSvc.ListShippingAddresses(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]addressResponse, 0, len(addrs))
	for _, a := range addrs {
		out = append(out, toAddress(a))
	}
	c.JSON(http.StatusOK, out)
}
