package httpserver

import (
	"time"

	"shop-api/internal/domain"
	"shop-api/internal/service/cart"
)

type cartResponse struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

type orderResponse struct {
	ID              int64     `json:"id"`
	User            *int64    `json:"user"`
	ShippingAddress *int64    `json:"shippingAddress"`
	CreatedAt       time.Time `json:"created_at"`
	Status          string    `json:"status"`
}

type orderDetailResponse struct {
	orderResponse
	Items    []itemResponse `json:"items"`
	Total    string         `json:"total"`
	Currency string         `json:"currency"`
}

type itemResponse struct {
	ID       int64            `json:"id"`
	Order    int64            `json:"order"`
	Product  *productResponse `json:"product"`
	Quantity int              `json:"quantity"`
	Color    *string          `json:"color"`
	Size     *string          `json:"size"`
}

type productResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       string          `json:"price"`
	Category    string          `json:"category"`
	Images      []imageResponse `json:"images"`
}

type imageResponse struct {
	ID        int64  `json:"id"`
	Image     string `json:"image"`
	Color     string `json:"color"`
	ColorCode string `json:"color_code"`
}

type categoryResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type addressResponse struct {
	ID      int64  `json:"id"`
	User    *int64 `json:"user"`
	Order   *int64 `json:"order"`
	Address string `json:"address"`
	City    string `json:"city"`
	ZipCode string `json:"zip_code"`
}

type profileResponse struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	Telefonumber string `json:"telefonumber"`
	Address      string `json:"address"`
	City         string `json:"city"`
	ZipCode      string `json:"zip_code"`
	Birthday     string `json:"birthday"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func toOrder(o domain.Order) orderResponse {
	return orderResponse{
		ID:              o.ID,
		User:            o.UserID,
		ShippingAddress: o.ShippingAddressID,
		CreatedAt:       o.CreatedAt,
		Status:          string(o.Status),
	}
}

func toOrders(orders []domain.Order) []orderResponse {
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrder(o))
	}
	return out
}

func toOrderDetail(d *cart.OrderDetail) orderDetailResponse {
	return orderDetailResponse{
		orderResponse: toOrder(*d.Order),
		Items:         toItems(d.Items),
		Total:         d.Total.String(),
		Currency:      d.Total.Currency.String(),
	}
}

func toItem(item domain.OrderItem) itemResponse {
	resp := itemResponse{
		ID:       item.ID,
		Order:    item.OrderID,
		Quantity: item.Quantity,
		Color:    item.Variant.ColorPtr(),
		Size:     item.Variant.SizePtr(),
	}
	if item.Product != nil {
		p := toProduct(*item.Product)
		resp.Product = &p
	}
	return resp
}

func toItems(items []domain.OrderItem) []itemResponse {
	out := make([]itemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toItem(item))
	}
	return out
}

func toProduct(p domain.Product) productResponse {
	images := make([]imageResponse, 0, len(p.Images))
	for _, img := range p.Images {
		images = append(images, imageResponse{ID: img.ID, Image: img.Image, Color: img.Color, ColorCode: img.ColorCode})
	}
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.StringFixed(2),
		Category:    p.CategoryName,
		Images:      images,
	}
}

func toAddress(a domain.ShippingAddress) addressResponse {
	return addressResponse{ID: a.ID, User: a.UserID, Order: a.OrderID, Address: a.Address, City: a.City, ZipCode: a.ZipCode}
}

func toProfile(u domain.User) profileResponse {
	return profileResponse{
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		Telefonumber: u.Profile.Telefonumber,
		Address:      u.Profile.Address,
		City:         u.Profile.City,
		ZipCode:      u.Profile.ZipCode,
		Birthday:     u.Profile.Birthday,
	}
}
