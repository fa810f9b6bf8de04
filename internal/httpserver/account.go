package httpserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shop-api/internal/domain"
	"shop-api/internal/service/account"
)

type registerRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Name         string `json:"name"`
	Lastname     string `json:"lastname"`
	Telefonumber string `json:"telefonumber"`
	Address      string `json:"address"`
	City         string `json:"city"`
	ZipCode      string `json:"zip_code"`
	Birthday     string `json:"birthday"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Access    string `json:"access"`
	Refresh   string `json:"refresh,omitempty"`
	ExpiresIn int    `json:"expires_in,omitempty"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type resetRequest struct {
	Email string `json:"email"`
}

type resetConfirmRequest struct {
	Email    string `json:"email"`
	Token    string `json:"token"`
	Password string `json:"password"`
}

type profileUpdateRequest struct {
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	Email        *string `json:"email"`
	Telefonumber *string `json:"telefonumber"`
	Address      *string `json:"address"`
	City         *string `json:"city"`
	ZipCode      *string `json:"zip_code"`
	Birthday     *string `json:"birthday"`
}

func (h *handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	_, err := h.deps.AccountSvc.Register(c.Request.Context(), account.RegisterInput{
		Email:        req.Email,
		Password:     req.Password,
		Name:         req.Name,
		Lastname:     req.Lastname,
		Telefonumber: req.Telefonumber,
		Address:      req.Address,
		City:         req.City,
		ZipCode:      req.ZipCode,
		Birthday:     req.Birthday,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Registration successful!"})
}

func (h *handler) verifyEmail(c *gin.Context) {
	if err := h.deps.AccountSvc.VerifyEmail(c.Request.Context(), c.Query("email"), c.Query("token")); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, h.deps.AccountSvc.VerifiedRedirectURL())
}

// login issues tokens and hands the caller's anonymous cart to the user.
func (h *handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	ctx := c.Request.Context()
	user, access, refresh, err := h.deps.AccountSvc.Login(ctx, req.Username, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	if sid, err := c.Cookie(h.opts.SessionCookie); err == nil {
		if token, ok := h.deps.Identity.AnonymousToken(ctx, sid); ok {
			adopted, err := h.deps.CartSvc.AdoptAnonymousOrder(ctx, token, user.ID)
			switch {
			case err != nil:
				h.logger.Warn("login: adopting anonymous order failed", zap.Int64("user_id", user.ID), zap.Error(err))
			case adopted != nil:
				h.deps.Identity.Forget(ctx, sid)
			}
		}
	}

	c.JSON(http.StatusOK, tokenResponse{Access: access, Refresh: refresh, ExpiresIn: h.deps.AccountSvc.AccessTTLSeconds()})
}

func (h *handler) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Refresh == "" {
		badRequest(c, "refresh is required")
		return
	}
	access, err := h.deps.AccountSvc.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse{Access: access, ExpiresIn: h.deps.AccountSvc.AccessTTLSeconds()})
}

func (h *handler) requestPasswordReset(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if err := h.deps.AccountSvc.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Password reset email sent!"})
}

func (h *handler) confirmPasswordReset(c *gin.Context) {
	var req resetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if err := h.deps.AccountSvc.ConfirmPasswordReset(c.Request.Context(), req.Email, req.Token, req.Password); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: "Password reset successfully!"})
}

func (h *handler) protected(c *gin.Context) {
	c.JSON(http.StatusOK, messageResponse{
		Message: fmt.Sprintf("Hello %s, you are authenticated!", currentUser(c).Username),
	})
}

func (h *handler) profile(c *gin.Context) {
	u, err := h.deps.AccountSvc.Profile(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfile(*u))
}

func (h *handler) updateProfile(c *gin.Context) {
	var req profileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	u, err := h.deps.AccountSvc.UpdateProfile(c.Request.Context(), currentUser(c).ID, domain.ProfileUpdate{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Telefonumber: req.Telefonumber,
		Address:      req.Address,
		City:         req.City,
		ZipCode:      req.ZipCode,
		Birthday:     req.Birthday,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfile(*u))
}

func (h *handler) deleteAccount(c *gin.Context) {
	if err := h.deps.AccountSvc.DeleteAccount(c.Request.Context(), currentUser(c).ID); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
