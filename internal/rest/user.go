package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/blog-comments/domain"
	"github.com/Guyuepp/blog-comments/internal/rest/request"
	"github.com/Guyuepp/blog-comments/internal/rest/response"
)

type UserHandler struct {
	Service domain.UserUsecase
}

func NewUserHandler(svc domain.UserUsecase) *UserHandler {
	return &UserHandler{
		Service: svc,
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req request.Register
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	u, err := h.Service.Register(c.Request.Context(), req.Name, req.Username, req.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": response.NewUserFromDomain(&u)})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req request.Login
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	token, err := h.Service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Me returns the authenticated user
func (h *UserHandler) Me(c *gin.Context) {
	caller := callerFrom(c)
	if !caller.Authenticated() {
		abortWithError(c, domain.ErrUnauthorized)
		return
	}
	u, err := h.Service.GetByID(c.Request.Context(), caller.UserID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": response.NewUserFromDomain(&u)})
}

// Update changes the authenticated user's profile
func (h *UserHandler) Update(c *gin.Context) {
	var req request.UpdateUser
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	u, err := h.Service.Update(c.Request.Context(), callerFrom(c), req.ToPatch())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": response.NewUserFromDomain(&u)})
}

// Delete removes the authenticated user with everything they wrote
func (h *UserHandler) Delete(c *gin.Context) {
	u, err := h.Service.Delete(c.Request.Context(), callerFrom(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": response.NewUserFromDomain(&u)})
}
