package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"studentadmin/internal/auth"
)

type authHandler struct {
	svc AuthService
}

type registerRequest struct {
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required"`
	NamaLengkap string `json:"nama_lengkap" binding:"required"`
	Email       string `json:"email"`
	Role        string `json:"role"`
}

func (h *authHandler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "username, password dan nama_lengkap harus diisi"})
		return
	}
	userID, err := h.svc.Register(c.Request.Context(), req.Username, req.Password, req.NamaLengkap, req.Email, req.Role)
	if err != nil {
		if errors.Is(err, auth.ErrDuplicateUsername) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Username sudah digunakan"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Gagal mendaftarkan user", "error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "User berhasil didaftarkan",
		"userId":  userID,
	})
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *authHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Username atau password salah"})
		return
	}
	sess, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Username atau password salah"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Gagal login", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Login berhasil",
		"token":   sess.Token,
		"user": gin.H{
			"id":           sess.User.ID,
			"username":     sess.User.Username,
			"nama_lengkap": sess.User.NamaLengkap,
			"email":        sess.User.Email,
			"role":         sess.User.Role,
		},
	})
}
