package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"studentadmin/internal/auth"
	"studentadmin/internal/student"
)

type studentHandler struct {
	svc StudentService
	log *zap.Logger
}

// actorName resolves who performed a mutation for the audit trail.
func actorName(c *gin.Context) string {
	return auth.ClaimsFrom(c).Username
}

func (h *studentHandler) list(c *gin.Context) {
	records, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error", "error": err.Error()})
		return
	}
	if records == nil {
		records = []student.Record{}
	}
	c.JSON(http.StatusOK, records)
}

func (h *studentHandler) create(c *gin.Context) {
	var fields student.Fields
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Payload tidak valid"})
		return
	}
	claims := auth.ClaimsFrom(c)
	rec, err := h.svc.Create(c.Request.Context(), claims.Username, claims.UserID, fields)
	if err != nil {
		if errors.Is(err, student.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Nama dan TTL harus diisi"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": rec})
}

func (h *studentHandler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var fields student.Fields
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Payload tidak valid"})
		return
	}
	rec, err := h.svc.Update(c.Request.Context(), actorName(c), id, fields)
	if err != nil {
		switch {
		case errors.Is(err, student.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Nama dan TTL harus diisi"})
		case errors.Is(err, student.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Siswa tidak ditemukan"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error", "error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": rec})
}

func (h *studentHandler) remove(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), actorName(c), id); err != nil {
		if errors.Is(err, student.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Siswa tidak ditemukan"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Siswa berhasil dihapus"})
}

func (h *studentHandler) uploadPhoto(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	file, header, err := c.Request.FormFile("foto_profil")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Tidak ada file yang diupload"})
		return
	}
	defer file.Close()

	rec, err := h.svc.AttachPhoto(c.Request.Context(), actorName(c), id, header.Filename, file)
	if err != nil {
		if errors.Is(err, student.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Siswa tidak ditemukan"})
			return
		}
		h.log.Error("photo upload failed", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Foto berhasil diupload", "data": rec})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Siswa tidak ditemukan"})
		return 0, false
	}
	return id, true
}
