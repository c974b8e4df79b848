package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"scar_tracker/internal/apperrors"
)

// respondError writes the HTTP representation of a workflow error. Validation
// errors carry the missing field list so the form layer can mark them.
func respondError(c *gin.Context, err error) {
	var ve *apperrors.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error(), "fields": ve.Fields})
		return
	}
	c.JSON(apperrors.StatusFor(err), gin.H{"error": err.Error()})
}

// translateDBError folds persistence failures into the workflow taxonomy:
// missing rows become NotFound, unique violations become Conflict.
func translateDBError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound
	}
	if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
		return apperrors.ErrConflict
	}
	if strings.Contains(err.Error(), "duplicate key") {
		return apperrors.ErrConflict
	}
	return err
}
