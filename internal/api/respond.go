package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/safar/ekart/internal/database"
)

func errorStatus(class database.ErrorClass) int {
	switch class {
	case database.ErrorClassValidation:
		return http.StatusBadRequest
	case database.ErrorClassNotFound:
		return http.StatusNotFound
	case database.ErrorClassConflict:
		return http.StatusConflict
	case database.ErrorClassUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error": ...}. Internal failures are logged with
// the request id and reported with a generic message.
func respondError(c *gin.Context, err error) {
	status := errorStatus(database.ClassifyError(err))
	if status == http.StatusInternalServerError {
		requestLogger(c).WithError(err).Error("request failed")
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

func message(c *gin.Context, text string) {
	c.JSON(http.StatusOK, gin.H{"message": text})
}

// pathID parses a positive integer path parameter, writing a 400 when it is
// malformed.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return false
	}
	return true
}
