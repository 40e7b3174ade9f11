package util

import (
	"errors"

	"github.com/gin-gonic/gin"
)

// GetSubjectFromContext gets the authenticated caller's subject from the context.
func GetSubjectFromContext(c *gin.Context) (string, error) {
	val, ok := c.Get("subject")
	if !ok {
		return "", errors.New("no subject information")
	}

	subject, ok := val.(string)
	if !ok {
		return "", errors.New("subject information is of the wrong type")
	}

	return subject, nil
}
