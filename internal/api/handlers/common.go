package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/resumeats/internal/utils"
)

type APIError struct {
	Error   string             `json:"error"`
	Code    utils.Code         `json:"code"`
	Details []utils.FieldError `json:"details,omitempty"`
	Debug   string             `json:"debug,omitempty"`
}

func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)
	_ = c.Error(err)

	var ae *utils.AppError
	if errors.As(err, &ae) && status < http.StatusInternalServerError {
		c.JSON(status, APIError{
			Error:   ae.Message,
			Code:    ae.Code,
			Details: ae.Fields,
		})
		return
	}

	body := APIError{Error: "Server error", Code: utils.CodeInternal}
	if ae != nil {
		body.Code = ae.Code
		if ae.Code == utils.CodeUnavailable || ae.Code == utils.CodeTimeout {
			body.Error = ae.Message
		}
	}
	if c.GetBool(utils.CtxShowErrorDetails) {
		body.Debug = err.Error()
	}
	c.JSON(status, body)
}

func badRequest(c *gin.Context, op string, err error) {
	writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
}

func requireUserID(c *gin.Context) (string, bool) {
	if v, ok := c.Get("user_id"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}

	writeError(c, utils.E(utils.CodeUnauthorized, "Auth", "unauthorized", nil))
	return "", false
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}
