package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes carried in JSONResponse.Code.
const (
	CodeOK           = 0
	CodeInvalid      = 40000
	CodeUnauthorized = 40100
	CodeForbidden    = 40300
	CodeNotFound     = 40400
	CodeRateLimited  = 42900
	CodeInternal     = 50000
)

// JSONResponse defines the uniform structure for API responses.
type JSONResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Respond writes a JSON response with the given status code.
func Respond(ctx *gin.Context, status int, code int, message string, data interface{}) {
	ctx.JSON(status, JSONResponse{
		Code:    code,
		Message: message,
		Data:    data,
	})
}

// Success returns a standard success response.
func Success(ctx *gin.Context, data interface{}) {
	Respond(ctx, http.StatusOK, CodeOK, "success", data)
}

// Error returns a standard error response.
func Error(ctx *gin.Context, status int, code int, message string) {
	Respond(ctx, status, code, message, nil)
}

// Invalid reports field errors along with the submitted form so the client
// can show the form again.
func Invalid(ctx *gin.Context, fields map[string]string, form interface{}) {
	Respond(ctx, http.StatusBadRequest, CodeInvalid, "validation failed", gin.H{
		"errors": fields,
		"form":   form,
	})
}
