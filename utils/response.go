package utils

import "github.com/gin-gonic/gin"

// Machine-readable error kinds carried in the response envelope. Callers
// branch on these; the detail string is for humans.
const (
	KindValidationError  = "ValidationError"
	KindNotFound         = "NotFound"
	KindInvalidReference = "InvalidReference"
	KindPermissionDenied = "PermissionDenied"
	KindRateLimited      = "RateLimited"
	KindStorageFailure   = "StorageFailure"
)

// JSONResponse defines the uniform structure for API responses.
type JSONResponse struct {
	Code    int         `json:"code"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Respond writes a JSON response with the given status code.
func Respond(ctx *gin.Context, status int, code int, kind, message string, data interface{}) {
	ctx.JSON(status, JSONResponse{
		Code:    code,
		Error:   kind,
		Message: message,
		Data:    data,
	})
}

// Success returns a standard success response.
func Success(ctx *gin.Context, data interface{}) {
	Respond(ctx, 200, 0, "", "success", data)
}

// Created returns a 201 response with the created resource.
func Created(ctx *gin.Context, data interface{}) {
	Respond(ctx, 201, 0, "", "created", data)
}

// Error returns a standard error response with a taxonomy kind and detail.
func Error(ctx *gin.Context, status int, code int, kind, detail string) {
	Respond(ctx, status, code, kind, detail, nil)
}
