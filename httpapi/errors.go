package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stylebook/gateway"
)

type errorBody struct {
	ErrorCode string `json:"error_code"`
	TraceID   string `json:"trace_id,omitempty"`
}

var statusByKind = map[gateway.Kind]int{
	gateway.KindDuplicateUsername:  http.StatusConflict,
	gateway.KindInvalidCredentials: http.StatusUnauthorized,
	gateway.KindNotAuthenticated:   http.StatusUnauthorized,
	gateway.KindForbidden:          http.StatusForbidden,
	gateway.KindNotFound:           http.StatusNotFound,
	gateway.KindProfileNotFound:    http.StatusNotFound,
	gateway.KindInvalidPrice:       http.StatusBadRequest,
	gateway.KindInvalidServiceKind: http.StatusBadRequest,
	gateway.KindInvalidRating:      http.StatusBadRequest,
	gateway.KindInvalidTransition:  http.StatusConflict,
	gateway.KindInvalidInput:       http.StatusBadRequest,
	gateway.KindInvalidImage:       http.StatusUnsupportedMediaType,
	gateway.KindPersistence:        http.StatusInternalServerError,
}

// statusFor maps a gateway failure kind onto an HTTP status.
func statusFor(kind gateway.Kind) int {
	if status, ok := statusByKind[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// respondError writes the kind of err only; causes never leave the process.
func respondError(c *gin.Context, err error) {
	kind := gateway.KindOf(err)
	c.AbortWithStatusJSON(statusFor(kind), errorBody{
		ErrorCode: string(kind),
		TraceID:   c.GetString(traceIDKey),
	})
}

func respondBadRequest(c *gin.Context) {
	respondError(c, gateway.ErrInvalidInput)
}
