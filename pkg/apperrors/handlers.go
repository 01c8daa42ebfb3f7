package apperrors

import (
	"github.com/gin-gonic/gin"
)

// ServerErrorLogger receives 5xx errors before they are rendered
type ServerErrorLogger func(c *gin.Context, appErr *AppError)

// GinErrorHandler - renders errors for gin
type GinErrorHandler struct {
	Debug  bool
	OnFail ServerErrorLogger
}

var defaultHandler = &GinErrorHandler{}

// Configure sets process-wide behaviour of HandleError
func Configure(debug bool, onFail ServerErrorLogger) {
	defaultHandler = &GinErrorHandler{Debug: debug, OnFail: onFail}
}

func (h *GinErrorHandler) HandleGinError(c *gin.Context, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = InternalError(err)
	}

	if appErr.HTTPCode >= 500 {
		if h.OnFail != nil {
			h.OnFail(c, appErr)
		}
		if !h.Debug {
			appErr = &AppError{
				Code:     appErr.Code,
				Domain:   appErr.Domain,
				Message:  appErr.Message,
				HTTPCode: appErr.HTTPCode,
			}
		}
	}

	c.AbortWithStatusJSON(appErr.HTTPCode, appErr)
}

// HandleError writes err as the JSON envelope
func HandleError(c *gin.Context, err error) {
	defaultHandler.HandleGinError(c, err)
}

func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
