package i18n

import (
	"net/http"

	"github.com/amoylab/sdctrack/internal/common/errorx"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Responder writes the {success, data} / {success, error} envelope and
// localizes error messages for the request language
type Responder struct {
	translator  *Translator
	defaultLang string
	logger      *zap.Logger
}

// NewResponder creates a Responder. translator may be nil, in which case
// errors are reported with their English default message.
func NewResponder(translator *Translator, defaultLang string, logger *zap.Logger) *Responder {
	return &Responder{
		translator:  translator,
		defaultLang: defaultLang,
		logger:      logger.Named("response"),
	}
}

// OK writes a 200 success envelope
func (r *Responder) OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// Error writes an error envelope and aborts the chain. Errors that are not
// APIErrors are reported as internal errors.
func (r *Responder) Error(c *gin.Context, err error) {
	if err == nil {
		return
	}
	apiErr := errorx.From(err)

	if apiErr.HTTPStatus >= http.StatusInternalServerError {
		r.logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("code", apiErr.Code),
			zap.Error(err),
		)
	}

	c.AbortWithStatusJSON(apiErr.HTTPStatus, gin.H{
		"success": false,
		"error":   r.Message(c, apiErr),
	})
}

// Message returns the localized text of apiErr for the request
func (r *Responder) Message(c *gin.Context, apiErr *errorx.APIError) string {
	if r.translator != nil {
		lang := FromContext(c, r.defaultLang)
		if msg, ok := r.translator.Translate(lang, apiErr.MessageID, apiErr.Data); ok {
			return msg
		}
	}
	return apiErr.DefaultMessage()
}
