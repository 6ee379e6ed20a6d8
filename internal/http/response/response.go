package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/pitchbridge/internal/platform/apierr"
	"github.com/yungbote/pitchbridge/internal/services"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
	// Form is the re-enabled submit control of a failed auth form.
	Form *services.FormState `json:"form,omitempty"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// Fail writes err with the status and code it carries. Anything that is not an
// *apierr.Error is reported as a 500.
func Fail(c *gin.Context, err error) {
	var fe *services.FormError
	if errors.As(err, &fe) {
		form := fe.Form
		c.JSON(fe.Err.Status, ErrorEnvelope{
			Error: APIError{Message: fe.Err.Error(), Code: fe.Err.Code},
			Form:  &form,
		})
		return
	}
	ae := apierr.As(err)
	status := ae.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	RespondError(c, status, ae.Code, ae)
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
