package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/pitchbridge/internal/platform/apierr"
	"github.com/yungbote/pitchbridge/internal/services"
)

func TestFail(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
		wantForm   bool
	}{
		{
			name:       "api_error",
			err:        apierr.Forbidden("own_idea", "⚠️ This is your own idea!"),
			wantStatus: http.StatusForbidden,
			wantCode:   "own_idea",
			wantMsg:    "⚠️ This is your own idea!",
		},
		{
			name: "form_error",
			err: &services.FormError{
				Err:  apierr.Invalid("missing_fields", "Please fill all fields"),
				Form: services.FormState{Enabled: true, Label: services.SignUpLabel},
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "missing_fields",
			wantMsg:    "Please fill all fields",
			wantForm:   true,
		},
		{
			name:       "plain_error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "internal_error",
			wantMsg:    "boom",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			Fail(c, tt.err)

			if w.Code != tt.wantStatus {
				t.Fatalf("status=%d want %d", w.Code, tt.wantStatus)
			}
			var env ErrorEnvelope
			if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.Error.Code != tt.wantCode || env.Error.Message != tt.wantMsg {
				t.Fatalf("envelope %+v", env.Error)
			}
			if (env.Form != nil) != tt.wantForm {
				t.Fatalf("form=%+v", env.Form)
			}
			if tt.wantForm && (!env.Form.Enabled || env.Form.Label != services.SignUpLabel) {
				t.Fatalf("form %+v", env.Form)
			}
		})
	}
}
