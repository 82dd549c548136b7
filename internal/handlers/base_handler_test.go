package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fanstero_backend/internal/validator"
	"fanstero_backend/pkg/apperrors"
	"fanstero_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"", 20, 0},
		{"?page=3&page_size=10", 10, 20},
		{"?page=-1&page_size=1000", 100, 0},
		{"?page=abc", 20, 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c, _ := newContext(http.MethodGet, "/x"+tt.query, "")
			limit, offset := ParsePagination(c)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}

func TestParseParamID(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/x", "")
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	id, ok := ParseParamID(c, "id")
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)

	c, w := newContext(http.MethodGet, "/x", "")
	c.Params = gin.Params{{Key: "id", Value: "0"}}
	_, ok = ParseParamID(c, "id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestParseParamTelegramID_Negative(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/x", "")
	c.Params = gin.Params{{Key: "telegram_id", Value: "-1001234"}}
	id, ok := ParseParamTelegramID(c, "telegram_id")
	assert.True(t, ok)
	assert.Equal(t, int64(-1001234), id)
}

func TestBindAndValidate_JSON(t *testing.T) {
	h := NewBaseHandler(validator.New(), Guards{})

	type request struct {
		Name string `json:"name" validate:"required"`
	}

	c, _ := newContext(http.MethodPost, "/x", `{"name":"ok"}`)
	var req request
	assert.True(t, h.BindAndValidate_JSON(c, &req))
	assert.Equal(t, "ok", req.Name)

	c, w := newContext(http.MethodPost, "/x", `{}`)
	assert.False(t, h.BindAndValidate_JSON(c, &request{}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_FAILED")

	c, w = newContext(http.MethodPost, "/x", `not json`)
	assert.False(t, h.BindAndValidate_JSON(c, &request{}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleServiceError(t *testing.T) {
	h := NewBaseHandler(validator.New(), Guards{})

	c, w := newContext(http.MethodGet, "/x", "")
	h.HandleServiceError(c, apperrors.ErrPaidPlanRequiresPayment)
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.Contains(t, w.Body.String(), "PAYMENT_REQUIRED")

	c, w = newContext(http.MethodGet, "/x", "")
	h.HandleServiceError(c, errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetAndAuthorizeUserID(t *testing.T) {
	h := NewBaseHandler(validator.New(), Guards{})

	c, w := newContext(http.MethodGet, "/x", "")
	_, ok := h.GetAndAuthorizeUserID(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	c, _ = newContext(http.MethodGet, "/x", "")
	c.Set(contextkeys.UserIDKey, uint(9))
	id, ok := h.GetAndAuthorizeUserID(c)
	assert.True(t, ok)
	assert.Equal(t, uint(9), id)
}
