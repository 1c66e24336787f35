package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type samplePayload struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

func bindSample(t *testing.T, body string) error {
	t.Helper()
	gin.SetMode(gin.TestMode)
	Init()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	var p samplePayload
	return c.ShouldBindJSON(&p)
}

func TestToDetailsUsesJSONFieldNames(t *testing.T) {
	err := bindSample(t, `{"email":"not-an-email","password":"short"}`)
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "min length 8", details["password"])
}

func TestToDetailsMalformedJSON(t *testing.T) {
	err := bindSample(t, `{"email": nope}`)
	require.Error(t, err)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))
}

func TestToDetailsNil(t *testing.T) {
	assert.Nil(t, ToDetails(nil))
}
