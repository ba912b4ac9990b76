package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("ana@example.com"))
	assert.True(t, IsValidEmail("a.b+c@sub.example.org"))
	assert.False(t, IsValidEmail("ana@"))
	assert.False(t, IsValidEmail("not-an-email"))
	assert.False(t, IsValidEmail(""))
}

func TestIsValidWorkoutTime(t *testing.T) {
	for _, ok := range []string{"07:30", "23:59:59", "00:00"} {
		assert.True(t, IsValidWorkoutTime(ok), ok)
	}
	for _, bad := range []string{"24:00", "7:30", "07:60", "morning"} {
		assert.False(t, IsValidWorkoutTime(bad), bad)
	}
}

func TestNilIfBlank(t *testing.T) {
	blank := "   "
	value := " 555-0100 "
	assert.Nil(t, NilIfBlank(nil))
	assert.Nil(t, NilIfBlank(&blank))
	require.NotNil(t, NilIfBlank(&value))
	assert.Equal(t, "555-0100", *NilIfBlank(&value))
}

func TestParseBoundedInt(t *testing.T) {
	assert.Equal(t, 10, ParseBoundedInt("", 10, 100))
	assert.Equal(t, 10, ParseBoundedInt("abc", 10, 100))
	assert.Equal(t, 10, ParseBoundedInt("-3", 10, 100))
	assert.Equal(t, 5, ParseBoundedInt("5", 10, 100))
	assert.Equal(t, 100, ParseBoundedInt("500", 10, 100))
	assert.Equal(t, 500, ParseBoundedInt("500", 10, 0))
}

func TestEnvelopeOmitsEmptyFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	SendError(c, http.StatusNotFound, "User not found")

	assert.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "User not found", body["message"])
	_, hasData := body["data"]
	assert.False(t, hasData)
}

func TestSendSuccessKeepsEmptySlices(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	SendSuccess(c, "", []string{})

	assert.JSONEq(t, `{"success":true,"data":[]}`, w.Body.String())
}
