package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/yukikurage/student-planner-api/internal/constants"
)

func paginationContext(query string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/tasks?"+query, nil)
	return c
}

func TestGetPaginationParams_NoQuery(t *testing.T) {
	assert.Equal(t, PaginationParams{}, GetPaginationParams(paginationContext("")))
}

func TestGetPaginationParams_Values(t *testing.T) {
	params := GetPaginationParams(paginationContext("page=3&limit=10"))
	assert.Equal(t, PaginationParams{Page: 3, Limit: 10, Offset: 20}, params)
}

func TestGetPaginationParams_Clamps(t *testing.T) {
	params := GetPaginationParams(paginationContext("page=-2&limit=100000"))
	assert.Equal(t, 1, params.Page)
	assert.Equal(t, constants.DefaultPageSize, params.Limit)
	assert.Equal(t, 0, params.Offset)
}
