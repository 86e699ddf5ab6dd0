package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func parseFrom(rawQuery string) *PageParams {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+rawQuery, nil)
	return ParsePageParams(c)
}

// 非法参数回退到默认值，页大小有上限
func TestParsePageParams(t *testing.T) {
	p := parseFrom("")
	assert.Equal(t, DefaultPage, p.Page)
	assert.Equal(t, DefaultPageSize, p.PageSize)

	p = parseFrom("page=3&page_size=25")
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 25, p.PageSize)

	p = parseFrom("page=0&page_size=-5")
	assert.Equal(t, DefaultPage, p.Page)
	assert.Equal(t, DefaultPageSize, p.PageSize)

	p = parseFrom("page=abc&page_size=xyz")
	assert.Equal(t, DefaultPage, p.Page)
	assert.Equal(t, DefaultPageSize, p.PageSize)

	p = parseFrom("page_size=9999")
	assert.Equal(t, MaxPageSize, p.PageSize)
}

// offset/limit换算
func TestGetOffsetAndLimit(t *testing.T) {
	p := &PageParams{Page: 3, PageSize: 20}
	assert.Equal(t, 40, p.GetOffset())
	assert.Equal(t, 20, p.GetLimit())

	p = &PageParams{Page: 1, PageSize: 10}
	assert.Equal(t, 0, p.GetOffset())
}

// 分页信息计算
func TestNewPageInfo(t *testing.T) {
	info := NewPageInfo(1, 10, 25)
	assert.Equal(t, 3, info.TotalPages)
	assert.True(t, info.HasNext)
	assert.False(t, info.HasPrev)

	info = NewPageInfo(3, 10, 25)
	assert.False(t, info.HasNext)
	assert.True(t, info.HasPrev)

	info = NewPageInfo(1, 10, 0)
	assert.Equal(t, 0, info.TotalPages)
	assert.False(t, info.HasNext)
}
