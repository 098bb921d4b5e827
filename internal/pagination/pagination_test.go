package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	o := Options{}.Normalize()
	assert.Equal(t, 1, o.Page)
	assert.Equal(t, DefaultLimit, o.Limit)

	o = Options{Page: 3, Limit: 500}.Normalize()
	assert.Equal(t, MaxLimit, o.Limit)
	assert.Equal(t, 200, o.Offset())
}

func TestPaginator(t *testing.T) {
	p := NewPaginator(25, Options{Page: 2, Limit: 10})

	assert.Equal(t, int64(25), p.ItemCount)
	assert.Equal(t, 3, p.PageCount)
	assert.Equal(t, 11, p.SlNo)
	require.NotNil(t, p.Prev)
	require.NotNil(t, p.Next)
	assert.Equal(t, 1, *p.Prev)
	assert.Equal(t, 3, *p.Next)

	last := NewPaginator(25, Options{Page: 3, Limit: 10})
	assert.Nil(t, last.Next)
	assert.False(t, last.HasNextPage)

	empty := NewPaginator(0, Options{})
	assert.Equal(t, 1, empty.PageCount)
	assert.Nil(t, empty.Prev)
	assert.Nil(t, empty.Next)
}

func TestNewPageNeverNilData(t *testing.T) {
	page := NewPage[string](nil, 0, Options{})
	assert.NotNil(t, page.Data)
}

func TestOrderBy(t *testing.T) {
	allowed := map[string]string{"createdAt": "created_at", "date": "appointment_date"}

	assert.Equal(t, "created_at DESC", Options{Sort: "-createdAt"}.OrderBy(allowed, "id"))
	assert.Equal(t, "appointment_date ASC", Options{Sort: "date"}.OrderBy(allowed, "id"))
	assert.Equal(t, "id", Options{Sort: "password_hash; drop table"}.OrderBy(allowed, "id"))
	assert.Equal(t, "id", Options{}.OrderBy(allowed, "id"))
}

func TestFromQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?page=2&limit=5&sort=-createdAt", nil)

	o := FromQuery(c)
	assert.Equal(t, Options{Page: 2, Limit: 5, Sort: "-createdAt"}, o)
}
