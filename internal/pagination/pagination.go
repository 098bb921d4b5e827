package pagination

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Options holds paging, sorting and eager-loading for a list query.
type Options struct {
	Page    int      `json:"page"`
	Limit   int      `json:"limit"`
	Sort    string   `json:"sort"`
	Preload []string `json:"-"`
}

// FromQuery reads page, limit and sort from the query string.
func FromQuery(c *gin.Context) Options {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	return Options{
		Page:  page,
		Limit: limit,
		Sort:  c.Query("sort"),
	}.Normalize()
}

func (o Options) Normalize() Options {
	if o.Page <= 0 {
		o.Page = 1
	}
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	if o.Limit > MaxLimit {
		o.Limit = MaxLimit
	}
	return o
}

func (o Options) Offset() int {
	o = o.Normalize()
	return (o.Page - 1) * o.Limit
}

// OrderBy translates "field" / "-field" into an ORDER BY clause using the
// allowed field→column map. Unknown fields fall back to def.
func (o Options) OrderBy(allowed map[string]string, def string) string {
	sort := strings.TrimSpace(o.Sort)
	if sort == "" {
		return def
	}

	dir := "ASC"
	if strings.HasPrefix(sort, "-") {
		dir = "DESC"
		sort = sort[1:]
	}

	col, ok := allowed[sort]
	if !ok {
		return def
	}
	return col + " " + dir
}

// Paginator is the page metadata block returned with every list.
type Paginator struct {
	ItemCount   int64 `json:"itemCount"`
	PerPage     int   `json:"perPage"`
	CurrentPage int   `json:"currentPage"`
	PageCount   int   `json:"pageCount"`
	SlNo        int   `json:"slNo"`
	HasPrevPage bool  `json:"hasPrevPage"`
	HasNextPage bool  `json:"hasNextPage"`
	Prev        *int  `json:"prev"`
	Next        *int  `json:"next"`
}

type Page[T any] struct {
	Data      []T       `json:"data"`
	Paginator Paginator `json:"paginator"`
}

func NewPaginator(total int64, o Options) Paginator {
	o = o.Normalize()

	pageCount := int((total + int64(o.Limit) - 1) / int64(o.Limit))
	if pageCount == 0 {
		pageCount = 1
	}

	p := Paginator{
		ItemCount:   total,
		PerPage:     o.Limit,
		CurrentPage: o.Page,
		PageCount:   pageCount,
		SlNo:        o.Offset() + 1,
	}

	if o.Page > 1 {
		prev := o.Page - 1
		p.Prev = &prev
		p.HasPrevPage = true
	}
	if o.Page < pageCount {
		next := o.Page + 1
		p.Next = &next
		p.HasNextPage = true
	}

	return p
}

func NewPage[T any](data []T, total int64, o Options) Page[T] {
	if data == nil {
		data = []T{}
	}
	return Page[T]{
		Data:      data,
		Paginator: NewPaginator(total, o),
	}
}
