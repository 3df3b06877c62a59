// Package pagination implementa el contrato de paginado de los endpoints de listado.
package pagination

import (
	"math"
	"net/http"
	"strconv"
	"strings"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100

	// MaxPage acota page para que Offset no desborde.
	MaxPage = math.MaxInt / MaxPageSize
)

type Params struct {
	Page     int
	PageSize int
}

// Normalize aplica el clamp: page < 1 => 1; page > MaxPage => MaxPage;
// page_size <= 0 => default; > 100 => 100. Nunca rechaza valores fuera de rango.
func Normalize(page, pageSize int) Params {
	switch {
	case page < 1:
		page = DefaultPage
	case page > MaxPage:
		page = MaxPage
	}
	switch {
	case pageSize <= 0:
		pageSize = DefaultPageSize
	case pageSize > MaxPageSize:
		pageSize = MaxPageSize
	}
	return Params{Page: page, PageSize: pageSize}
}

// FromRequest lee ?page=&page_size= (acepta también pageSize). Valores no numéricos => default.
func FromRequest(r *http.Request) Params {
	q := r.URL.Query()
	size := q.Get("page_size")
	if strings.TrimSpace(size) == "" {
		size = q.Get("pageSize")
	}
	return Normalize(atoi(q.Get("page")), atoi(size))
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func (p Params) Limit() int {
	return p.PageSize
}

// Page es la respuesta estándar de listados.
type Page[T any] struct {
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Items    []T `json:"items"`
}

func NewPage[T any](p Params, total int, items []T) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Total: total, Page: p.Page, PageSize: p.PageSize, Items: items}
}

// Map convierte los items de una página (modelo de dominio -> DTO).
func Map[T, U any](in Page[T], fn func(T) U) Page[U] {
	out := make([]U, 0, len(in.Items))
	for _, it := range in.Items {
		out = append(out, fn(it))
	}
	return Page[U]{Total: in.Total, Page: in.Page, PageSize: in.PageSize, Items: out}
}

// Slice aplica p sobre un slice ya ordenado (usado por los repos in-memory).
func Slice[T any](all []T, p Params) []T {
	start := p.Offset()
	if start < 0 || start >= len(all) {
		return []T{}
	}
	end := start + p.Limit()
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
