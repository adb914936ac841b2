package models

import (
	"fmt"
	"net/url"
	"strconv"
)

const (
	// QueryPage and QueryLimit are always present on a descriptor.
	QueryPage  = "page"
	QueryLimit = "limit"
)

// FilterDescriptor is the canonical set of query parameters for one list
// request: the non-empty filters plus page and limit.
type FilterDescriptor struct {
	Page    int               `json:"page"`
	Limit   int               `json:"limit"`
	Filters map[string]string `json:"filters,omitempty"`
}

// Get returns a single filter value.
func (d FilterDescriptor) Get(key string) (string, bool) {
	v, ok := d.Filters[key]
	return v, ok
}

// Values flattens the descriptor into query parameters.
func (d FilterDescriptor) Values() url.Values {
	values := url.Values{}
	for k, v := range d.Filters {
		values.Set(k, v)
	}
	values.Set(QueryPage, strconv.Itoa(d.Page))
	values.Set(QueryLimit, strconv.Itoa(d.Limit))
	return values
}

// Encode returns the deterministic query string; url.Values sorts by key.
func (d FilterDescriptor) Encode() string {
	return d.Values().Encode()
}

// Equal reports whether both descriptors carry the same page, limit and filters
// regardless of construction order.
func (d FilterDescriptor) Equal(other FilterDescriptor) bool {
	if d.Page != other.Page || d.Limit != other.Limit || len(d.Filters) != len(other.Filters) {
		return false
	}
	for k, v := range d.Filters {
		if ov, ok := other.Filters[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// CacheKey derives the list cache key for resource.
func (d FilterDescriptor) CacheKey(resource Resource) string {
	return fmt.Sprintf("console:list:%s:%s", resource, d.Encode())
}

// ListCachePattern matches every cached page of resource.
func ListCachePattern(resource Resource) string {
	return fmt.Sprintf("console:list:%s:*", resource)
}
