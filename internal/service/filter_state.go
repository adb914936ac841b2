package service

import (
	"reflect"
	"strings"

	"github.com/spf13/cast"

	"github.com/noah-isme/sma-adp-console/internal/models"
)

// FilterStateStore holds the filters and pagination cursor of one list
// screen. It is owned by a single controller and is not safe for concurrent use.
type FilterStateStore struct {
	page         int
	limit        int
	defaultLimit int
	filters      map[string]string
	cached       *models.FilterDescriptor
}

// NewFilterStateStore creates a store on page 1 with the given page size.
func NewFilterStateStore(limit int) *FilterStateStore {
	if limit < 1 {
		limit = 10
	}
	return &FilterStateStore{page: 1, limit: limit, defaultLimit: limit, filters: map[string]string{}}
}

// SetFilter stores value under key, or deletes the key when the value is
// empty. Any change to the filters moves the cursor back to page 1.
// "page" and "limit" are routed to SetPage and SetLimit.
func (s *FilterStateStore) SetFilter(key string, value interface{}) {
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}
	switch key {
	case models.QueryPage:
		s.SetPage(cast.ToInt(value))
		return
	case models.QueryLimit:
		s.SetLimit(cast.ToInt(value))
		return
	}

	normalized, ok := normalizeFilterValue(value)
	current, exists := s.filters[key]
	if !ok {
		if !exists {
			return
		}
		delete(s.filters, key)
	} else {
		if exists && current == normalized {
			return
		}
		s.filters[key] = normalized
	}
	s.page = 1
	s.invalidate()
}

// SetFilters applies several filters as one change.
func (s *FilterStateStore) SetFilters(values map[string]string) {
	for k, v := range values {
		s.SetFilter(k, v)
	}
}

// SetPage moves the cursor. Values below 1 are clamped to 1.
func (s *FilterStateStore) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	s.page = page
	s.invalidate()
}

// SetLimit changes the page size and returns to page 1. Non-positive values
// restore the default size.
func (s *FilterStateStore) SetLimit(limit int) {
	if limit < 1 {
		limit = s.defaultLimit
	}
	if limit != s.limit {
		s.page = 1
	}
	s.limit = limit
	s.invalidate()
}

// Reset clears every filter and returns to page 1, keeping the page size.
func (s *FilterStateStore) Reset() {
	s.filters = map[string]string{}
	s.page = 1
	s.invalidate()
}

func (s *FilterStateStore) Page() int  { return s.page }
func (s *FilterStateStore) Limit() int { return s.limit }

// Descriptor returns the canonical descriptor, recomputed only after a mutation.
func (s *FilterStateStore) Descriptor() models.FilterDescriptor {
	if s.cached == nil {
		filters := make(map[string]string, len(s.filters))
		for k, v := range s.filters {
			filters[k] = v
		}
		s.cached = &models.FilterDescriptor{Page: s.page, Limit: s.limit, Filters: filters}
	}
	d := *s.cached
	d.Filters = make(map[string]string, len(s.cached.Filters))
	for k, v := range s.cached.Filters {
		d.Filters[k] = v
	}
	return d
}

func (s *FilterStateStore) invalidate() {
	s.cached = nil
}

// normalizeFilterValue coerces a scalar to its query form. nil, nil
// pointers, blank strings and values cast cannot render are reported empty.
func normalizeFilterValue(value interface{}) (string, bool) {
	if value == nil {
		return "", false
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return "", false
		}
		value = rv.Elem().Interface()
	}
	str, err := cast.ToStringE(value)
	if err != nil {
		return "", false
	}
	str = strings.TrimSpace(str)
	return str, str != ""
}
