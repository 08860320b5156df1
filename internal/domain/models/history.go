package models

import (
	"sort"
	"time"
)

// HistorySnapshot is the read-only in-memory view of the historical dataset.
// It is built once at startup and never mutated afterwards, so concurrent
// feature-building calls can share it without locking.
type HistorySnapshot struct {
	byCategory map[string][]SalesRecord
	categories []string
	minDate    time.Time
	maxDate    time.Time
}

// NewHistorySnapshot indexes records per category. Input order is preserved
// within a category; callers downstream sort by date as needed.
func NewHistorySnapshot(records []SalesRecord) *HistorySnapshot {
	s := &HistorySnapshot{
		byCategory: make(map[string][]SalesRecord),
	}
	for _, r := range records {
		if _, ok := s.byCategory[r.Category]; !ok {
			s.categories = append(s.categories, r.Category)
		}
		s.byCategory[r.Category] = append(s.byCategory[r.Category], r)
		if s.minDate.IsZero() || r.Date.Before(s.minDate) {
			s.minDate = r.Date
		}
		if s.maxDate.IsZero() || r.Date.After(s.maxDate) {
			s.maxDate = r.Date
		}
	}
	sort.Strings(s.categories)
	return s
}

// Category returns the records for one category. The slice is shared and must
// not be modified by callers.
func (s *HistorySnapshot) Category(name string) []SalesRecord {
	return s.byCategory[name]
}

// HasCategory reports whether any record exists for the category.
func (s *HistorySnapshot) HasCategory(name string) bool {
	return len(s.byCategory[name]) > 0
}

// Categories returns the known category names, sorted.
func (s *HistorySnapshot) Categories() []string {
	return s.categories
}

// MinDate returns the earliest observed date across all categories.
func (s *HistorySnapshot) MinDate() time.Time { return s.minDate }

// MaxDate returns the latest observed date across all categories.
func (s *HistorySnapshot) MaxDate() time.Time { return s.maxDate }

// Len returns the total number of records.
func (s *HistorySnapshot) Len() int {
	n := 0
	for _, rs := range s.byCategory {
		n += len(rs)
	}
	return n
}
