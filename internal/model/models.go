// Package model defines shared data structures for the collector service.
package model

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxQueryLen bounds the profession text accepted from a chat.
const MaxQueryLen = 100

// SearchRequest describes one collection job: the profession text to search
// for and how the trailing date window is chunked. Immutable once a run
// starts.
type SearchRequest struct {
	Query      string // profession text, e.g. "Сварщик"
	AreaID     string // hh.ru region identifier, opaque to us ("113" = Russia)
	WindowDays int    // trailing window size in days
	ChunkDays  int    // sub-range size per API query
}

// Validate checks the user-supplied query text. Window arithmetic is
// validated separately by the interval planner at run start.
func (r SearchRequest) Validate() error {
	q := strings.TrimSpace(r.Query)
	if q == "" {
		return fmt.Errorf("query must not be empty")
	}
	if utf8.RuneCountInString(q) > MaxQueryLen {
		return fmt.Errorf("query must be at most %d characters, got %d", MaxQueryLen, utf8.RuneCountInString(q))
	}
	return nil
}

// Vacancy mirrors a single hh.ru search result item. Every block the
// provider may omit is a pointer; absence is resolved by report.Normalize,
// never by callers reaching into nil fields.
type Vacancy struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Salary       *Salary   `json:"salary"`
	Employer     *Employer `json:"employer"`
	Area         *Area     `json:"area"`
	PublishedAt  string    `json:"published_at"`
	AlternateURL string    `json:"alternate_url"`
}

// Salary is the hh.ru salary block; either bound may be absent.
type Salary struct {
	From     *int   `json:"from"`
	To       *int   `json:"to"`
	Currency string `json:"currency"`
}

// Employer names the hiring company.
type Employer struct {
	Name string `json:"name"`
}

// Area names the region a vacancy was published in.
type Area struct {
	Name string `json:"name"`
}
