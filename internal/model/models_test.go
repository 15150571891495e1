package model_test

import (
	"strings"
	"testing"

	"hhscout/collector-service/internal/model"
)

// ── SearchRequest.Validate ─────────────────────────────────────────────────

func TestValidate_AcceptsReasonableQueries(t *testing.T) {
	valid := []string{
		"Сварщик",
		"Go developer",
		"  инженер  ", // trimmed before length check
		strings.Repeat("a", model.MaxQueryLen),
		strings.Repeat("я", model.MaxQueryLen), // runes, not bytes
	}
	for _, q := range valid {
		req := model.SearchRequest{Query: q}
		if err := req.Validate(); err != nil {
			t.Errorf("Validate(%q) unexpected error: %v", q, err)
		}
	}
}

func TestValidate_RejectsEmptyQuery(t *testing.T) {
	for _, q := range []string{"", "   ", "\t\n"} {
		req := model.SearchRequest{Query: q}
		if err := req.Validate(); err == nil {
			t.Errorf("Validate(%q) expected error, got nil", q)
		}
	}
}

func TestValidate_RejectsOverlongQuery(t *testing.T) {
	req := model.SearchRequest{Query: strings.Repeat("a", model.MaxQueryLen+1)}
	if err := req.Validate(); err == nil {
		t.Error("Validate() expected error for 101-char query, got nil")
	}
}
