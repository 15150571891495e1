package report_test

import (
	"testing"

	"hhscout/collector-service/internal/model"
	"hhscout/collector-service/internal/report"
)

func intPtr(n int) *int { return &n }

func TestNormalize_CompleteVacancy(t *testing.T) {
	row := report.Normalize(model.Vacancy{
		ID:   "98765",
		Name: "Сварщик 5 разряда",
		Salary: &model.Salary{
			From:     intPtr(90000),
			To:       intPtr(140000),
			Currency: "RUR",
		},
		Employer:     &model.Employer{Name: "Севергрупп"},
		Area:         &model.Area{Name: "Череповец"},
		PublishedAt:  "2025-02-03T11:20:00+0300",
		AlternateURL: "https://hh.ru/vacancy/98765",
	})

	if row.Name != "Сварщик 5 разряда" {
		t.Errorf("Name = %q", row.Name)
	}
	if row.Employer != "Севергрупп" {
		t.Errorf("Employer = %q", row.Employer)
	}
	if row.SalaryFrom != 90000 {
		t.Errorf("SalaryFrom = %v, want 90000", row.SalaryFrom)
	}
	if row.SalaryTo != 140000 {
		t.Errorf("SalaryTo = %v, want 140000", row.SalaryTo)
	}
	if row.Currency != "RUR" {
		t.Errorf("Currency = %q", row.Currency)
	}
	if row.Region != "Череповец" {
		t.Errorf("Region = %q", row.Region)
	}
	if row.PublishedAt != "03.02.2025 11:20" {
		t.Errorf("PublishedAt = %q", row.PublishedAt)
	}
	if row.URL != "https://hh.ru/vacancy/98765" {
		t.Errorf("URL = %q", row.URL)
	}
}

func TestNormalize_EmptyVacancyGetsPlaceholders(t *testing.T) {
	row := report.Normalize(model.Vacancy{})

	if row.Name != "Без названия" {
		t.Errorf("Name = %q", row.Name)
	}
	if row.Employer != "Компания не указана" {
		t.Errorf("Employer = %q", row.Employer)
	}
	if row.SalaryFrom != "—" || row.SalaryTo != "—" || row.Currency != "—" {
		t.Errorf("salary cells = %v / %v / %v, want placeholders", row.SalaryFrom, row.SalaryTo, row.Currency)
	}
	if row.Region != "Регион не указан" {
		t.Errorf("Region = %q", row.Region)
	}
	if row.PublishedAt != "N/A" {
		t.Errorf("PublishedAt = %q", row.PublishedAt)
	}
	if row.URL != "#" {
		t.Errorf("URL = %q", row.URL)
	}
}

func TestNormalize_IsDeterministic(t *testing.T) {
	v := model.Vacancy{
		Name:        "Монтажник",
		Salary:      &model.Salary{From: intPtr(70000), Currency: "RUR"},
		PublishedAt: "2025-02-03T11:20:00+0300",
	}

	first := report.Normalize(v)
	second := report.Normalize(v)
	if first != second {
		t.Errorf("Normalize is not stable:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestNormalize_PartialSalary(t *testing.T) {
	row := report.Normalize(model.Vacancy{
		Name:   "Курьер",
		Salary: &model.Salary{From: intPtr(60000)},
	})

	if row.SalaryFrom != 60000 {
		t.Errorf("SalaryFrom = %v, want 60000", row.SalaryFrom)
	}
	if row.SalaryTo != "—" {
		t.Errorf("SalaryTo = %v, want placeholder", row.SalaryTo)
	}
	if row.Currency != "—" {
		t.Errorf("Currency = %v, want placeholder", row.Currency)
	}
}

func TestNormalize_PublishedAtFormats(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"provider offset", "2025-02-03T11:20:00+0300", "03.02.2025 11:20"},
		{"rfc3339", "2025-02-03T11:20:00+03:00", "03.02.2025 11:20"},
		{"unparsable text", "вчера", "N/A"},
		{"malformed timestamp", "2025-99-99T11:20:00+0300", "N/A"},
		{"missing", "", "N/A"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			row := report.Normalize(model.Vacancy{PublishedAt: c.in})
			if row.PublishedAt != c.want {
				t.Errorf("PublishedAt(%q) = %q, want %q", c.in, row.PublishedAt, c.want)
			}
		})
	}
}
