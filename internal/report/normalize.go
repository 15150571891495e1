package report

import (
	"time"

	"hhscout/collector-service/internal/model"
)

// Placeholders for fields the provider may omit. Every cell in the
// report shows something.
const (
	noName     = "Без названия"
	noEmployer = "Компания не указана"
	noValue    = "—"
	noRegion   = "Регион не указан"
	noDate     = "N/A"
	noURL      = "#"
)

// providerTimeLayout matches published_at timestamps such as
// "2025-02-03T11:20:00+0300".
const providerTimeLayout = "2006-01-02T15:04:05-0700"

const displayTimeLayout = "02.01.2006 15:04"

// Row is one vacancy prepared for the report. Salary bounds hold either
// an int or the placeholder string, so spreadsheet cells keep numeric
// typing whenever a bound is present.
type Row struct {
	Name        string
	Employer    string
	SalaryFrom  any
	SalaryTo    any
	Currency    string
	Region      string
	PublishedAt string
	URL         string
}

// Normalize maps a raw vacancy to a report row. It is total: any
// combination of missing fields still yields a usable row.
func Normalize(v model.Vacancy) Row {
	row := Row{
		Name:        noName,
		Employer:    noEmployer,
		SalaryFrom:  noValue,
		SalaryTo:    noValue,
		Currency:    noValue,
		Region:      noRegion,
		PublishedAt: noDate,
		URL:         noURL,
	}
	if v.Name != "" {
		row.Name = v.Name
	}
	if v.Employer != nil && v.Employer.Name != "" {
		row.Employer = v.Employer.Name
	}
	if v.Salary != nil {
		if v.Salary.From != nil {
			row.SalaryFrom = *v.Salary.From
		}
		if v.Salary.To != nil {
			row.SalaryTo = *v.Salary.To
		}
		if v.Salary.Currency != "" {
			row.Currency = v.Salary.Currency
		}
	}
	if v.Area != nil && v.Area.Name != "" {
		row.Region = v.Area.Name
	}
	if v.PublishedAt != "" {
		row.PublishedAt = formatPublished(v.PublishedAt)
	}
	if v.AlternateURL != "" {
		row.URL = v.AlternateURL
	}
	return row
}

// formatPublished renders a provider timestamp for the report. Strings
// in neither known layout collapse to the noDate placeholder, same as
// a missing timestamp.
func formatPublished(raw string) string {
	for _, layout := range []string{providerTimeLayout, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(displayTimeLayout)
		}
	}
	return noDate
}
