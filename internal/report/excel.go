package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"hhscout/collector-service/internal/model"
)

const (
	sheetName  = "Вакансии"
	tableStyle = "TableStyleMedium9"
	fileSuffix = "_вакансии.xlsx"

	// excelize rejects column widths above 255.
	maxColWidth = 255
)

var headers = []string{
	"Название",
	"Компания",
	"Зарплата от",
	"Зарплата до",
	"Валюта",
	"Регион",
	"Дата публикации",
	"Ссылка",
}

// Builder writes collected vacancies into an .xlsx workbook under dir.
type Builder struct {
	dir string
	log *zap.Logger
}

func NewBuilder(dir string, log *zap.Logger) *Builder {
	return &Builder{dir: dir, log: log.Named("report")}
}

// Build normalizes the vacancies, renders the workbook and returns the
// path of the saved file. The file name is derived from the query.
func (b *Builder) Build(query string, vacancies []model.Vacancy) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return "", fmt.Errorf("rename sheet: %w", err)
	}

	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return "", fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return "", fmt.Errorf("write header: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FF0000"},
	})
	if err != nil {
		return "", fmt.Errorf("header style: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", "H1", headerStyle); err != nil {
		return "", fmt.Errorf("apply header style: %w", err)
	}

	widths := make([]int, len(headers))
	for col, h := range headers {
		widths[col] = utf8.RuneCountInString(h)
	}

	for i, v := range vacancies {
		row := Normalize(v)
		cells := []any{
			row.Name,
			row.Employer,
			row.SalaryFrom,
			row.SalaryTo,
			row.Currency,
			row.Region,
			row.PublishedAt,
			row.URL,
		}
		for col, value := range cells {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return "", fmt.Errorf("data cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return "", fmt.Errorf("write row %d: %w", i+2, err)
			}
			if l := utf8.RuneCountInString(fmt.Sprint(value)); l > widths[col] {
				widths[col] = l
			}
		}
	}

	for col, w := range widths {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return "", fmt.Errorf("column name: %w", err)
		}
		width := float64(w+2) * 1.2
		if width > maxColWidth {
			width = maxColWidth
		}
		if err := f.SetColWidth(sheetName, name, name, width); err != nil {
			return "", fmt.Errorf("column width: %w", err)
		}
	}

	// A table range needs at least one data row.
	if len(vacancies) > 0 {
		stripes := true
		table := &excelize.Table{
			Range:          fmt.Sprintf("A1:H%d", len(vacancies)+1),
			Name:           "Vacancies",
			StyleName:      tableStyle,
			ShowRowStripes: &stripes,
		}
		if err := f.AddTable(sheetName, table); err != nil {
			return "", fmt.Errorf("add table: %w", err)
		}
	}

	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return "", fmt.Errorf("report dir: %w", err)
	}
	path := filepath.Join(b.dir, sanitizeName(query)+fileSuffix)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}

	b.log.Info("report written", zap.String("path", path), zap.Int("rows", len(vacancies)))
	return path, nil
}

// sanitizeName strips the query down to characters that are safe in a
// file name. Spaces become underscores.
func sanitizeName(query string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(query) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		case r == '-' || r == '_':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "поиск"
	}
	return b.String()
}
