package batch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"unicode/utf8"

	"ezproduct/internal/services/ai"
)

const (
	minKeywords = 2
	maxKeywords = 200
	// MaxRows bounds one upload.
	MaxRows = 50
)

var (
	ErrNoRows        = errors.New("CSV must have at least a header row and one data row")
	ErrNoKeywordsCol = errors.New(`CSV must have a "keywords" or "关键词" column`)
	ErrTooManyRows   = fmt.Errorf("CSV may contain at most %d products", MaxRows)
)

// Row is one product line of an upload. Number is the 1-based line in the
// file, header included.
type Row struct {
	Number       int    `json:"row"`
	Keywords     string `json:"keywords"`
	ImageURL     string `json:"imageUrl,omitempty"`
	SizeOptions  string `json:"sizeOptions,omitempty"`
	BrandName    string `json:"brandName,omitempty"`
	ProductNotes string `json:"productNotes,omitempty"`
}

func (r Row) Request() ai.Request {
	return ai.Request{
		Keywords:     r.Keywords,
		ImageURL:     r.ImageURL,
		SizeOptions:  r.SizeOptions,
		BrandName:    r.BrandName,
		ProductNotes: r.ProductNotes,
	}
}

// columns matches headers such as "keywords (关键词) [Required / 必填]".
var columns = map[string][]string{
	"keywords":     {"keywords", "关键词"},
	"imageUrl":     {"imageurl", "图片链接"},
	"sizeOptions":  {"sizeoptions", "尺寸选项"},
	"brandName":    {"brandname", "品牌名称"},
	"productNotes": {"productnotes", "产品说明"},
}

func columnIndex(header []string, patterns []string) int {
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, p := range patterns {
			if strings.Contains(h, p) {
				return i
			}
		}
	}
	return -1
}

// Parse reads an upload. Rows without keywords are reported as problems and
// skipped; structural errors fail the whole file.
func Parse(r io.Reader) ([]Row, []string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, nil, ErrNoRows
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	idx := make(map[string]int, len(columns))
	for name, patterns := range columns {
		idx[name] = columnIndex(header, patterns)
	}
	if idx["keywords"] < 0 {
		return nil, nil, ErrNoKeywordsCol
	}

	field := func(record []string, name string) string {
		i := idx[name]
		if i < 0 || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []Row
	var problems []string
	for i, record := range records[1:] {
		number := i + 2
		if isBlankRecord(record) {
			continue
		}
		keywords := field(record, "keywords")
		if keywords == "" {
			problems = append(problems, fmt.Sprintf(`Row %d: Missing required "keywords" field`, number))
			continue
		}
		rows = append(rows, Row{
			Number:       number,
			Keywords:     keywords,
			ImageURL:     field(record, "imageUrl"),
			SizeOptions:  strings.ReplaceAll(field(record, "sizeOptions"), ";", ","),
			BrandName:    field(record, "brandName"),
			ProductNotes: field(record, "productNotes"),
		})
	}
	if len(rows) > MaxRows {
		return nil, problems, ErrTooManyRows
	}
	return rows, problems, nil
}

func isBlankRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// Validate returns the row's problems, or nil.
func Validate(row Row) []string {
	var problems []string
	n := utf8.RuneCountInString(row.Keywords)
	if n < minKeywords {
		problems = append(problems, fmt.Sprintf("Row %d: Keywords too short (minimum %d characters)", row.Number, minKeywords))
	}
	if n > maxKeywords {
		problems = append(problems, fmt.Sprintf("Row %d: Keywords too long (maximum %d characters)", row.Number, maxKeywords))
	}
	if row.ImageURL != "" && !isAbsoluteURL(row.ImageURL) {
		problems = append(problems, fmt.Sprintf("Row %d: Invalid image URL format", row.Number))
	}
	return problems
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
