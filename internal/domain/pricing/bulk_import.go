package pricing

import (
	"fmt"
	"strconv"
	"strings"

	"pcshop_service/internal/domain/entities"
)

// ErrUnrecognizedBulkFormat is returned when pasted text matches neither
// supported price-comparison export.
var ErrUnrecognizedBulkFormat = fmt.Errorf("%w: pasted text matches no supported format", ErrInvalidEdit)

const (
	tabularMinFields = 7
	blockLines       = 4
)

// categoryAliases maps the export's category names onto the shop's labels.
var categoryAliases = map[string]string{
	"메인보드":   "M/B",
	"메모리":    "RAM",
	"그래픽카드":  "VGA",
	"케이스":    "CASE",
	"파워":     "POWER",
	"파워서플라이": "POWER",
	"쿨러":     "COOLER",
	"CPU쿨러":  "COOLER",
	"모니터":    "MONITOR",
}

// ParseBulkInput turns pasted export text into line items.
//
// Tabular export: the first line has at least 7 tab-separated fields; every
// line is category, name, manufacturer, product code, distributor, quantity,
// price and optional remarks.
//
// Block export: every item spans 4 lines (category and name, details,
// quantity, total price), so the line count is a positive multiple of 4.
func ParseBulkInput(text string) ([]entities.LineItem, error) {
	lines := nonBlankLines(text)
	if len(lines) == 0 {
		return nil, ErrUnrecognizedBulkFormat
	}
	if len(strings.Split(lines[0], "\t")) >= tabularMinFields {
		return parseTabular(lines)
	}
	if len(lines)%blockLines == 0 {
		return parseBlocks(lines), nil
	}
	return nil, ErrUnrecognizedBulkFormat
}

func nonBlankLines(text string) []string {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimRight(l, "\r")
		if strings.TrimSpace(l) == "" {
			continue
		}
		out = append(out, l)
	}
	return out
}

func parseTabular(lines []string) ([]entities.LineItem, error) {
	items := make([]entities.LineItem, 0, len(lines))
	for i, l := range lines {
		f := strings.Split(l, "\t")
		if len(f) < tabularMinFields {
			return nil, fmt.Errorf("%w: line %d has %d fields", ErrUnrecognizedBulkFormat, i+1, len(f))
		}
		for j := range f {
			f[j] = strings.TrimSpace(f[j])
		}
		it := entities.LineItem{
			Category:     renameCategory(f[0]),
			ProductName:  f[1],
			Manufacturer: f[2],
			ProductCode:  f[3],
			Distributor:  f[4],
			Quantity:     parseQuantity(f[5]),
			Price:        cleanPrice(f[6]),
		}
		if len(f) > tabularMinFields {
			it.Remarks = f[7]
		}
		items = append(items, it)
	}
	return items, nil
}

func parseBlocks(lines []string) []entities.LineItem {
	items := make([]entities.LineItem, 0, len(lines)/blockLines)
	for i := 0; i+blockLines <= len(lines); i += blockLines {
		category, name := splitCategoryName(strings.TrimSpace(lines[i]))
		items = append(items, entities.LineItem{
			Category:    category,
			ProductName: name,
			Quantity:    parseQuantity(lines[i+2]),
			Price:       cleanPrice(lines[i+3]),
		})
	}
	return items
}

// splitCategoryName reads "[CPU] 인텔 i5" or "CPU 인텔 i5".
func splitCategoryName(s string) (string, string) {
	if strings.HasPrefix(s, "[") {
		if end := strings.Index(s, "]"); end > 0 {
			return strings.TrimSpace(s[1:end]), strings.TrimSpace(s[end+1:])
		}
	}
	parts := strings.SplitN(s, " ", 2)
	if len(parts) < 2 {
		return "", s
	}
	return parts[0], strings.TrimSpace(parts[1])
}

func renameCategory(c string) string {
	c = strings.Trim(strings.TrimSpace(c), "[]")
	if alias, ok := categoryAliases[c]; ok {
		return alias
	}
	return c
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// parseQuantity reads "2개" as 2; anything without digits counts as 1.
func parseQuantity(s string) int {
	n, err := strconv.Atoi(digitsOnly(s))
	if err != nil || n <= 0 {
		return 1
	}
	return n
}

func cleanPrice(s string) string {
	d := digitsOnly(s)
	if d == "" {
		return ""
	}
	v, err := strconv.ParseInt(d, 10, 64)
	if err != nil {
		return ""
	}
	return FormatPrice(v)
}
