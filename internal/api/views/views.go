package views

import (
	"embed"
	"html/template"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var files embed.FS

// Template names
const (
	Index  = "index.html"
	Orders = "orders.html"
	Error  = "error.html"
)

var funcs = template.FuncMap{
	"money": func(v float64) string {
		return decimal.NewFromFloat(v).StringFixed(2)
	},
	"datetime": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format("2006-01-02 15:04:05")
	},
	"inputtime": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.UTC().Format("2006-01-02T15:04")
	},
	"qty": func(q uint32) string {
		return strconv.FormatUint(uint64(q), 10)
	},
}

// Load parses the embedded page templates
func Load() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(files, "templates/*.html")
}
