package pdf

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
	"github.com/wonny/stockapp/internal/domain/order"
)

var columns = []struct {
	title string
	width float64
	align string
}{
	{"Type", 18, "L"},
	{"Symbol", 24, "L"},
	{"Name", 70, "L"},
	{"Date and Time", 44, "L"},
	{"Quantity", 26, "R"},
	{"Price", 32, "R"},
	{"Trade Amount", 40, "R"},
}

const rowHeight = 7

// WriteOrders renders orders as a PDF table to w.
// generatedAt is printed in the header.
func WriteOrders(w io.Writer, orders []*order.Response, generatedAt time.Time) error {
	return writeOrders(w, orders, generatedAt, true)
}

func writeOrders(w io.Writer, orders []*order.Response, generatedAt time.Time, compress bool) error {
	doc := fpdf.New("L", "mm", "A4", "")
	doc.SetCompression(compress)
	doc.SetTitle("Orders", false)

	// core fonts are cp1252; names arrive as UTF-8
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.SetAutoPageBreak(true, 15)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 16)
	doc.CellFormat(0, 10, "List of Orders", "", 1, "C", false, 0, "")
	doc.SetFont("Helvetica", "", 9)
	doc.CellFormat(0, 6, "Generated "+generatedAt.UTC().Format("2006-01-02 15:04:05 MST"), "", 1, "C", false, 0, "")
	doc.Ln(4)

	header := func() {
		doc.SetFont("Helvetica", "B", 10)
		doc.SetFillColor(230, 230, 230)
		for _, c := range columns {
			doc.CellFormat(c.width, rowHeight, c.title, "1", 0, "C", true, 0, "")
		}
		doc.Ln(-1)
		doc.SetFont("Helvetica", "", 10)
	}
	header()

	_, pageHeight := doc.GetPageSize()
	_, _, _, bottom := doc.GetMargins()

	total := decimal.Zero
	for _, o := range orders {
		if doc.GetY()+rowHeight > pageHeight-bottom-15 {
			doc.AddPage()
			header()
		}

		amount := order.TradeAmount(o.Price, o.Quantity)
		total = total.Add(amount)

		cells := []string{
			string(o.Side),
			o.StockSymbol,
			truncate(o.StockName, 40),
			o.DateAndTimeOfOrder.UTC().Format("2006-01-02 15:04:05"),
			strconv.FormatUint(uint64(o.Quantity), 10),
			decimal.NewFromFloat(o.Price).StringFixed(2),
			amount.StringFixed(2),
		}
		for i, c := range columns {
			doc.CellFormat(c.width, rowHeight, tr(cells[i]), "1", 0, c.align, false, 0, "")
		}
		doc.Ln(-1)
	}

	if len(orders) == 0 {
		doc.CellFormat(0, rowHeight, "No orders", "1", 1, "C", false, 0, "")
	}

	doc.Ln(2)
	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(0, rowHeight, fmt.Sprintf("%d orders, total trade amount %s", len(orders), total.StringFixed(2)), "", 1, "R", false, 0, "")

	if err := doc.Error(); err != nil {
		return fmt.Errorf("render orders pdf: %w", err)
	}
	if err := doc.Output(w); err != nil {
		return fmt.Errorf("write orders pdf: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "..."
}
