package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

const fontFamily = "Helvetica"

// Render draws r as PDF bytes
func Render(r *Report) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(r.Title, true)
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	page := 0
	for _, el := range r.Elements {
		for page < el.Page {
			pdf.AddPage()
			page++
		}
		drawElement(pdf, tr, el)
	}
	for page < r.Pages {
		pdf.AddPage()
		page++
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}
	return buf.Bytes(), nil
}

func drawElement(pdf *fpdf.Fpdf, tr func(string) string, el Element) {
	style := ""
	switch el.Kind {
	case KindTitle:
		pdf.SetFillColor(52, 144, 220)
		pdf.Rect(0, 0, PageWidth, 40, "F")
		pdf.SetTextColor(255, 255, 255)
	case KindRoomHeader:
		pdf.SetFillColor(240, 240, 240)
		pdf.Rect(10, el.Y-5, 190, 10, "F")
		pdf.SetTextColor(0, 0, 0)
	case KindCaption, KindDetail:
		pdf.SetTextColor(100, 100, 100)
	case KindItem, KindBullet:
		pdf.SetTextColor(0, 0, 0)
	case KindTotal:
		pdf.SetFillColor(245, 245, 245)
		pdf.Rect(0, el.Y-10, PageWidth, 20, "F")
		pdf.SetTextColor(0, 0, 0)
		style = "B"
	}

	pdf.SetFont(fontFamily, style, el.FontSize)
	text := tr(el.Text)
	x := el.X
	switch el.Align {
	case AlignCenter:
		x -= pdf.GetStringWidth(text) / 2
	case AlignRight:
		x -= pdf.GetStringWidth(text)
	}
	pdf.Text(x, el.Y, text)
}
