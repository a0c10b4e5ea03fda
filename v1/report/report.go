// Package report lays out and renders the home inventory PDF.
package report

import (
	"github.com/gov-dx-sandbox/home-inventory/v1/i18n"
	"github.com/gov-dx-sandbox/home-inventory/v1/models"
)

// Page geometry in millimetres (A4 portrait)
const (
	PageWidth      = 210.0
	FirstPageStart = 50.0
	NextPageStart  = 20.0
	PageBreakAt    = 250.0
)

// ElementKind says how an element is drawn
type ElementKind int

const (
	KindTitle ElementKind = iota
	KindRoomHeader
	KindCaption
	KindItem
	KindDetail
	KindTotal
	KindBullet
)

// bullet marks each item line
const bullet = "•"

// Align is the horizontal anchor of an element's text at X
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Element is one positioned piece of text
type Element struct {
	Kind     ElementKind
	Page     int
	X        float64
	Y        float64
	FontSize float64
	Align    Align
	Text     string
}

// Report is the laid-out document
type Report struct {
	Locale     i18n.Locale
	Title      string
	Pages      int
	Elements   []Element
	TotalValue float64
}

// TotalValue sums every item value across rooms
func TotalValue(rooms []models.Room) float64 {
	var total float64
	for _, room := range rooms {
		for _, item := range room.Items {
			total += item.Value
		}
	}
	return total
}

type layout struct {
	report *Report
	page   int
	y      float64
}

func (l *layout) add(kind ElementKind, x, fontSize float64, align Align, text string) {
	l.report.Elements = append(l.report.Elements, Element{
		Kind:     kind,
		Page:     l.page,
		X:        x,
		Y:        l.y,
		FontSize: fontSize,
		Align:    align,
		Text:     text,
	})
}

// breakIfFull starts a new page once the cursor has passed the break line
func (l *layout) breakIfFull() {
	if l.y > PageBreakAt {
		l.page++
		l.y = NextPageStart
	}
}

// BuildReport positions every line of the report. It performs no I/O.
func BuildReport(locale i18n.Locale, rooms []models.Room) *Report {
	r := &Report{
		Locale: locale,
		Title:  i18n.T(locale, "report.title"),
	}
	l := &layout{report: r, page: 1, y: 25}
	l.add(KindTitle, PageWidth/2, 24, AlignCenter, r.Title)
	l.y = FirstPageStart

	for _, room := range rooms {
		l.breakIfFull()
		l.add(KindRoomHeader, 15, 16, AlignLeft, room.Name)
		l.y += 15

		l.add(KindCaption, 20, 12, AlignLeft, i18n.T(locale, "report.item"))
		l.add(KindCaption, 140, 12, AlignLeft, i18n.T(locale, "report.value"))
		l.y += 7

		for _, item := range room.Items {
			l.breakIfFull()
			r.TotalValue += item.Value

			l.add(KindBullet, 15, 12, AlignLeft, bullet)
			l.add(KindItem, 25, 12, AlignLeft, item.Name)
			l.add(KindItem, 140, 12, AlignLeft, i18n.FormatMoney(locale, item.Value))
			l.y += 7

			details := []struct{ key, value string }{
				{"report.brand", item.Brand},
				{"report.model", item.ModelNumber},
				{"report.serial", item.SerialNumber},
				{"report.description", item.Description},
			}
			for _, d := range details {
				if d.value == "" {
					continue
				}
				l.add(KindDetail, 25, 10, AlignLeft, i18n.T(locale, d.key, i18n.Values("value", d.value)))
				l.y += 5
			}
			l.y += 3
		}
		l.y += 10
	}

	l.y += 5
	l.add(KindTotal, 190, 16, AlignRight,
		i18n.T(locale, "report.total", i18n.Values("amount", i18n.FormatMoney(locale, r.TotalValue))))
	r.Pages = l.page
	return r
}
