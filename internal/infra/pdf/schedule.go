// Package pdf формирует PDF с расписанием лаборатории на рабочую неделю.
package pdf

import (
	"errors"
	"fmt"
	"io"

	"github.com/phpdave11/gofpdf"

	"github.com/itvlab/lab-scheduler/internal/domain"
)

// ErrRender ошибка формирования PDF
var ErrRender = errors.New("pdf: failed to render schedule")

// Размеры в мм для A4 landscape с полями 10 мм
const (
	margin      = 10.0
	roomColumn  = 57.0
	slotColumn  = 22.0
	headerRow   = 8.0
	bodyRow     = 7.0
	titleHeight = 10.0
)

var weekdayNames = [domain.WorkDaysPerWeek]string{"Segunda", "Terça", "Quarta", "Quinta", "Sexta"}

// Renderer рисует таблицу недели: строки комнаты, столбцы дни × периоды
type Renderer struct {
	title string
}

// NewRenderer создает Renderer с заголовком документа
func NewRenderer(title string) *Renderer {
	if title == "" {
		title = "Escala de Laboratórios"
	}
	return &Renderer{title: title}
}

// Render пишет PDF расписания недели в w
func (r *Renderer) Render(w io.Writer, week *domain.WeekSchedule) error {
	if week == nil || len(week.Days) != domain.WorkDaysPerWeek {
		return fmt.Errorf("%w: week must have %d days", ErrRender, domain.WorkDaysPerWeek)
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetTitle(r.title, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("") // cp1252

	pdf.AddPage()

	// Заголовок
	pdf.SetFont("Arial", "B", 14)
	title := fmt.Sprintf("%s - Semana de %s a %s", r.title,
		week.Start.Format(domain.DisplayDateFormat), week.End().Format(domain.DisplayDateFormat))
	pdf.CellFormat(0, titleHeight, tr(title), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	r.header(pdf, tr, week)

	// Строки комнат
	pdf.SetFont("Arial", "", 8)
	for i, room := range week.Rooms {
		fill := i%2 == 1
		pdf.SetFillColor(242, 242, 242)
		pdf.CellFormat(roomColumn, bodyRow, tr(fit(pdf, tr, room.Name, roomColumn)), "1", 0, "L", fill, 0, "")
		for _, day := range week.Days {
			for _, period := range domain.Periods {
				text := ""
				if b := week.BookingAt(room.ID, day, period); b != nil {
					text = fit(pdf, tr, b.UserName, slotColumn)
				}
				pdf.CellFormat(slotColumn, bodyRow, tr(text), "1", 0, "C", fill, 0, "")
			}
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("%w: %v", ErrRender, err)
	}
	return nil
}

// header строка дней недели и строка периодов
func (r *Renderer) header(pdf *gofpdf.Fpdf, tr func(string) string, week *domain.WeekSchedule) {
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(200, 220, 255)

	x, y := pdf.GetXY()
	pdf.CellFormat(roomColumn, headerRow*2, tr("Sala"), "1", 0, "C", true, 0, "")
	for i, day := range week.Days {
		label := fmt.Sprintf("%s %s", weekdayNames[i], day.Format(domain.DisplayDateFormat))
		pdf.CellFormat(slotColumn*float64(len(domain.Periods)), headerRow, tr(label), "1", 0, "C", true, 0, "")
	}

	pdf.SetXY(x+roomColumn, y+headerRow)
	pdf.SetFont("Arial", "B", 8)
	for range week.Days {
		for _, period := range domain.Periods {
			pdf.CellFormat(slotColumn, headerRow, tr(string(period)), "1", 0, "C", true, 0, "")
		}
	}
	pdf.Ln(-1)
}

// fit обрезает текст с "..." до ширины колонки в текущем шрифте
func fit(pdf *gofpdf.Fpdf, tr func(string) string, s string, width float64) string {
	const padding = 2.0
	if pdf.GetStringWidth(tr(s)) <= width-padding {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "..."
		if pdf.GetStringWidth(tr(candidate)) <= width-padding {
			return candidate
		}
	}
	return ""
}
