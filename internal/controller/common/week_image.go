package common

import (
	"bytes"
	"fmt"
	"image/color"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/Freeeeeet/tutor_bot/internal/calendar"
	"github.com/Freeeeeet/tutor_bot/internal/model"
)

// Константы размеров и отступов
const (
	imageWidth        = 1400
	imageHeight       = 900
	headerHeight      = 100
	leftLabelsWidth   = 80
	legendWidth       = 140
	dayPaddingX       = 8
	minLessonHeight   = 8.0
	lessonBorderRadii = 6.0
	shadowOffset      = 3.0
	totalDaysInWeek   = 7
	hourPaddingTop    = 1
	hourPaddingBot    = 1
	defaultMinHour    = 8
	defaultMaxHour    = 20
	maxLabelLen       = 20
)

// Цветовая схема
var (
	bgColor          = color.RGBA{245, 246, 248, 255}
	textColor        = color.RGBA{80, 85, 90, 220}
	hourLabelColor   = color.RGBA{110, 115, 120, 200}
	hourLineColor    = color.NRGBA{150, 150, 150, 255}
	todayBgColor     = color.NRGBA{255, 99, 71, 125}
	evenDayColor     = color.NRGBA{240, 240, 240, 255}
	oddDayColor      = color.NRGBA{220, 220, 220, 255}
	currentTimeColor = color.NRGBA{255, 80, 80, 200}

	recurringColor   = color.RGBA{133, 193, 85, 220}
	oneOffColor      = color.RGBA{120, 170, 230, 230}
	rescheduledColor = color.RGBA{255, 190, 110, 235}
	lessonTextColor  = color.RGBA{20, 24, 28, 230}
	lessonShadow     = color.RGBA{0, 0, 0, 20}

	legendItemColor = color.RGBA{70, 74, 78, 220}
)

// hourRange содержит диапазон часов для отображения
type hourRange struct {
	start int
	end   int
	total int
}

// WeekImage параметры картинки недели
type WeekImage struct {
	Week        calendar.Date // любой день недели, рисуется Пн-Вс
	Today       calendar.Date
	Now         time.Time // положение линии текущего времени; нулевое - без линии
	Occurrences []model.Occurrence
}

// GenerateWeekImage рисует неделю занятий в PNG.
// basicfont умеет только ASCII, поэтому подписи на картинке латиницей.
func GenerateWeekImage(w WeekImage) ([]byte, error) {
	monday := calendar.MondayOf(w.Week)
	sunday := monday.AddDays(totalDaysInWeek - 1)
	showToday := !w.Today.IsZero() && w.Today.Between(monday, sunday)

	byDay := groupByDay(w.Occurrences, monday, sunday)
	hours := calculateHourRange(w.Occurrences)

	dc := createCanvas()
	dayWidth := (imageWidth - leftLabelsWidth - legendWidth) / totalDaysInWeek
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(hours.total)

	drawHeader(dc, monday, sunday)
	drawHourLabels(dc, hours, cellHeight)
	for i := 0; i < totalDaysInWeek; i++ {
		date := monday.AddDays(i)
		x := float64(leftLabelsWidth + i*dayWidth)
		y := float64(headerHeight)

		drawDayBackground(dc, x, y, dayWidth, dayHeight, i, showToday && date.Equal(w.Today))
		drawDayHeader(dc, date, x, y, dayWidth)
		drawHourLines(dc, x, y, dayWidth, hours, cellHeight)
		for _, o := range byDay[date.String()] {
			drawLesson(dc, o, x, y, dayWidth, hours, cellHeight)
		}
	}
	if showToday && !w.Now.IsZero() {
		drawCurrentTimeLine(dc, w.Now, hours, cellHeight, dayWidth)
	}
	drawLegend(dc, dayWidth)

	return encodeImage(dc)
}

// groupByDay группирует занятия недели по дате
func groupByDay(occurrences []model.Occurrence, monday, sunday calendar.Date) map[string][]model.Occurrence {
	byDay := make(map[string][]model.Occurrence)
	for _, o := range occurrences {
		if !o.Date.Between(monday, sunday) {
			continue
		}
		key := o.Date.String()
		byDay[key] = append(byDay[key], o)
	}
	return byDay
}

// startEnd часы начала и конца занятия дробными числами
func startEnd(o model.Occurrence) (float64, float64) {
	start := o.Date.At(o.Time, time.UTC)
	end := start.Add(time.Duration(o.DurationMinutes) * time.Minute)

	from := float64(start.Hour()) + float64(start.Minute())/60.0
	to := from + end.Sub(start).Hours()
	return from, to
}

// calculateHourRange определяет диапазон часов для отображения
func calculateHourRange(occurrences []model.Occurrence) hourRange {
	minHour := 24
	maxHour := 0

	for _, o := range occurrences {
		from, to := startEnd(o)
		if h := int(from); h < minHour {
			minHour = h
		}
		endH := int(to)
		if to > float64(endH) {
			endH++
		}
		if endH > maxHour {
			maxHour = endH
		}
	}

	if minHour == 24 {
		minHour = defaultMinHour
		maxHour = defaultMaxHour
	}

	startHour := max(minHour-hourPaddingTop, 0)
	endHour := min(maxHour+hourPaddingBot, 24)

	return hourRange{
		start: startHour,
		end:   endHour,
		total: endHour - startHour,
	}
}

// createCanvas создает новый контекст рисования с фоном
func createCanvas() *gg.Context {
	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(bgColor)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)
	return dc
}

// drawHeader рисует заголовок с месяцем и диапазоном дат
func drawHeader(dc *gg.Context, monday, sunday calendar.Date) {
	title := fmt.Sprintf("%s - %s",
		monday.Time().Format("Mon 02 Jan"),
		sunday.Time().Format("Mon 02 Jan 2006"))

	dc.SetColor(textColor)
	dc.DrawStringAnchored(title, float64(leftLabelsWidth), float64(headerHeight)/4, 0, 0.5)
}

// drawHourLabels рисует колонку с часами слева
func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	dc.SetColor(hourLabelColor)

	for hIdx := 0; hIdx <= hours.total; hIdx++ {
		y := float64(headerHeight) + float64(hIdx)*cellHeight
		dc.DrawStringAnchored(fmt.Sprintf("%02d:00", hours.start+hIdx), float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

// drawDayBackground рисует фон дня
func drawDayBackground(dc *gg.Context, x, y float64, dayWidth, dayHeight, dayIndex int, isToday bool) {
	switch {
	case isToday:
		dc.SetColor(todayBgColor)
	case dayIndex%2 == 0:
		dc.SetColor(evenDayColor)
	default:
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
	dc.Fill()
}

// drawDayHeader рисует день недели и дату
func drawDayHeader(dc *gg.Context, date calendar.Date, x, y float64, dayWidth int) {
	dc.SetColor(textColor)
	dc.DrawStringAnchored(date.Time().Format("02.01"), x+float64(dayWidth)/2, y-30, 0.5, 0.5)
	dc.DrawStringAnchored(date.Time().Format("Mon"), x+float64(dayWidth)/2, y-12, 0.5, 0.5)
}

// drawHourLines рисует горизонтальные линии часов
func drawHourLines(dc *gg.Context, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)

	for hIdx := 0; hIdx <= hours.total; hIdx++ {
		hy := y + float64(hIdx)*cellHeight
		dc.DrawLine(x, hy, x+float64(dayWidth), hy)
		dc.Stroke()
	}
}

// drawLesson рисует одно занятие
func drawLesson(dc *gg.Context, o model.Occurrence, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	from, to := startEnd(o)

	top := y + (from-float64(hours.start))*cellHeight
	height := max((to-from)*cellHeight, minLessonHeight)
	width := float64(dayWidth) - float64(dayPaddingX*2)
	fill := lessonColor(o)

	// Тень
	dc.SetColor(lessonShadow)
	dc.DrawRoundedRectangle(x+dayPaddingX+shadowOffset, top+2+shadowOffset, width, height-4, lessonBorderRadii)
	dc.Fill()

	dc.SetColor(fill)
	dc.DrawRoundedRectangle(x+dayPaddingX, top+2, width, height-4, lessonBorderRadii)
	dc.Fill()

	// Рамка
	dc.SetColor(darkenColor(fill, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x+dayPaddingX, top+2, width, height-4, lessonBorderRadii)
	dc.Stroke()

	dc.SetColor(lessonTextColor)
	txtX := x + dayPaddingX + 8
	txtY := top + 16
	dc.DrawStringAnchored(o.Time, txtX, txtY, 0, 0)

	if height > 30 {
		dc.DrawStringAnchored(truncateLabel(o.StudentName), txtX, txtY+15, 0, 0)
	}
}

// lessonColor цвет по типу занятия
func lessonColor(o model.Occurrence) color.RGBA {
	switch {
	case o.IsRescheduled:
		return rescheduledColor
	case o.IsRecurringInstance:
		return recurringColor
	default:
		return oneOffColor
	}
}

// truncateLabel обрезает подпись по рунам
func truncateLabel(s string) string {
	r := []rune(s)
	if len(r) <= maxLabelLen {
		return s
	}
	return string(r[:maxLabelLen-3]) + "..."
}

// darkenColor затемняет цвет на указанный множитель
func darkenColor(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

// drawCurrentTimeLine рисует красную линию текущего времени
func drawCurrentTimeLine(dc *gg.Context, now time.Time, hours hourRange, cellHeight float64, dayWidth int) {
	current := float64(now.Hour()) + float64(now.Minute())/60.0
	if current < float64(hours.start) || current > float64(hours.end) {
		return
	}

	y := float64(headerHeight) + (current-float64(hours.start))*cellHeight
	dc.SetColor(currentTimeColor)
	dc.SetLineWidth(2.0)
	dc.DrawLine(float64(leftLabelsWidth), y, float64(leftLabelsWidth+totalDaysInWeek*dayWidth), y)
	dc.Stroke()
}

// drawLegend рисует легенду справа
func drawLegend(dc *gg.Context, dayWidth int) {
	legendX := float64(leftLabelsWidth + totalDaysInWeek*dayWidth + 10)
	legendY := float64(imageHeight) - 100.0

	items := []struct {
		Label string
		Clr   color.Color
	}{
		{"Recurring", recurringColor},
		{"One-off", oneOffColor},
		{"Moved", rescheduledColor},
	}

	boxW := 20.0
	boxH := 14.0
	liY := legendY + 22

	for _, item := range items {
		dc.SetColor(item.Clr)
		dc.DrawRoundedRectangle(legendX, liY, boxW, boxH, 3)
		dc.Fill()

		dc.SetColor(legendItemColor)
		dc.DrawStringAnchored(item.Label, legendX+boxW+8, liY+boxH/2+1, 0, 0.2)
		liY += boxH + 14
	}
}

// encodeImage кодирует изображение в PNG
func encodeImage(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
