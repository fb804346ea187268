package handlers

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/Freeeeeet/tutor_bot/internal/calendar"
	"github.com/Freeeeeet/tutor_bot/internal/controller/common"
	"github.com/Freeeeeet/tutor_bot/internal/controller/common/formatting"
	"github.com/Freeeeeet/tutor_bot/internal/export"
	"github.com/Freeeeeet/tutor_bot/internal/model"
	"github.com/Freeeeeet/tutor_bot/internal/occurrence"
)

const (
	usageICS       = "/ics [1-90|all]"
	usageStatement = "/statement <id ученика> [csv]"
)

// HandleICS обрабатывает /ics - ближайшие занятия или все расписания (all) в iCalendar
func (h *Handlers) HandleICS(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	args := commandArgs(update.Message.Text)

	opts := export.ICSOptions{Name: "Lessons", Location: h.opts.Location, Now: h.now()}

	if len(args) > 0 && strings.EqualFold(args[0], "all") {
		data, err := h.schedulesCalendar(ctx, opts)
		if err != nil {
			h.replyError(ctx, b, chatID, "ics", err, usageICS)
			return
		}
		h.sendDocument(ctx, b, chatID, "schedules.ics", []byte(data), "🗓 Все расписания с повторениями")
		return
	}

	days, err := parseDays(args, h.opts.UpcomingDays)
	if err != nil {
		h.replyError(ctx, b, chatID, "ics", err, usageICS)
		return
	}

	occurrences, err := h.scheduleService.Upcoming(ctx, h.scheduleService.Today(), days)
	if err != nil {
		h.replyError(ctx, b, chatID, "ics", err, "")
		return
	}

	data := export.OccurrencesICS(occurrences, opts)
	h.sendDocument(ctx, b, chatID, "lessons.ics", []byte(data), fmt.Sprintf("📅 Занятия на %d дн.", days))
}

func (h *Handlers) schedulesCalendar(ctx context.Context, opts export.ICSOptions) (string, error) {
	views, err := h.scheduleService.List(ctx)
	if err != nil {
		return "", err
	}

	schedules := make([]model.Schedule, 0, len(views))
	names := make(map[int64]string, len(views))
	for _, v := range views {
		schedules = append(schedules, v.Schedule)
		names[v.StudentID] = v.StudentName
	}

	return export.SchedulesICS(schedules, occurrence.NamesFrom(names), opts)
}

// HandleStatement обрабатывает /statement - выписка по неоплаченным занятиям ученика
func (h *Handlers) HandleStatement(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	args := commandArgs(update.Message.Text)

	if len(args) < 1 || len(args) > 2 {
		h.replyError(ctx, b, chatID, "statement", fmt.Errorf("%w: expected student id", common.ErrUsage), usageStatement)
		return
	}
	studentID, err := parseID(args[0])
	if err != nil {
		h.replyError(ctx, b, chatID, "statement", err, usageStatement)
		return
	}
	asCSV := len(args) == 2 && strings.EqualFold(args[1], "csv")

	detail, err := h.studentService.Get(ctx, studentID)
	if err != nil {
		h.replyError(ctx, b, chatID, "statement", err, usageStatement)
		return
	}

	statement := BuildStatement(detail, h.scheduleService.Today(), h.opts.Currency)

	var data []byte
	filename := fmt.Sprintf("statement-%d", studentID)
	if asCSV {
		data, err = export.StatementCSV(statement)
		filename += ".csv"
	} else {
		data, err = export.StatementPDF(statement)
		filename += ".pdf"
	}
	if err != nil {
		h.replyError(ctx, b, chatID, "statement", err, "")
		return
	}

	caption := fmt.Sprintf("🧾 %s: к оплате %s", detail.Name, formatting.FormatMoney(statement.Total(), h.opts.Currency))
	h.sendDocument(ctx, b, chatID, filename, data, caption)
}

// BuildStatement выписка из неоплаченных занятий ученика в хронологическом порядке
func BuildStatement(detail *model.StudentDetail, issuedOn calendar.Date, currency string) export.Statement {
	unpaid := make([]model.Lesson, 0, len(detail.Lessons))
	for _, l := range detail.Lessons {
		if !l.IsPaid {
			unpaid = append(unpaid, l)
		}
	}
	slices.SortStableFunc(unpaid, func(a, b model.Lesson) int {
		return a.Date.Compare(b.Date)
	})

	return export.Statement{
		Student:  detail.Student,
		Lessons:  unpaid,
		IssuedOn: issuedOn,
		Currency: currency,
	}
}
