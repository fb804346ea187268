package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/Freeeeeet/tutor_bot/internal/controller/common"
	"github.com/Freeeeeet/tutor_bot/internal/controller/common/formatting"
	"github.com/Freeeeeet/tutor_bot/internal/service"
)

const (
	usagePay      = "/pay <id ученика> <сумма> [id занятий...]"
	usageMarkPaid = "/markpaid <id занятий...>"
)

// parseAmount принимает и точку, и запятую
func parseAmount(s string) (float64, error) {
	amount, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || amount <= 0 {
		return 0, fmt.Errorf("%w: bad amount %q", common.ErrUsage, s)
	}
	return amount, nil
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := parseID(a)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// HandlePay обрабатывает /pay - оплата от ученика, перечисленные занятия отмечаются оплаченными
func (h *Handlers) HandlePay(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	args := commandArgs(update.Message.Text)

	if len(args) < 2 {
		h.replyError(ctx, b, chatID, "pay", fmt.Errorf("%w: expected student id and amount", common.ErrUsage), usagePay)
		return
	}
	studentID, err := parseID(args[0])
	if err != nil {
		h.replyError(ctx, b, chatID, "pay", err, usagePay)
		return
	}
	amount, err := parseAmount(args[1])
	if err != nil {
		h.replyError(ctx, b, chatID, "pay", err, usagePay)
		return
	}
	lessonIDs, err := parseIDs(args[2:])
	if err != nil {
		h.replyError(ctx, b, chatID, "pay", err, usagePay)
		return
	}

	payment, err := h.paymentService.Create(ctx, service.PaymentInput{
		StudentID: studentID,
		Amount:    amount,
		LessonIDs: lessonIDs,
	})
	if err != nil {
		h.replyError(ctx, b, chatID, "pay", err, usagePay)
		return
	}

	text := fmt.Sprintf("💵 Оплата #%d от %s: %s",
		payment.ID, payment.StudentName, formatting.FormatMoney(payment.Amount, h.opts.Currency))
	if n := len(payment.Lessons); n > 0 {
		text += fmt.Sprintf("\nОплачено %d %s", n, formatting.PluralizeLessons(n))
	}
	h.sendMessage(ctx, b, chatID, text, nil)
}

// HandleMarkPaid обрабатывает /markpaid - отмечает занятия оплаченными без записи оплаты
func (h *Handlers) HandleMarkPaid(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	ids, err := parseIDs(commandArgs(update.Message.Text))
	if err == nil && len(ids) == 0 {
		err = fmt.Errorf("%w: expected lesson ids", common.ErrUsage)
	}
	if err != nil {
		h.replyError(ctx, b, chatID, "markpaid", err, usageMarkPaid)
		return
	}

	updated, err := h.lessonService.MarkMultiplePaid(ctx, ids)
	if err != nil {
		h.replyError(ctx, b, chatID, "markpaid", err, "")
		return
	}

	h.sendMessage(ctx, b, chatID,
		fmt.Sprintf("✅ Отмечено оплаченными: %d из %d", updated, len(ids)), nil)
}
