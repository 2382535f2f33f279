package jobs

import (
	"context"

	"franchise-backend/internal/logger"
)

// SendPaymentReminders emails franchisees whose transactions are past due
// and still awaiting payment.
func (jr *JobRunner) SendPaymentReminders() {
	jr.runWithRecovery("SendPaymentReminders", func() {
		ctx := context.Background()

		overdue, err := jr.repos.Transactions.ListOverdue(ctx, jr.clock())
		if err != nil {
			logger.Error("Failed to list overdue transactions", "error", err)
			return
		}

		sent := 0
		for _, tx := range overdue {
			user, err := jr.repos.Users.GetByID(ctx, tx.FranchiseeID)
			if err != nil {
				logger.Error("Failed to load franchisee for reminder",
					"franchisee_id", tx.FranchiseeID, "error", err)
				continue
			}
			if err := jr.emailSvc.SendPaymentReminder(ctx, user.Email, user.Name, tx.Reference, tx.AmountCents, tx.DueDate); err != nil {
				logger.Error("Failed to send payment reminder",
					"transaction_ref", tx.Reference, "error", err)
				continue
			}
			sent++
		}

		logger.Info("Payment reminders sent", "overdue", len(overdue), "sent", sent)
	})
}

// SendInvoiceReminders emails franchisees with unpaid invoices past their
// due date.
func (jr *JobRunner) SendInvoiceReminders() {
	jr.runWithRecovery("SendInvoiceReminders", func() {
		ctx := context.Background()

		unpaid, err := jr.repos.Invoices.ListUnpaid(ctx, jr.clock())
		if err != nil {
			logger.Error("Failed to list unpaid invoices", "error", err)
			return
		}

		sent := 0
		for _, inv := range unpaid {
			user, err := jr.repos.Users.GetByID(ctx, inv.FranchiseeID)
			if err != nil {
				continue
			}
			if err := jr.emailSvc.SendInvoiceNotice(ctx, user.Email, user.Name, inv.Number, inv.AmountTTCents); err != nil {
				logger.Error("Failed to send invoice reminder",
					"invoice_number", inv.Number, "error", err)
				continue
			}
			sent++
		}

		logger.Info("Invoice reminders sent", "unpaid", len(unpaid), "sent", sent)
	})
}
