package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"franchise-backend/internal/config"
	"franchise-backend/internal/domain"
	"franchise-backend/internal/logger"
	"franchise-backend/internal/render"
	"franchise-backend/internal/repository"
)

type invoiceService struct {
	store    repository.Atomic
	repos    *repository.Repositories
	billing  config.BillingConfig
	renderer render.DocumentRenderer
	docDir   string
	emailSvc EmailService
	clock    Clock
}

func NewInvoiceService(store repository.Atomic, repos *repository.Repositories, billing config.BillingConfig, renderer render.DocumentRenderer, docDir string, emailSvc EmailService, clock Clock) InvoiceService {
	return &invoiceService{
		store:    store,
		repos:    repos,
		billing:  billing,
		renderer: renderer,
		docDir:   docDir,
		emailSvc: emailSvc,
		clock:    clock,
	}
}

// splitVAT derives the HT/VAT breakdown from a TTC amount at the fixed rate.
func splitVAT(amountTTCents int64, rate float64) (htCents, vatCents int64) {
	htCents = int64(math.Round(float64(amountTTCents) / (1 + rate/100)))
	vatCents = amountTTCents - htCents
	return htCents, vatCents
}

// Compile derives the billing document for a transaction. Number allocation
// (count of the month's invoices + 1) happens inside the serializable unit,
// so two concurrent compilations in the same month cannot collide. Compiling
// an already-invoiced transaction returns the existing invoice.
func (s *invoiceService) Compile(ctx context.Context, transactionID int32) (*domain.Invoice, error) {
	logger.EnterMethod("invoiceService.Compile", "transaction_id", transactionID)

	var invoice *domain.Invoice
	err := s.store.WithinTx(ctx, func(r *repository.Repositories) error {
		tx, err := r.Transactions.GetByID(ctx, transactionID)
		if err != nil {
			return err
		}

		existing, err := r.Invoices.GetByTransactionID(ctx, tx.ID)
		if err == nil {
			logger.Info("Transaction already invoiced", "transaction_id", tx.ID, "invoice_number", existing.Number)
			invoice = existing
			return nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		now := s.clock()
		yearMonth := now.Format("200601")
		count, err := r.Invoices.CountByYearMonth(ctx, yearMonth)
		if err != nil {
			return err
		}

		htCents, vatCents := splitVAT(tx.AmountCents, s.billing.VATRate)

		inv := &domain.Invoice{
			Number:        fmt.Sprintf("FAC-%s-%03d", yearMonth, count+1),
			TransactionID: tx.ID,
			FranchiseeID:  tx.FranchiseeID,
			AmountHTCents: htCents,
			VATCents:      vatCents,
			AmountTTCents: tx.AmountCents,
			VATRate:       s.billing.VATRate,
			Status:        domain.InvoiceStatusPending,
			IssueDate:     now,
			DueDate:       now.AddDate(0, 0, 30),
		}
		if !tx.DueDate.IsZero() && tx.DueDate.After(now) {
			inv.DueDate = tx.DueDate
		}
		if tx.Status == domain.TransactionStatusCompleted {
			inv.Status = domain.InvoiceStatusPaid
			inv.PaidAt = tx.CompletedAt
		}
		if err := r.Invoices.Create(ctx, inv); err != nil {
			return err
		}
		invoice = inv
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("invoiceService.Compile", err, "transaction_id", transactionID)
		return nil, err
	}

	s.renderDocument(ctx, invoice)
	s.notify(ctx, invoice)

	logger.ExitMethod("invoiceService.Compile", "transaction_id", transactionID, "invoice_number", invoice.Number)
	return invoice, nil
}

func (s *invoiceService) Get(ctx context.Context, id int32) (*domain.Invoice, error) {
	return s.repos.Invoices.GetByID(ctx, id)
}

// renderDocument produces the printable invoice. Rendering is best effort
// and never blocks the compile result; a missing document can be regenerated.
func (s *invoiceService) renderDocument(ctx context.Context, inv *domain.Invoice) {
	if s.renderer == nil || inv.DocumentPath != "" {
		return
	}
	data, err := s.renderer.Render("invoice", inv)
	if err != nil {
		logger.Warn("Invoice document rendering failed", "invoice_number", inv.Number, "error", err)
		return
	}
	path := filepath.Join(s.docDir, inv.Number+".html")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		logger.Warn("Invoice document write failed", "invoice_number", inv.Number, "error", err)
		return
	}
	if err := s.repos.Invoices.SetDocumentPath(ctx, inv.ID, path); err != nil {
		logger.Warn("Invoice document path update failed", "invoice_number", inv.Number, "error", err)
		return
	}
	inv.DocumentPath = path
}

func (s *invoiceService) notify(ctx context.Context, inv *domain.Invoice) {
	if s.emailSvc == nil || inv.SentAt != nil {
		return
	}
	user, err := s.repos.Users.GetByID(ctx, inv.FranchiseeID)
	if err != nil {
		return
	}
	if err := s.emailSvc.SendInvoiceNotice(ctx, user.Email, user.Name, inv.Number, inv.AmountTTCents); err != nil {
		return
	}
	now := s.clock()
	if err := s.repos.Invoices.MarkSent(ctx, inv.ID, now); err == nil {
		inv.SentAt = &now
	}
}
