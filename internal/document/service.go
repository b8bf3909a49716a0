package document

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/pos-management/internal"
	"github.com/frahmantamala/pos-management/internal/core/identity"
	"github.com/frahmantamala/pos-management/internal/transaction"
)

// TransactionSource is the part of the transaction service documents are built from.
type TransactionSource interface {
	ListTransactions(ctx context.Context, caller identity.Identity, filter transaction.Filter) ([]transaction.Transaction, error)
	GetTransaction(ctx context.Context, caller identity.Identity, transactionID int64) (*transaction.Detailed, error)
}

type InvoiceRenderer interface {
	Invoice(inv Invoice) ([]byte, error)
}

type ReportRenderer interface {
	Report(rep Report) ([]byte, error)
}

type Service struct {
	transactions TransactionSource
	invoices     InvoiceRenderer
	reports      map[Format]ReportRenderer
	logger       *slog.Logger
	now          func() time.Time
}

func NewService(transactions TransactionSource, pdf *PDFRenderer, sheets *SpreadsheetRenderer, logger *slog.Logger) *Service {
	return &Service{
		transactions: transactions,
		invoices:     pdf,
		reports: map[Format]ReportRenderer{
			FormatPDF:  pdf,
			FormatXLSX: sheets,
		},
		logger: logger,
		now:    time.Now,
	}
}

// WithClock replaces the time source used for timestamps and filenames.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) GenerateInvoice(ctx context.Context, caller identity.Identity, transactionID int64) (File, error) {
	tx, err := s.transactions.GetTransaction(ctx, caller, transactionID)
	if err != nil {
		if errors.Is(err, internal.ErrTransactionNotFound) {
			return File{}, err
		}
		s.logger.Error("failed to load transaction for invoice", "transaction_id", transactionID, "error", err)
		return File{}, internal.NewInternalError("Failed to generate invoice", err)
	}

	data, err := s.invoices.Invoice(Invoice{
		TenantName:  caller.TenantName,
		GeneratedAt: s.now(),
		Transaction: *tx,
	})
	if err != nil {
		s.logger.Error("failed to render invoice", "transaction_id", transactionID, "error", err)
		return File{}, internal.NewInternalError("Failed to generate invoice", err)
	}

	return File{
		Name:        InvoiceFilename(tx.TransactionID),
		ContentType: ContentTypePDF,
		Data:        data,
	}, nil
}

func (s *Service) GenerateReport(ctx context.Context, caller identity.Identity, req ReportRequest) (File, error) {
	format, err := req.OutputFormat()
	if err != nil {
		return File{}, err
	}
	filter, err := transaction.ParseFilter(req.StartDate, req.EndDate, req.Username)
	if err != nil {
		return File{}, err
	}

	list, err := s.transactions.ListTransactions(ctx, caller, filter)
	if err != nil {
		s.logger.Error("failed to load transactions for report", "error", err)
		return File{}, internal.NewInternalError("Failed to generate report", err)
	}

	at := s.now()
	rep := Report{
		GeneratedBy:  caller.Username,
		TenantName:   caller.TenantName,
		GeneratedAt:  at,
		Filter:       filter,
		Mode:         req.Mode(),
		Transactions: list,
	}

	data, err := s.reports[format].Report(rep)
	if err != nil {
		s.logger.Error("failed to render report", "format", format, "error", err)
		return File{}, internal.NewInternalError("Failed to generate report", err)
	}

	s.logger.Info("report generated",
		"format", format,
		"mode", rep.Mode,
		"transactions", len(list))

	contentType := ContentTypePDF
	if format == FormatXLSX {
		contentType = ContentTypeXLSX
	}
	return File{
		Name:        ReportFilename(at, format),
		ContentType: contentType,
		Data:        data,
	}, nil
}
