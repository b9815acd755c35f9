package receipt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zombor/receipt-reader/internal/insights"
	"github.com/zombor/receipt-reader/internal/parsing"
	"github.com/zombor/receipt-reader/internal/scanning"
)

var (
	// ErrUnsupportedType is returned for uploads that cannot be scanned
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrScanFailed wraps errors from the OCR backend
	ErrScanFailed = errors.New("scanning receipt")
	// ErrEmptyQuestion is returned when a blank question is asked
	ErrEmptyQuestion = errors.New("question is empty")
)

// IDGenerator generates unique IDs for receipts and questions
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultIDGenerator generates random UUIDs
type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return uuid.NewString()
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service handles receipt operations
type Service struct {
	db          DB
	scanner     scanning.Scanner
	parser      *parsing.Parser
	storage     Storage
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and time source
func NewService(db DB, scanner scanning.Scanner, parser *parsing.Parser, storage Storage) *Service {
	return NewServiceWithDeps(db, scanner, parser, storage, &defaultIDGenerator{}, &defaultTimeSource{})
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(db DB, scanner scanning.Scanner, parser *parsing.Parser, storage Storage, idGen IDGenerator, timeSrc TimeSource) *Service {
	if parser == nil {
		parser = parsing.New(parsing.DefaultOptions())
	}
	return &Service{
		db:          db,
		scanner:     scanner,
		parser:      parser,
		storage:     storage,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

var (
	filenameCharsRe  = regexp.MustCompile(`[^a-zA-Z0-9\s\-_]`)
	filenameSpacesRe = regexp.MustCompile(`\s+`)
)

// sanitizeFilename cleans up a filename by removing special characters and truncating length
func sanitizeFilename(filename string) string {
	filename = filepath.Base(filename)
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filename, ext)

	// Keep only alphanumeric, spaces, hyphens, and underscores
	base = filenameCharsRe.ReplaceAllString(base, "")
	base = filenameSpacesRe.ReplaceAllString(base, " ")
	base = strings.TrimSpace(base)

	// 50 chars for the base, plus extension
	maxLen := 50
	if len(base) > maxLen {
		base = base[:maxLen]
	}

	if base == "" {
		base = "receipt"
	}

	return base + ext
}

// ProcessReceipt stores an upload, scans and parses it, and saves the receipt
func (s *Service) ProcessReceipt(ctx context.Context, filename string, data []byte, contentType string) (*Receipt, error) {
	if !scanning.Supported(contentType) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	id := s.idGenerator.Generate()
	now := s.timeSource.Now()

	// Phone-generated names are long; keep a short readable version
	savedName, err := s.storage.Save(fmt.Sprintf("%s_%s", id, sanitizeFilename(filename)), data)
	if err != nil {
		return nil, fmt.Errorf("saving file: %w", err)
	}

	text, err := s.scanner.ScanText(ctx, data, contentType)
	if err != nil {
		slog.Error("Failed to scan receipt",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		s.deleteFile(savedName)
		return nil, fmt.Errorf("%w: %w", ErrScanFailed, err)
	}

	receipt := &Receipt{
		ID:           id,
		Filename:     savedName,
		OriginalName: filename,
		ContentType:  contentType,
		Currency:     Currency,
		RawText:      text,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	receipt.applyParse(s.parser.Parse(text))

	if receipt.Unreadable {
		slog.Warn("Could not read receipt", "id", id, "filename", filename, "text_length", len(text))
	} else {
		slog.Info("Parsed receipt", "id", id, "items", len(receipt.Items), "has_date", receipt.Date != nil, "has_total", receipt.Total != nil)
	}

	if err := s.db.SaveReceipt(receipt); err != nil {
		s.deleteFile(savedName)
		return nil, fmt.Errorf("saving receipt to database: %w", err)
	}

	return receipt, nil
}

func (s *Service) deleteFile(name string) {
	if err := s.storage.Delete(name); err != nil {
		slog.Warn("Failed to delete file", "filename", name, "error", err)
	}
}

// GetReceipt retrieves a receipt by ID
func (s *Service) GetReceipt(id string) (*Receipt, error) {
	receipt, err := s.db.GetReceipt(id)
	if err != nil {
		return nil, fmt.Errorf("getting receipt: %w", err)
	}
	return receipt, nil
}

// ListReceipts returns all receipts, newest first
func (s *Service) ListReceipts() ([]*Receipt, error) {
	receipts, err := s.db.ListReceipts()
	if err != nil {
		return nil, fmt.Errorf("listing receipts: %w", err)
	}
	return receipts, nil
}

// DeleteReceipt removes a receipt and its file
func (s *Service) DeleteReceipt(id string) error {
	receipt, err := s.db.GetReceipt(id)
	if err != nil {
		return fmt.Errorf("getting receipt for deletion: %w", err)
	}

	// A missing file should not keep the record around
	s.deleteFile(receipt.Filename)

	if err := s.db.DeleteReceipt(id); err != nil {
		return fmt.Errorf("deleting receipt from database: %w", err)
	}
	return nil
}

// GetReceiptFile retrieves the file data for a receipt
func (s *Service) GetReceiptFile(id string) ([]byte, string, error) {
	receipt, err := s.db.GetReceipt(id)
	if err != nil {
		return nil, "", fmt.Errorf("getting receipt: %w", err)
	}

	data, err := s.storage.Get(receipt.Filename)
	if err != nil {
		return nil, "", fmt.Errorf("getting receipt file: %w", err)
	}

	return data, receipt.ContentType, nil
}

// ReparseReceipt runs the parser again over the stored text of a receipt
func (s *Service) ReparseReceipt(id string) (*Receipt, error) {
	receipt, err := s.db.GetReceipt(id)
	if err != nil {
		return nil, fmt.Errorf("getting receipt: %w", err)
	}

	receipt.applyParse(s.parser.Parse(receipt.RawText))
	receipt.UpdatedAt = s.timeSource.Now()

	if err := s.db.SaveReceipt(receipt); err != nil {
		return nil, fmt.Errorf("saving receipt to database: %w", err)
	}
	return receipt, nil
}

// ClearReceipts removes every receipt and its file
func (s *Service) ClearReceipts() error {
	receipts, err := s.db.ListReceipts()
	if err != nil {
		return fmt.Errorf("listing receipts: %w", err)
	}
	for _, receipt := range receipts {
		s.deleteFile(receipt.Filename)
	}

	if err := s.db.ClearReceipts(); err != nil {
		return fmt.Errorf("clearing receipts: %w", err)
	}
	slog.Info("Cleared receipt history", "count", len(receipts))
	return nil
}

// ExportReceipts renders every receipt as an indented JSON array
func (s *Service) ExportReceipts() ([]byte, error) {
	receipts, err := s.ListReceipts()
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(receipts, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling receipts: %w", err)
	}
	return data, nil
}

// Ask answers a spending question from the receipt history and logs it
func (s *Service) Ask(question string) (*Question, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}

	receipts, err := s.ListReceipts()
	if err != nil {
		return nil, err
	}

	now := s.timeSource.Now()
	q := &Question{
		ID:      s.idGenerator.Generate(),
		Text:    question,
		Answer:  insights.Answer(question, len(receipts), purchases(receipts), now),
		AskedAt: now,
	}

	if err := s.db.SaveQuestion(q); err != nil {
		return nil, fmt.Errorf("saving question: %w", err)
	}
	return q, nil
}

// ListQuestions returns the question log, newest first
func (s *Service) ListQuestions() ([]*Question, error) {
	questions, err := s.db.ListQuestions()
	if err != nil {
		return nil, fmt.Errorf("listing questions: %w", err)
	}
	return questions, nil
}

// purchases flattens dated receipts into their line items
func purchases(receipts []*Receipt) []insights.Purchase {
	var out []insights.Purchase
	for _, receipt := range receipts {
		if receipt.Date == nil {
			continue
		}
		for _, item := range receipt.Items {
			out = append(out, insights.Purchase{
				Name:     item.Name,
				Price:    item.Price,
				Category: item.Category,
				Date:     *receipt.Date,
			})
		}
	}
	return out
}
