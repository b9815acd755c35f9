package main

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/zombor/receipt-reader/internal/parsing"
	"github.com/zombor/receipt-reader/internal/receipt"
	"github.com/zombor/receipt-reader/internal/scanning"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

type scannerConfig struct {
	kind          string
	tesseractLang string
	geminiKey     string
	geminiModel   string
	ollamaURL     string
	ollamaModel   string
}

// newScanner builds the OCR backend named by cfg.kind
func newScanner(cfg scannerConfig) (scanning.Scanner, error) {
	switch cfg.kind {
	case "tesseract":
		t, err := scanning.NewTesseract(cfg.tesseractLang)
		if err != nil {
			return nil, fmt.Errorf("initializing tesseract: %w", err)
		}
		slog.Info("Initializing Tesseract scanner...", "languages", t.Languages())
		return t, nil
	case "gemini":
		apiKey := cfg.geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("gemini API key is required: set --gemini-key or GEMINI_API_KEY")
		}
		slog.Info("Initializing Gemini scanner...", "model", cfg.geminiModel)
		g, err := scanning.NewGemini(apiKey, cfg.geminiModel)
		if err != nil {
			return nil, fmt.Errorf("initializing gemini: %w", err)
		}
		return g, nil
	case "ollama":
		slog.Info("Initializing Ollama scanner...", "url", cfg.ollamaURL, "model", cfg.ollamaModel)
		o, err := scanning.NewOllama(cfg.ollamaURL, cfg.ollamaModel)
		if err != nil {
			return nil, fmt.Errorf("initializing ollama: %w", err)
		}
		return o, nil
	}
	return nil, fmt.Errorf("invalid scanner type %q: use tesseract, gemini or ollama", cfg.kind)
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	fs := ff.NewFlagSet("receipt-reader")
	var (
		port           = fs.IntLong("port", 8080, "HTTP server port")
		dbPath         = fs.StringLong("db", "receipts.db", "Database file path")
		storagePath    = fs.StringLong("storage", "./uploads", "Upload directory path")
		scannerType    = fs.StringLong("scanner", "tesseract", "Scanner type: 'tesseract', 'gemini' or 'ollama'")
		tesseractLang  = fs.StringLong("tesseract-lang", "eng", "Tesseract languages joined by '+' (e.g. eng+sqi)")
		geminiKey      = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel    = fs.StringLong("gemini-model", "gemini-2.5-flash", "Google Gemini model name")
		ollamaURL      = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel    = fs.StringLong("ollama-model", "llava", "Ollama vision model name (e.g., llava, qwen2-vl, minicpm-v)")
		datePolicy     = fs.StringLong("date-policy", "first", "Date to keep when several are found: first, last or greatest")
		totalPolicy    = fs.StringLong("total-policy", "last", "Total to keep when several are found: first, last or greatest")
		markerOptional = fs.BoolLong("marker-optional", "Accept item prices without a currency marker")
		authUser       = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass       = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		showVersion    = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("RECEIPT_READER"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	dates, err := parsing.ParseTieBreak(*datePolicy)
	if err != nil {
		slog.Error("Invalid date policy", "error", err)
		os.Exit(1)
	}
	totals, err := parsing.ParseTieBreak(*totalPolicy)
	if err != nil {
		slog.Error("Invalid total policy", "error", err)
		os.Exit(1)
	}
	parser := parsing.New(parsing.Options{
		DatePolicy:     dates,
		TotalPolicy:    totals,
		MarkerOptional: *markerOptional,
	})

	slog.Info("Initializing database...", "path", *dbPath)
	db, err := receipt.NewBoltDB(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	scanner, err := newScanner(scannerConfig{
		kind:          *scannerType,
		tesseractLang: *tesseractLang,
		geminiKey:     *geminiKey,
		geminiModel:   *geminiModel,
		ollamaURL:     *ollamaURL,
		ollamaModel:   *ollamaModel,
	})
	if err != nil {
		slog.Error("Failed to initialize scanner", "error", err)
		db.Close()
		os.Exit(1)
	}
	defer scanner.Close()

	slog.Info("Initializing storage...", "path", *storagePath)
	store, err := receipt.NewLocalStorage(*storagePath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		db.Close()
		os.Exit(1)
	}

	receiptService := receipt.NewService(db, scanner, parser, store)

	basicAuth := receipt.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	}
	server := receipt.NewServer(receiptService, basicAuth)

	addr := fmt.Sprintf(":%d", *port)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start(addr)
	}()

	opts := parser.Options()
	slog.Info("Server started",
		"address", fmt.Sprintf("http://localhost%s", addr),
		"date_policy", opts.DatePolicy,
		"total_policy", opts.TotalPolicy,
		"marker_optional", opts.MarkerOptional,
	)
	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled", "user", *authUser)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		if err != nil {
			slog.Error("Server error", "error", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Error shutting down server", "error", err)
		}
	}
	slog.Info("Stopped")
}
