package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Shemantipal/Green-Receipt/internal/common"
	"github.com/Shemantipal/Green-Receipt/internal/entity"
	"github.com/Shemantipal/Green-Receipt/internal/estimator"
	"github.com/Shemantipal/Green-Receipt/internal/extract"
	"github.com/Shemantipal/Green-Receipt/internal/impact"
	"github.com/Shemantipal/Green-Receipt/internal/ocr"
	"github.com/Shemantipal/Green-Receipt/internal/pipeline"
)

// One-shot analysis of a single receipt file, printing the scorecard JSON to
// stdout. Useful for trying prompts and thresholds without the HTTP server.
func main() {
	var (
		path    = flag.String("file", "", "path to a receipt (pdf, jpg, jpeg, png, webp)")
		timeout = flag.Duration("timeout", 2*time.Minute, "overall deadline")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	if *path == "" {
		logger.Error("usage", "cmd", "receipt-analyze -file <receipt>")
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	data, err := os.ReadFile(*path)
	if err != nil {
		logger.Error("read file", "path", *path, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	mode, err := pipeline.ParseMode(cfg.Estimator.Mode)
	if err != nil {
		logger.Error("invalid pipeline mode", "error", err)
		os.Exit(1)
	}

	est, closer, err := estimator.New(ctx, cfg.Estimator, logger)
	if err != nil {
		logger.Error("create estimator", "error", err)
		os.Exit(1)
	}
	if closer != nil {
		defer func() {
			if cerr := closer.Close(); cerr != nil {
				logger.Error("close estimator", "error", cerr)
			}
		}()
	}

	engine := ocr.NewEngine(ocr.Config{
		Pdftoppm:      cfg.OCR.Pdftoppm,
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.TesseractLang,
		TessdataDir:   cfg.OCR.TessdataDir,
		DPI:           cfg.OCR.DPI,
		MaxPages:      cfg.OCR.MaxPages,
	}, logger)
	extractor := extract.NewExtractor(extract.PDFTextReader{}, engine, logger)

	p := pipeline.New(mode, extractor, est, impact.NewNormalizer(logger), logger)

	doc := entity.UploadedDocument{
		Data:     data,
		MIMEType: "",
		Filename: filepath.Base(*path),
	}

	result, err := p.Analyze(ctx, doc)
	if err != nil {
		logger.Error("analysis failed", "kind", common.FailureKind(err), "error", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		logger.Error("encode result", "error", err)
		os.Exit(1)
	}
}
