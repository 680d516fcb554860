package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Shemantipal/Green-Receipt/internal/common"
	"github.com/Shemantipal/Green-Receipt/internal/estimator"
	"github.com/Shemantipal/Green-Receipt/internal/export"
	"github.com/Shemantipal/Green-Receipt/internal/extract"
	"github.com/Shemantipal/Green-Receipt/internal/history"
	"github.com/Shemantipal/Green-Receipt/internal/impact"
	"github.com/Shemantipal/Green-Receipt/internal/ocr"
	"github.com/Shemantipal/Green-Receipt/internal/pipeline"
	"github.com/Shemantipal/Green-Receipt/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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
		Pdftoppm:            cfg.OCR.Pdftoppm,
		Tesseract:           cfg.OCR.Tesseract,
		TesseractLang:       cfg.OCR.TesseractLang,
		TessdataDir:         cfg.OCR.TessdataDir,
		DPI:                 cfg.OCR.DPI,
		MaxPages:            cfg.OCR.MaxPages,
		TempDir:             cfg.OCR.TempDir,
		EnableTSVConfidence: true,
	}, logger)
	extractor := extract.NewExtractor(extract.PDFTextReader{}, engine, logger)

	var store *history.Store
	if cfg.History.Enabled {
		store, err = history.Open(cfg.History.DBPath, logger)
		if err != nil {
			logger.Error("open history store", "error", err)
			os.Exit(1)
		}
		defer func() {
			if cerr := store.Close(); cerr != nil {
				logger.Error("close history store", "error", cerr)
			}
		}()
	}

	p := pipeline.New(mode, extractor, est, impact.NewNormalizer(logger), logger)
	srv := server.New(p, store, export.NewService(logger), cfg.Server, logger)

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Handler(),
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.Addr, "mode", string(mode), "provider", cfg.Estimator.Provider)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}
