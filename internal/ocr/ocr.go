package ocr

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

type Config struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	DPI           int    // rasterization DPI for scanned PDFs, default 300
	MaxPages      int    // 0 = no limit

	TessdataDir         string
	EnableTSVConfidence bool

	PSM int // e.g., 6 is good for uniform block of text
	OEM int // 1 = LSTM; leave 0 to use default

	TempDir string // scratch dir for per-call temp files; "" = os default
}

type Result struct {
	Text       string
	Pages      int
	Warnings   []string
	Confidence float32
}

// Engine runs tesseract (and pdftoppm for scanned PDFs) over in-memory
// uploads. Every call writes its input to a scoped temp file that is removed
// on all exit paths.
type Engine struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewEngine(cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Engine{cfg: cfg, runner: execRunner{}, logger: logger}
}

// NewEngineWithRunner is for tests that stub out the external binaries.
func NewEngineWithRunner(cfg Config, r Runner, logger *slog.Logger) *Engine {
	e := NewEngine(cfg, logger)
	e.runner = r
	return e
}

// writeTemp materializes data as <tmpdir>/input.<ext> and returns the path
// plus a cleanup func. The whole directory goes away with cleanup.
func (e *Engine) writeTemp(data []byte, ext string) (string, func(), error) {
	tmpDir, err := os.MkdirTemp(e.cfg.TempDir, "gr-ocr-*")
	if err != nil {
		return "", nil, fmt.Errorf("create temp dir: %w", err)
	}
	cleanup := func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			e.logger.Warn("ocr.temp_cleanup_failed", "dir", tmpDir, "error", err)
		}
	}
	path := filepath.Join(tmpDir, "input."+ext)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("write temp file: %w", err)
	}
	return path, cleanup, nil
}
