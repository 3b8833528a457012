package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/sitecorpus"
)

// Ensure LoggingExtractor implements sitecorpus.TextExtractor.
var _ sitecorpus.TextExtractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps a TextExtractor with debug logging.
type LoggingExtractor struct {
	next   sitecorpus.TextExtractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next sitecorpus.TextExtractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// ExtractText delegates to the wrapped extractor and logs input and output sizes.
func (e *LoggingExtractor) ExtractText(req *sitecorpus.ExtractRequest) (text string, ok bool, err error) {
	defer func(begin time.Time) {
		e.logger.Info("extract",
			"html_bytes", len(req.HTML),
			"text_bytes", len(text),
			"found", ok,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.ExtractText(req)
}
