package extractor

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/mcncl/jsonify/internal/config"
	"github.com/mcncl/jsonify/internal/errors"
	"github.com/mcncl/jsonify/internal/models"
	"github.com/mcncl/jsonify/internal/parser"
	"github.com/mcncl/jsonify/internal/progress"
	"github.com/mcncl/jsonify/internal/repair"
)

// Span is the half-open byte range [Start, End) of one balanced object in a segment.
type Span struct {
	Start int
	End   int
}

// Scan finds every balanced object opened by marker in segment, left to right.
//
// The marker's own '{' sets the depth to 1; every later '{' or '}' moves it,
// whether or not it sits inside a string literal. A span ends at the brace
// that brings the depth back to zero and scanning resumes right after it.
// If the segment runs out first, the pending match is discarded, truncated
// is true and nothing after it is scanned.
func Scan(segment, marker string) (spans []Span, truncated bool) {
	pos := 0
	for {
		idx := strings.Index(segment[pos:], marker)
		if idx < 0 {
			return spans, false
		}
		start := pos + idx
		depth := 1
		end := -1
		for i := start + len(marker); i < len(segment); i++ {
			switch segment[i] {
			case '{':
				depth++
			case '}':
				depth--
			}
			if depth == 0 {
				end = i + 1
				break
			}
		}
		if end < 0 {
			return spans, true
		}
		spans = append(spans, Span{Start: start, End: end})
		pos = end
	}
}

// Extractor pulls marker-prefixed events out of text segments
type Extractor struct {
	marker        string
	delimiter     string
	substitutions []config.Substitution
	repairer      repair.Repairer
	pipeline      repair.Repairer
	policy        config.Policy
	reporter      progress.Reporter
	logger        *slog.Logger
}

// Option customizes an Extractor
type Option func(*Extractor)

// WithRepairer replaces the repair pass. A nil repairer disables it.
func WithRepairer(r repair.Repairer) Option {
	return func(e *Extractor) {
		if r == nil {
			r = repair.Nop
		}
		e.repairer = r
	}
}

// WithReporter sets the progress reporter
func WithReporter(r progress.Reporter) Option {
	return func(e *Extractor) { e.reporter = r }
}

// WithLogger sets the debug logger
func WithLogger(l *slog.Logger) Option {
	return func(e *Extractor) { e.logger = l }
}

// NewExtractor creates an Extractor with the default configuration
func NewExtractor(opts ...Option) *Extractor {
	return NewExtractorWithConfig(config.NewConfig(), opts...)
}

// NewExtractorWithConfig creates an Extractor from cfg. Repair uses the
// JSON repairer when cfg.Repair.Enabled; options are applied afterwards.
func NewExtractorWithConfig(cfg *config.Config, opts ...Option) *Extractor {
	e := &Extractor{
		marker:        cfg.Marker,
		delimiter:     cfg.SegmentDelimiter,
		substitutions: cfg.Substitutions,
		policy:        cfg.Repair.OnError,
		reporter:      progress.Nop{},
		repairer:      repair.Nop,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if cfg.Repair.Enabled {
		e.repairer = repair.NewJSONRepairer()
	}
	for _, opt := range opts {
		opt(e)
	}
	// substitutions always run ahead of the repair pass
	e.pipeline = repair.Chain(repair.Func(func(raw string) (string, error) {
		return e.substitute(raw), nil
	}), e.repairer)
	if e.policy == "" {
		e.policy = config.PolicySkip
	}
	return e
}

// ExtractString splits text into segments and extracts from them
func (e *Extractor) ExtractString(text string) (models.Result, error) {
	return e.Extract(parser.ParseString(text, e.delimiter))
}

// Extract scans segments in order and returns every event found, in
// encounter order. The only error is an unrepairable event under the
// abort policy.
func (e *Extractor) Extract(segments []string) (models.Result, error) {
	result := models.Result{
		Events:   make([]models.Event, 0),
		Segments: len(segments),
	}

	e.reporter.Start(len(segments))
	defer e.reporter.Finish()

	for i, segment := range segments {
		e.reporter.Update(i)

		spans, truncated := Scan(segment, e.marker)
		if truncated {
			result.Dropped++
			e.logger.Debug("dropped unbalanced event", "segment", i, "error", errors.ErrUnbalanced)
		}

		for _, span := range spans {
			raw := segment[span.Start:span.End]
			text, err := e.pipeline.Repair(raw)
			if err == nil {
				result.Events = append(result.Events, models.Event{Segment: i, Offset: span.Start, Raw: raw, Text: text})
				continue
			}

			e.logger.Debug("repair failed", "segment", i, "offset", span.Start, "policy", e.policy, "error", err)
			switch e.policy {
			case config.PolicyAbort:
				return models.Result{}, errors.NewExtractError(
					fmt.Sprintf("event at segment %d, offset %d could not be repaired", i, span.Start),
					err,
				)
			case config.PolicyPassthrough:
				result.Events = append(result.Events, models.Event{Segment: i, Offset: span.Start, Raw: raw, Text: e.substitute(raw)})
			}
			result.Defects = append(result.Defects, models.Defect{Segment: i, Offset: span.Start, Raw: raw, Err: err})
		}
	}
	e.reporter.Update(len(segments))

	return result, nil
}

func (e *Extractor) substitute(raw string) string {
	for _, sub := range e.substitutions {
		raw = strings.ReplaceAll(raw, sub.From, sub.To)
	}
	return raw
}
