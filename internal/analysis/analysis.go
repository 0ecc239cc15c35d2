// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analysis turns a case document or a manually entered case number
// into a three-part analysis by asking a generative model for JSON that
// matches a fixed schema.
//
// Every failure, whether the provider call failed or the reply did not fit the
// schema, collapses into one generic error per entry point. The cause is
// logged. Nothing is retried and no partial result is returned.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/pdiddy/case-analyzer/internal/telemetry"
	"github.com/pdiddy/case-analyzer/pkg/types"
)

// Kinds of analysis, used as metric labels.
const (
	KindDocument = "document"
	KindManual   = "manual"
)

var (
	// ErrDocumentAnalysis is returned for any failure analyzing an uploaded document.
	ErrDocumentAnalysis = errors.New("فشل تحليل المستند. يرجى المحاولة مرة أخرى.")

	// ErrManualAnalysis is returned for any failure analyzing manual input.
	ErrManualAnalysis = errors.New("فشل إنشاء التقرير من البيانات اليدوية. يرجى المحاولة مرة أخرى.")
)

var tracer = otel.Tracer("github.com/pdiddy/case-analyzer/internal/analysis")

// ManualInput is the case identification typed into the manual form.
type ManualInput struct {
	NumeroDossier string
	Tribunal      string

	// IncludePrimary extends the simulated online search to the first-instance
	// courts under the appellate court.
	IncludePrimary bool
}

// Analyzer runs analysis requests against a Provider.
type Analyzer struct {
	Provider Provider
	Logger   *zap.Logger
	Metrics  *telemetry.Metrics
}

// AnalyzeDocument analyzes the text of an uploaded document.
func (a *Analyzer) AnalyzeDocument(ctx context.Context, text string) (*types.AnalysisResult, error) {
	prompt, err := renderTemplate(documentPromptTmpl, documentPromptData{
		Text:   text,
		Online: types.SourceOnline.String(),
	})
	if err != nil {
		return nil, a.collapse(KindDocument, fmt.Errorf("rendering prompt: %w", err), 0)
	}
	return a.run(ctx, KindDocument, prompt, nil)
}

// AnalyzeManual analyzes a manually entered case number and court. The entered
// values are authoritative for the document side of the result.
func (a *Analyzer) AnalyzeManual(ctx context.Context, in ManualInput) (*types.AnalysisResult, error) {
	prompt, err := renderTemplate(manualPromptTmpl, manualPromptData{
		ManualInput: in,
		Document:    types.SourceDocument.String(),
		Online:      types.SourceOnline.String(),
	})
	if err != nil {
		return nil, a.collapse(KindManual, fmt.Errorf("rendering prompt: %w", err), 0)
	}
	return a.run(ctx, KindManual, prompt, func(r *types.AnalysisResult) {
		r.DocumentData.NumeroDossier = in.NumeroDossier
		r.DocumentData.Tribunal = in.Tribunal
	})
}

func (a *Analyzer) run(ctx context.Context, kind, prompt string, fix func(*types.AnalysisResult)) (*types.AnalysisResult, error) {
	ctx, span := tracer.Start(ctx, "analysis."+kind,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.Int("prompt.bytes", len(prompt))))
	defer span.End()

	start := time.Now()
	raw, err := a.Provider.Request(ctx, prompt, ResultSchema())
	elapsed := time.Since(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "provider request failed")
		return nil, a.collapse(kind, fmt.Errorf("requesting analysis: %w", err), elapsed)
	}

	result, err := DecodeResult(raw)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reply does not match schema")
		return nil, a.collapse(kind, err, elapsed)
	}
	if fix != nil {
		fix(result)
	}

	a.Metrics.ObserveAnalysis(kind, telemetry.OutcomeSuccess, elapsed)
	telemetry.OrNop(a.Logger).Info("analysis complete",
		zap.String("kind", kind),
		zap.Duration("elapsed", elapsed),
		zap.Int("timeline_events", len(result.AnalysisReport.Timeline)))
	return result, nil
}

// collapse logs the cause and returns the generic error for kind.
func (a *Analyzer) collapse(kind string, cause error, elapsed time.Duration) error {
	a.Metrics.ObserveAnalysis(kind, telemetry.OutcomeFailure, elapsed)
	telemetry.OrNop(a.Logger).Error("analysis failed", zap.String("kind", kind), zap.Error(cause))
	if kind == KindManual {
		return ErrManualAnalysis
	}
	return ErrDocumentAnalysis
}

// DecodeResult parses a model reply. The reply must be a JSON object with all
// three parts present; timeline sources must be one of the two known tags.
// A surrounding Markdown code fence is tolerated.
func DecodeResult(raw string) (*types.AnalysisResult, error) {
	text := stripCodeFence(raw)
	if text == "" {
		return nil, errors.New("empty reply")
	}

	var result types.AnalysisResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, fmt.Errorf("parsing reply JSON: %w", err)
	}

	switch {
	case result.DocumentData == nil:
		return nil, errors.New("reply has no documentData")
	case result.OnlineData == nil:
		return nil, errors.New("reply has no onlineData")
	case result.AnalysisReport == nil:
		return nil, errors.New("reply has no analysisReport")
	}

	for i, ev := range result.AnalysisReport.Timeline {
		if ev.Source == 0 {
			return nil, fmt.Errorf("timeline event %d has no source", i)
		}
	}

	normalize(result.AnalysisReport)
	return &result, nil
}

// normalize replaces nil lists with empty ones so views never see nil.
func normalize(r *types.AnalysisReport) {
	if r.Incoherences == nil {
		r.Incoherences = []string{}
	}
	if r.PointsCles == nil {
		r.PointsCles = []string{}
	}
	if r.ProchainesEtapes == nil {
		r.ProchainesEtapes = []string{}
	}
	if r.Timeline == nil {
		r.Timeline = []types.TimelineEvent{}
	}
}

// stripCodeFence removes a ```json ... ``` wrapper some models add.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
