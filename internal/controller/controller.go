// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package controller holds the view state of one analysis session: which page
// is shown (upload, processing, report), the last error, the progress label
// and the three result slots.
//
// A cycle starts in upload, moves to processing when a document or manual
// form is submitted, and ends in report on success or back in upload on
// failure. Reset returns a report to the initial state. At most one analysis
// is in flight per controller and a running analysis cannot be cancelled.
package controller

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/case-analyzer/internal/analysis"
	"github.com/pdiddy/case-analyzer/internal/caseform"
	"github.com/pdiddy/case-analyzer/internal/docread"
	"github.com/pdiddy/case-analyzer/internal/telemetry"
	"github.com/pdiddy/case-analyzer/pkg/types"
)

// State is the page currently shown.
type State int

const (
	StateUpload State = iota
	StateProcessing
	StateReport
)

func (s State) String() string {
	switch s {
	case StateUpload:
		return "upload"
	case StateProcessing:
		return "processing"
	case StateReport:
		return "report"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Progress labels shown while processing.
const (
	StepUploading  = "جاري رفع المستند..."
	StepExtracting = "جاري استخراج البيانات من المستند..."
	StepSearching  = "جاري البحث عن بيانات القضية عبر الإنترنت..."
	StepComparing  = "جاري تحليل البيانات ومقارنتها..."
	StepDone       = "اكتمل التحليل بنجاح!"
)

// User-facing error texts.
const (
	FailurePrefix          = "حدث خطأ أثناء التحليل: "
	ReadFailureMessage     = "فشل في قراءة الملف."
	UnsupportedTypeMessage = "نوع الملف غير مدعوم. يرجى تحميل ملف نصي أو PDF أو DOCX."
	IncompleteMessage      = "النتيجة غير مكتملة."
)

// WaitingMessages rotate under the progress label.
var WaitingMessages = []string{
	"يرجى الانتظار، قد يستغرق التحليل بعض الوقت...",
	"الذكاء الاصطناعي يعمل من أجلك...",
	"جاري تجميع التقرير...",
}

// waitingPeriod is how long each waiting message is shown.
const waitingPeriod = 3 * time.Second

// ErrBusy is returned when a submission arrives outside the upload state.
var ErrBusy = errors.New("an analysis is already in progress")

// Analyzer runs the two kinds of analysis. *analysis.Analyzer implements it.
type Analyzer interface {
	AnalyzeDocument(ctx context.Context, text string) (*types.AnalysisResult, error)
	AnalyzeManual(ctx context.Context, in analysis.ManualInput) (*types.AnalysisResult, error)
}

// Loader produces the text of an uploaded document.
type Loader func(ctx context.Context) (string, error)

// View is an immutable snapshot of the controller.
type View struct {
	State     State     `json:"state"`
	Error     string    `json:"error,omitempty"`
	Step      string    `json:"step,omitempty"`
	Waiting   string    `json:"waiting,omitempty"`
	StartedAt time.Time `json:"startedAt,omitzero"`

	DocumentData   *types.CaseDetails    `json:"documentData,omitempty"`
	OnlineData     *types.CaseDetails    `json:"onlineData,omitempty"`
	AnalysisReport *types.AnalysisReport `json:"analysisReport,omitempty"`
}

// Controller is the state machine for one session. It is safe for
// concurrent use.
type Controller struct {
	analyzer Analyzer
	logger   *zap.Logger
	now      func() time.Time

	mu      sync.Mutex
	state   State
	err     string
	step    string
	started time.Time
	doc     *types.CaseDetails
	online  *types.CaseDetails
	report  *types.AnalysisReport
}

// New returns a controller in the upload state.
func New(a Analyzer, logger *zap.Logger) *Controller {
	return &Controller{
		analyzer: a,
		logger:   telemetry.OrNop(logger),
		now:      time.Now,
	}
}

// StartDocument moves upload → processing and returns the function that runs
// the analysis to completion. It returns ErrBusy, changing nothing, when the
// controller is not in the upload state.
func (c *Controller) StartDocument(load Loader) (func(context.Context), error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.beginLocked(StepUploading); err != nil {
		return nil, err
	}
	return func(ctx context.Context) { c.runDocument(ctx, load) }, nil
}

// StartManual validates the form, then moves upload → processing and returns
// the function that runs the analysis. An invalid form sets the error message
// and leaves the state unchanged.
func (c *Controller) StartManual(form caseform.ManualForm) (func(context.Context), error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateUpload {
		return nil, ErrBusy
	}
	in, err := form.Input()
	if err != nil {
		c.err = err.Error()
		return nil, err
	}
	if err := c.beginLocked(StepSearching); err != nil {
		return nil, err
	}
	return func(ctx context.Context) { c.runManual(ctx, in) }, nil
}

// SubmitDocument runs a document analysis and blocks until it ends.
func (c *Controller) SubmitDocument(ctx context.Context, load Loader) error {
	run, err := c.StartDocument(load)
	if err != nil {
		return err
	}
	run(ctx)
	return c.cycleError()
}

// SubmitManual runs a manual analysis and blocks until it ends.
func (c *Controller) SubmitManual(ctx context.Context, form caseform.ManualForm) error {
	run, err := c.StartManual(form)
	if err != nil {
		return err
	}
	run(ctx)
	return c.cycleError()
}

// Reject records a message for a submission refused before it started. Only
// the upload state carries it.
func (c *Controller) Reject(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateUpload {
		c.err = msg
	}
}

// Reset returns to the initial state: upload, no error, all slots empty. A
// running analysis is not interrupted, so Reset is ignored while processing.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateProcessing {
		return
	}
	c.resetLocked()
}

// Busy reports whether an analysis is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateProcessing
}

// View returns a snapshot. A report state with any empty slot is
// inconsistent and is reset to upload first.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateReport && (c.doc == nil || c.online == nil || c.report == nil) {
		c.logger.Warn("report state without complete data, resetting")
		c.resetLocked()
	}

	v := View{
		State:          c.state,
		Error:          c.err,
		Step:           c.step,
		DocumentData:   c.doc,
		OnlineData:     c.online,
		AnalysisReport: c.report,
	}
	if c.state == StateProcessing {
		v.StartedAt = c.started
		n := int(c.now().Sub(c.started) / waitingPeriod)
		v.Waiting = WaitingMessages[n%len(WaitingMessages)]
	}
	return v
}

func (c *Controller) beginLocked(step string) error {
	if c.state != StateUpload {
		return ErrBusy
	}
	c.state = StateProcessing
	c.err = ""
	c.step = step
	c.started = c.now()
	c.doc, c.online, c.report = nil, nil, nil
	return nil
}

func (c *Controller) resetLocked() {
	c.state = StateUpload
	c.err = ""
	c.step = ""
	c.started = time.Time{}
	c.doc, c.online, c.report = nil, nil, nil
}

func (c *Controller) setStep(step string) {
	c.mu.Lock()
	c.step = step
	c.mu.Unlock()
}

func (c *Controller) runDocument(ctx context.Context, load Loader) {
	text, err := load(ctx)
	if err != nil {
		c.logger.Warn("reading upload failed", zap.Error(err))
		if errors.Is(err, docread.ErrUnsupportedType) {
			c.fail(UnsupportedTypeMessage)
		} else {
			c.fail(ReadFailureMessage)
		}
		return
	}

	c.setStep(StepExtracting)
	result, err := c.analyzer.AnalyzeDocument(ctx, text)
	c.finish(result, err)
}

func (c *Controller) runManual(ctx context.Context, in analysis.ManualInput) {
	result, err := c.analyzer.AnalyzeManual(ctx, in)
	c.finish(result, err)
}

// finish applies the outcome of one analysis request.
func (c *Controller) finish(result *types.AnalysisResult, err error) {
	if err != nil {
		c.fail(FailurePrefix + err.Error())
		return
	}
	if !result.Complete() {
		c.fail(FailurePrefix + IncompleteMessage)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.step = StepComparing
	c.doc = result.DocumentData
	c.online = result.OnlineData
	c.report = result.AnalysisReport
	c.step = StepDone
	c.state = StateReport
}

func (c *Controller) fail(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateUpload
	c.err = msg
	c.step = ""
	c.started = time.Time{}
	c.doc, c.online, c.report = nil, nil, nil
}

// cycleError reports the error of a cycle that just ended.
func (c *Controller) cycleError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateUpload && c.err != "" {
		return errors.New(c.err)
	}
	return nil
}
