// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package controller

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/pdiddy/case-analyzer/internal/analysis"
	"github.com/pdiddy/case-analyzer/internal/caseform"
	"github.com/pdiddy/case-analyzer/internal/docread"
	"github.com/pdiddy/case-analyzer/pkg/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func sampleResult() *types.AnalysisResult {
	return &types.AnalysisResult{
		DocumentData: &types.CaseDetails{NumeroDossier: "741/2102/2025", Tribunal: types.CourtCasablanca.String()},
		OnlineData:   &types.CaseDetails{NumeroDossier: "741/2102/2025", Tribunal: types.CourtCasablanca.String()},
		AnalysisReport: &types.AnalysisReport{
			Resume:       "ملخص",
			Incoherences: []string{"اختلاف في حالة الملف"},
		},
	}
}

// fakeAnalyzer returns a fixed outcome. When gate is set it blocks until the
// gate is closed.
type fakeAnalyzer struct {
	result  *types.AnalysisResult
	err     error
	gate    chan struct{}
	entered chan struct{}

	docText string
	manual  analysis.ManualInput
	calls   int
}

func (f *fakeAnalyzer) wait() {
	if f.entered != nil {
		close(f.entered)
	}
	if f.gate != nil {
		<-f.gate
	}
}

func (f *fakeAnalyzer) AnalyzeDocument(_ context.Context, text string) (*types.AnalysisResult, error) {
	f.calls++
	f.docText = text
	f.wait()
	return f.result, f.err
}

func (f *fakeAnalyzer) AnalyzeManual(_ context.Context, in analysis.ManualInput) (*types.AnalysisResult, error) {
	f.calls++
	f.manual = in
	f.wait()
	return f.result, f.err
}

func textLoader(s string) Loader {
	return func(context.Context) (string, error) { return s, nil }
}

func TestInitialView(t *testing.T) {
	c := New(&fakeAnalyzer{}, nil)
	v := c.View()
	assert.Equal(t, StateUpload, v.State)
	assert.Empty(t, v.Error)
	assert.Empty(t, v.Step)
	assert.Nil(t, v.DocumentData)
	assert.Nil(t, v.OnlineData)
	assert.Nil(t, v.AnalysisReport)
	assert.False(t, c.Busy())
}

func TestSubmitDocumentSuccess(t *testing.T) {
	fa := &fakeAnalyzer{result: sampleResult()}
	c := New(fa, nil)

	require.NoError(t, c.SubmitDocument(context.Background(), textLoader("نص القضية")))

	v := c.View()
	assert.Equal(t, StateReport, v.State)
	assert.Empty(t, v.Error)
	assert.Equal(t, StepDone, v.Step)
	assert.Equal(t, "نص القضية", fa.docText)
	assert.Equal(t, "741/2102/2025", v.DocumentData.NumeroDossier)
	assert.Equal(t, "ملخص", v.AnalysisReport.Resume)
}

func TestSubmitDocumentFailures(t *testing.T) {
	tests := []struct {
		name    string
		load    Loader
		result  *types.AnalysisResult
		err     error
		wantMsg string
		calls   int
	}{
		{
			name:    "read failure",
			load:    func(context.Context) (string, error) { return "", errors.New("disk gone") },
			wantMsg: ReadFailureMessage,
		},
		{
			name:    "unsupported type",
			load:    func(context.Context) (string, error) { return "", fmt.Errorf("a.png: %w", docread.ErrUnsupportedType) },
			wantMsg: UnsupportedTypeMessage,
		},
		{
			name:    "analysis error",
			load:    textLoader("نص"),
			err:     analysis.ErrDocumentAnalysis,
			wantMsg: FailurePrefix + analysis.ErrDocumentAnalysis.Error(),
			calls:   1,
		},
		{
			name:    "incomplete result",
			load:    textLoader("نص"),
			result:  &types.AnalysisResult{DocumentData: &types.CaseDetails{}},
			wantMsg: FailurePrefix + IncompleteMessage,
			calls:   1,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fa := &fakeAnalyzer{result: tc.result, err: tc.err}
			c := New(fa, nil)

			err := c.SubmitDocument(context.Background(), tc.load)
			require.Error(t, err)
			assert.Equal(t, tc.wantMsg, err.Error())
			assert.Equal(t, tc.calls, fa.calls)

			v := c.View()
			assert.Equal(t, StateUpload, v.State)
			assert.Equal(t, tc.wantMsg, v.Error)
			assert.Nil(t, v.DocumentData)
			assert.Nil(t, v.OnlineData)
			assert.Nil(t, v.AnalysisReport)
		})
	}
}

func TestSubmitManualSuccess(t *testing.T) {
	fa := &fakeAnalyzer{result: sampleResult()}
	c := New(fa, nil)

	form := caseform.Default()
	form.IncludePrimary = true
	require.NoError(t, c.SubmitManual(context.Background(), form))

	assert.Equal(t, analysis.ManualInput{
		NumeroDossier:  "741/2102/2025",
		Tribunal:       types.CourtCasablanca.String(),
		IncludePrimary: true,
	}, fa.manual)
	assert.Equal(t, StateReport, c.View().State)
}

func TestSubmitManualValidation(t *testing.T) {
	fa := &fakeAnalyzer{result: sampleResult()}
	c := New(fa, nil)

	form := caseform.Default()
	form.Part2 = ""
	err := c.SubmitManual(context.Background(), form)

	var ve *caseform.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, 0, fa.calls)

	v := c.View()
	assert.Equal(t, StateUpload, v.State)
	assert.Equal(t, caseform.MissingFieldsMessage, v.Error)
}

func TestSubmitManualFailure(t *testing.T) {
	fa := &fakeAnalyzer{err: analysis.ErrManualAnalysis}
	c := New(fa, nil)

	err := c.SubmitManual(context.Background(), caseform.Default())
	require.Error(t, err)

	v := c.View()
	assert.Equal(t, StateUpload, v.State)
	assert.Equal(t, FailurePrefix+analysis.ErrManualAnalysis.Error(), v.Error)
}

func TestProcessingStateAndBusy(t *testing.T) {
	fa := &fakeAnalyzer{
		result:  sampleResult(),
		gate:    make(chan struct{}),
		entered: make(chan struct{}),
	}
	c := New(fa, nil)
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	now := start
	c.now = func() time.Time { return now }

	run, err := c.StartManual(caseform.Default())
	require.NoError(t, err)

	v := c.View()
	assert.Equal(t, StateProcessing, v.State)
	assert.Equal(t, StepSearching, v.Step)
	assert.Equal(t, WaitingMessages[0], v.Waiting)
	assert.Equal(t, start, v.StartedAt)

	done := make(chan struct{})
	go func() {
		defer close(done)
		run(context.Background())
	}()
	<-fa.entered

	assert.True(t, c.Busy())
	_, err = c.StartDocument(textLoader("نص"))
	assert.ErrorIs(t, err, ErrBusy)
	_, err = c.StartManual(caseform.Default())
	assert.ErrorIs(t, err, ErrBusy)

	// Reset does not interrupt a running analysis.
	c.Reset()
	assert.Equal(t, StateProcessing, c.View().State)

	close(fa.gate)
	<-done

	assert.Equal(t, StateReport, c.View().State)
	assert.Equal(t, 1, fa.calls)
}

func TestWaitingMessagesRotate(t *testing.T) {
	fa := &fakeAnalyzer{result: sampleResult()}
	c := New(fa, nil)
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	now := start
	c.now = func() time.Time { return now }

	run, err := c.StartDocument(textLoader("نص"))
	require.NoError(t, err)

	tests := []struct {
		after time.Duration
		want  string
	}{
		{0, WaitingMessages[0]},
		{2999 * time.Millisecond, WaitingMessages[0]},
		{3 * time.Second, WaitingMessages[1]},
		{7 * time.Second, WaitingMessages[2]},
		{9 * time.Second, WaitingMessages[0]},
	}
	for _, tc := range tests {
		now = start.Add(tc.after)
		assert.Equal(t, tc.want, c.View().Waiting, "after %s", tc.after)
	}

	run(context.Background())
	assert.Empty(t, c.View().Waiting)
}

func TestResetFromReport(t *testing.T) {
	c := New(&fakeAnalyzer{result: sampleResult()}, nil)
	require.NoError(t, c.SubmitDocument(context.Background(), textLoader("نص")))
	require.Equal(t, StateReport, c.View().State)

	c.Reset()
	v := c.View()
	assert.Equal(t, StateUpload, v.State)
	assert.Empty(t, v.Error)
	assert.Nil(t, v.DocumentData)
	assert.Nil(t, v.AnalysisReport)

	// A new cycle can start after reset.
	require.NoError(t, c.SubmitDocument(context.Background(), textLoader("نص")))
	assert.Equal(t, StateReport, c.View().State)
}

func TestNewSubmissionClearsError(t *testing.T) {
	fa := &fakeAnalyzer{err: analysis.ErrDocumentAnalysis}
	c := New(fa, nil)
	require.Error(t, c.SubmitDocument(context.Background(), textLoader("نص")))
	require.NotEmpty(t, c.View().Error)

	fa.err = nil
	fa.result = sampleResult()
	run, err := c.StartDocument(textLoader("نص"))
	require.NoError(t, err)
	assert.Empty(t, c.View().Error)
	run(context.Background())
}

func TestReportGuard(t *testing.T) {
	c := New(&fakeAnalyzer{}, nil)
	c.mu.Lock()
	c.state = StateReport
	c.doc = &types.CaseDetails{}
	c.mu.Unlock()

	v := c.View()
	assert.Equal(t, StateUpload, v.State)
	assert.Nil(t, v.DocumentData)
}

func TestReject(t *testing.T) {
	c := New(&fakeAnalyzer{}, nil)
	c.Reject("حاول لاحقا")
	assert.Equal(t, "حاول لاحقا", c.View().Error)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "upload", StateUpload.String())
	assert.Equal(t, "processing", StateProcessing.String())
	assert.Equal(t, "report", StateReport.String())
	assert.Equal(t, "unknown", State(9).String())
}
