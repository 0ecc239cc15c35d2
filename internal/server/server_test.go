// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/case-analyzer/internal/analysis"
	"github.com/pdiddy/case-analyzer/internal/caseform"
	"github.com/pdiddy/case-analyzer/internal/controller"
	"github.com/pdiddy/case-analyzer/internal/telemetry"
	"github.com/pdiddy/case-analyzer/pkg/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const reply = `{
  "documentData": {"numeroDossier": "741/2102/2025", "tribunal": "محكمة الاستئناف بالدار البيضاء", "typeAffaire": "تجاري", "etatDossier": "في طور المداولة"},
  "onlineData": {"numeroDossier": "741/2102/2025", "tribunal": "محكمة الاستئناف بالدار البيضاء", "typeAffaire": "تجاري", "etatDossier": "محكوم"},
  "analysisReport": {
    "resume": "نزاع تجاري حول فاتورة غير مؤداة.",
    "incoherences": ["حالة القضية تختلف بين المصدرين."],
    "pointsCles": ["المبلغ المطالب به"],
    "prochainesEtapes": ["مراجعة كتابة الضبط", "تحضير المذكرة"],
    "timeline": [
      {"date": "2025-05-02", "description": "جلسة المداولة", "source": "عبر الإنترنت"},
      {"date": "2025-03-12", "description": "تسجيل الاستئناف", "source": "المستند"}
    ]
  }
}`

// fakeProvider answers every request with reply or err and counts calls.
type fakeProvider struct {
	reply  string
	err    error
	gate   chan struct{}
	calls  atomic.Int32
	prompt atomic.Value
}

func (p *fakeProvider) Request(_ context.Context, prompt string, _ *analysis.Schema) (string, error) {
	p.calls.Add(1)
	p.prompt.Store(prompt)
	if p.gate != nil {
		<-p.gate
	}
	return p.reply, p.err
}

type harness struct {
	t        *testing.T
	srv      *Server
	ts       *httptest.Server
	client   *http.Client
	provider *fakeProvider
	metrics  *telemetry.Metrics
}

func newHarness(t *testing.T, cfg types.ServerConfig, p *fakeProvider) *harness {
	t.Helper()
	m := telemetry.NewMetrics()
	srv, err := New(Options{
		Config:   cfg,
		Analyzer: &analysis.Analyzer{Provider: p, Metrics: m},
		Metrics:  m,
	})
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.Wait()
		ts.Close()
	})

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &harness{t: t, srv: srv, ts: ts, client: &http.Client{Jar: jar}, provider: p, metrics: m}
}

func (h *harness) get(path string) string {
	h.t.Helper()
	resp, err := h.client.Get(h.ts.URL + path)
	require.NoError(h.t, err)
	defer resp.Body.Close()
	require.Equal(h.t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(h.t, err)
	return string(body)
}

func (h *harness) state() controller.View {
	h.t.Helper()
	var v struct {
		State string `json:"state"`
		Error string `json:"error"`
		Step  string `json:"step"`
	}
	require.NoError(h.t, json.Unmarshal([]byte(h.get("/api/state")), &v))
	out := controller.View{Error: v.Error, Step: v.Step}
	switch v.State {
	case "processing":
		out.State = controller.StateProcessing
	case "report":
		out.State = controller.StateReport
	}
	return out
}

func (h *harness) postForm(path string, form url.Values) {
	h.t.Helper()
	resp, err := h.client.PostForm(h.ts.URL+path, form)
	require.NoError(h.t, err)
	resp.Body.Close()
}

func (h *harness) upload(name string, content []byte) {
	h.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(h.t, err)
	_, err = fw.Write(content)
	require.NoError(h.t, err)
	require.NoError(h.t, mw.Close())

	resp, err := h.client.Post(h.ts.URL+"/upload", mw.FormDataContentType(), &buf)
	require.NoError(h.t, err)
	resp.Body.Close()
}

func manualValues(part2 string) url.Values {
	return url.Values{
		"part1": {"741"},
		"part2": {part2},
		"part3": {"2025"},
		"court": {types.CourtCasablanca.Slug()},
	}
}

func TestHealthz(t *testing.T) {
	h := newHarness(t, types.ServerConfig{}, &fakeProvider{reply: reply})
	assert.Contains(t, h.get("/healthz"), `"status":"ok"`)
}

func TestIndexShowsUploadPage(t *testing.T) {
	h := newHarness(t, types.ServerConfig{}, &fakeProvider{reply: reply})

	body := h.get("/")
	assert.Contains(t, body, `action="/upload"`)
	assert.Contains(t, body, `dir="rtl"`)

	body = h.get("/?tab=manual")
	assert.Contains(t, body, `action="/manual"`)
	assert.Contains(t, body, `value="741"`)
	assert.Contains(t, body, `value="2102"`)
	assert.Contains(t, body, `value="casablanca" selected`)

	u, _ := url.Parse(h.ts.URL)
	assert.NotEmpty(t, h.client.Jar.Cookies(u), "session cookie must be set")
	assert.Equal(t, 1, h.srv.Sessions().Len())
}

func TestManualAnalysisReachesReport(t *testing.T) {
	p := &fakeProvider{reply: reply}
	h := newHarness(t, types.ServerConfig{}, p)

	form := manualValues("2102")
	form.Set("include_primary", "true")
	h.postForm("/manual", form)
	h.srv.Wait()

	assert.Equal(t, controller.StateReport, h.state().State)
	body := h.get("/")
	assert.Contains(t, body, "741/2102/2025")
	assert.Contains(t, body, "نزاع تجاري حول فاتورة غير مؤداة.")
	assert.Contains(t, body, `class="differs" data-field="etatDossier"`)
	assert.Contains(t, body, "badge-online")
	assert.Contains(t, body, "12 مارس 2025")
	assert.Less(t, strings.Index(body, "تسجيل الاستئناف"), strings.Index(body, "جلسة المداولة"))
	assert.Contains(t, body, `action="/reset"`)

	assert.EqualValues(t, 1, p.calls.Load())
	prompt, _ := p.prompt.Load().(string)
	assert.Contains(t, prompt, "741/2102/2025")
	assert.Contains(t, prompt, "المحاكم الابتدائية")

	h.postForm("/reset", nil)
	assert.Equal(t, controller.StateUpload, h.state().State)
	assert.NotContains(t, h.get("/"), "741/2102/2025</td>")
}

func TestManualValidationBlocksSubmission(t *testing.T) {
	p := &fakeProvider{reply: reply}
	h := newHarness(t, types.ServerConfig{}, p)

	h.postForm("/manual", manualValues(""))
	h.srv.Wait()

	v := h.state()
	assert.Equal(t, controller.StateUpload, v.State)
	assert.Equal(t, caseform.MissingFieldsMessage, v.Error)
	assert.Zero(t, p.calls.Load())

	// The entered values are kept on the manual tab.
	body := h.get("/?tab=manual")
	assert.Contains(t, body, `name="part2" inputmode="numeric" value=""`)
	assert.Contains(t, body, caseform.MissingFieldsMessage)
}

func TestUploadAnalysis(t *testing.T) {
	p := &fakeProvider{reply: reply}
	h := newHarness(t, types.ServerConfig{}, p)

	h.upload("case.txt", []byte("حكم في الملف عدد 741/2102/2025"))
	h.srv.Wait()

	assert.Equal(t, controller.StateReport, h.state().State)
	prompt, _ := p.prompt.Load().(string)
	assert.Contains(t, prompt, "حكم في الملف عدد 741/2102/2025")
}

func TestUploadFailures(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content []byte
		err     error
		want    string
	}{
		{
			name:    "provider rejects",
			file:    "case.txt",
			content: []byte("نص"),
			err:     errors.New("quota exceeded"),
			want:    controller.FailurePrefix + analysis.ErrDocumentAnalysis.Error(),
		},
		{
			name:    "unsupported type",
			file:    "photo.png",
			content: []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"),
			want:    controller.UnsupportedTypeMessage,
		},
		{
			name:    "empty file",
			file:    "empty.txt",
			content: nil,
			want:    controller.ReadFailureMessage,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, types.ServerConfig{}, &fakeProvider{reply: reply, err: tc.err})
			h.upload(tc.file, tc.content)
			h.srv.Wait()

			v := h.state()
			assert.Equal(t, controller.StateUpload, v.State)
			assert.Equal(t, tc.want, v.Error)
			assert.Contains(t, h.get("/"), tc.want)
		})
	}
}

func TestUploadWithoutFile(t *testing.T) {
	h := newHarness(t, types.ServerConfig{}, &fakeProvider{reply: reply})
	h.postForm("/upload", url.Values{})
	assert.Equal(t, NoFileMessage, h.state().Error)
}

func TestSecondSubmissionWhileProcessing(t *testing.T) {
	p := &fakeProvider{reply: reply, gate: make(chan struct{})}
	h := newHarness(t, types.ServerConfig{}, p)

	h.postForm("/manual", manualValues("2102"))
	require.Eventually(t, func() bool { return p.calls.Load() == 1 }, 2*time.Second, 5*time.Millisecond)

	v := h.state()
	assert.Equal(t, controller.StateProcessing, v.State)
	assert.Equal(t, controller.StepSearching, v.Step)
	body := h.get("/")
	assert.Contains(t, body, `http-equiv="refresh"`)
	assert.Contains(t, body, controller.StepSearching)

	h.upload("case.txt", []byte("نص"))
	h.postForm("/reset", nil)
	assert.Equal(t, controller.StateProcessing, h.state().State)

	close(p.gate)
	h.srv.Wait()
	assert.EqualValues(t, 1, p.calls.Load())
	assert.Equal(t, controller.StateReport, h.state().State)
}

func TestRateLimit(t *testing.T) {
	p := &fakeProvider{reply: reply}
	h := newHarness(t, types.ServerConfig{AnalysesPerMinute: 1}, p)

	h.postForm("/manual", manualValues("2102"))
	h.srv.Wait()
	h.postForm("/reset", nil)

	h.postForm("/manual", manualValues("2102"))
	h.srv.Wait()

	v := h.state()
	assert.Equal(t, controller.StateUpload, v.State)
	assert.Equal(t, RateLimitedMessage, v.Error)
	assert.EqualValues(t, 1, p.calls.Load())
}

func TestMetricsEndpoint(t *testing.T) {
	h := newHarness(t, types.ServerConfig{}, &fakeProvider{reply: reply})
	h.postForm("/manual", manualValues("2102"))
	h.srv.Wait()

	body := h.get("/metrics")
	assert.Contains(t, body, `case_analyzer_analyses_total{kind="manual",outcome="success"} 1`)
	assert.Contains(t, body, "case_analyzer_active_sessions 1")
}

func TestStaticStylesheet(t *testing.T) {
	h := newHarness(t, types.ServerConfig{}, &fakeProvider{reply: reply})
	assert.Contains(t, h.get("/static/style.css"), ".badge-online")
}

func TestNewRequiresAnalyzer(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}
