// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pdiddy/case-analyzer/internal/caseform"
	"github.com/pdiddy/case-analyzer/internal/controller"
	"github.com/pdiddy/case-analyzer/internal/docread"
)

// User-facing rejection messages.
const (
	NoFileMessage      = "يرجى اختيار ملف لتحليله."
	RateLimitedMessage = "تم تجاوز عدد التحليلات المسموح بها. يرجى المحاولة بعد قليل."
)

// Rejection reasons for metrics.
const (
	reasonBusy        = "busy"
	reasonInvalid     = "invalid"
	reasonRateLimited = "rate_limited"
	reasonNoFile      = "no_file"
)

// session resolves the caller's session and refreshes the cookie.
func (s *Server) session(c *gin.Context) *session {
	id, _ := c.Cookie(sessionCookie)
	id, sess := s.sessions.Get(id)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, id, int(s.cfg.SessionTTL.Seconds()), "/", "", false, true)
	return sess
}

func (s *Server) handleIndex(c *gin.Context) {
	sess := s.session(c)
	v := sess.ctrl.View()
	c.HTML(http.StatusOK, "index.html", newPage(v, c.Query("tab"), sess.manualForm()))
}

func (s *Server) handleState(c *gin.Context) {
	sess := s.session(c)
	c.JSON(http.StatusOK, sess.ctrl.View())
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleReset(c *gin.Context) {
	sess := s.session(c)
	sess.ctrl.Reset()
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleUpload(c *gin.Context) {
	sess := s.session(c)
	if sess.ctrl.Busy() {
		s.reject(c, sess, reasonBusy, "", "/")
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		s.reject(c, sess, reasonNoFile, NoFileMessage, "/")
		return
	}
	if !s.allow() {
		s.reject(c, sess, reasonRateLimited, RateLimitedMessage, "/")
		return
	}

	// The multipart body is gone once the handler returns, so the bytes are
	// read here and decoded inside the analysis.
	data, readErr := readUpload(fh, s.cfg.MaxUploadBytes)
	name := fh.Filename
	load := func(context.Context) (string, error) {
		if readErr != nil {
			return "", readErr
		}
		return docread.Decode(name, data, s.cfg.MaxUploadBytes)
	}

	run, err := sess.ctrl.StartDocument(load)
	if err != nil {
		s.reject(c, sess, reasonBusy, "", "/")
		return
	}
	s.logger.Info("document analysis started", zap.String("file", name), zap.Int("bytes", len(data)))
	s.launch(c.Request.Context(), run)
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleManual(c *gin.Context) {
	sess := s.session(c)
	if sess.ctrl.Busy() {
		s.reject(c, sess, reasonBusy, "", "/")
		return
	}

	var form caseform.ManualForm
	if err := c.ShouldBind(&form); err != nil {
		s.reject(c, sess, reasonInvalid, caseform.InvalidFieldsMessage, "/?tab="+tabManual)
		return
	}
	sess.setForm(form)

	if _, err := form.Input(); err == nil && !s.allow() {
		s.reject(c, sess, reasonRateLimited, RateLimitedMessage, "/?tab="+tabManual)
		return
	}

	run, err := sess.ctrl.StartManual(form)
	if err != nil {
		var ve *caseform.ValidationError
		switch {
		case errors.As(err, &ve):
			s.metrics.ObserveRejected(reasonInvalid)
			s.logger.Debug("manual form rejected", zap.String("fields", ve.Detail()))
			c.Redirect(http.StatusSeeOther, "/?tab="+tabManual)
		case errors.Is(err, controller.ErrBusy):
			s.reject(c, sess, reasonBusy, "", "/")
		default:
			s.reject(c, sess, reasonInvalid, err.Error(), "/?tab="+tabManual)
		}
		return
	}
	s.logger.Info("manual analysis started", zap.String("case", form.CaseNumber()))
	s.launch(c.Request.Context(), run)
	c.Redirect(http.StatusSeeOther, "/")
}

// reject records a refused submission and redirects. An empty msg leaves the
// session's error untouched.
func (s *Server) reject(c *gin.Context, sess *session, reason, msg, to string) {
	s.metrics.ObserveRejected(reason)
	if msg != "" {
		sess.ctrl.Reject(msg)
	}
	c.Redirect(http.StatusSeeOther, to)
}

func (s *Server) allow() bool {
	return s.limiter == nil || s.limiter.Allow()
}

func readUpload(fh *multipart.FileHeader, maxBytes int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("opening upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	return data, nil
}
