package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/codalotl/artifactview/internal/artifacts"
	"github.com/codalotl/artifactview/internal/diff"
	"github.com/codalotl/artifactview/internal/markdown"
	"github.com/gin-gonic/gin"
)

type diffRequest struct {
	Old       string `json:"old"`
	New       string `json:"new"`
	Normalize bool   `json:"normalize"` // Convert CRLF and CR to "\n" before diffing.
}

type diffResponse struct {
	Entries diff.Result `json:"entries"`
	Stats   diff.Stats  `json:"stats"`
}

type markdownRequest struct {
	Source   string `json:"source"`
	Sanitize bool   `json:"sanitize"`
}

type markdownResponse struct {
	HTML string `json:"html"`
}

type planResponse struct {
	artifacts.Plan
	HTML string `json:"html"` // Sanitized rendering of Content.
}

// changeResponse is a FileChange with its diff.
type changeResponse struct {
	artifacts.FileChange
	diffResponse
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) handleDiff(c *gin.Context) {
	var req diffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	oldText, newText := req.Old, req.New
	if req.Normalize {
		oldText, newText = diff.NormalizeEOL(oldText), diff.NormalizeEOL(newText)
	}
	c.JSON(http.StatusOK, newDiffResponse(s.diffs.DiffLines(oldText, newText)))
}

func (s *Server) handleMarkdown(c *gin.Context) {
	var req markdownRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	html := s.renderMarkdown(req.Source)
	if req.Sanitize {
		html = markdown.Sanitize(html)
	}
	c.JSON(http.StatusOK, markdownResponse{HTML: html})
}

func (s *Server) handleListPlans(c *gin.Context) {
	infos, err := s.plans.List(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	if infos == nil {
		infos = []artifacts.PlanInfo{}
	}
	c.JSON(http.StatusOK, gin.H{"plans": infos})
}

func (s *Server) handleGetPlan(c *gin.Context) {
	plan, err := s.plans.Get(c.Request.Context(), c.Param("name"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, planResponse{Plan: plan, HTML: markdown.Sanitize(s.renderMarkdown(plan.Content))})
}

func (s *Server) handleListSessions(c *gin.Context) {
	sessions, err := s.history.Sessions(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	if sessions == nil {
		sessions = []artifacts.Session{}
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (s *Server) handleListChanges(c *gin.Context) {
	refs, err := s.history.Changes(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	if refs == nil {
		refs = []artifacts.ChangeRef{}
	}
	c.JSON(http.StatusOK, gin.H{"changes": refs})
}

func (s *Server) handleGetChange(c *gin.Context) {
	normalize, ok := queryBool(c, "normalize")
	if !ok {
		return
	}
	fc, err := s.history.FileChange(c.Request.Context(), c.Param("id"), c.Param("backup"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.newChangeResponse(fc, normalize))
}

func (s *Server) handleListEdits(c *gin.Context) {
	normalize, ok := queryBool(c, "normalize")
	if !ok {
		return
	}
	edits, err := s.history.ToolEdits(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	out := make([]changeResponse, len(edits))
	for i, fc := range edits {
		out[i] = s.newChangeResponse(fc, normalize)
	}
	c.JSON(http.StatusOK, gin.H{"edits": out})
}

func (s *Server) renderMarkdown(source string) string {
	return s.renders.RenderHTML(source, markdown.RenderOptions{LegacyOrderedLists: s.opts.LegacyOrderedLists})
}

func (s *Server) newChangeResponse(fc artifacts.FileChange, normalize bool) changeResponse {
	oldText, newText := fc.Base(), fc.Content
	if normalize {
		oldText, newText = diff.NormalizeEOL(oldText), diff.NormalizeEOL(newText)
	}
	return changeResponse{FileChange: fc, diffResponse: newDiffResponse(s.diffs.DiffLines(oldText, newText))}
}

func newDiffResponse(r diff.Result) diffResponse {
	return diffResponse{Entries: r, Stats: r.Stats()}
}

// writeError maps err to a status code and writes {"error": ...}. Unexpected errors are recorded on the context for the request log and not shown to the client.
// queryBool parses an optional boolean query parameter (strconv.ParseBool syntax; absent or empty is false). On a malformed value it responds 400 and
// returns ok == false.
func queryBool(c *gin.Context, key string) (value bool, ok bool) {
	raw := c.Query(key)
	if raw == "" {
		return false, true
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s: %q", key, raw)})
		return false, false
	}
	return value, true
}

func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, artifacts.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, artifacts.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, context.Canceled):
		c.Status(499) // client closed the request
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
