package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/david/proposal-vault/internal/analysis"
	"github.com/david/proposal-vault/internal/catalog"
	"github.com/david/proposal-vault/internal/db"
	"github.com/david/proposal-vault/internal/models"
	"github.com/david/proposal-vault/internal/rfp"
	"github.com/david/proposal-vault/internal/validate"
	"github.com/david/proposal-vault/internal/workbook"
)

type rfpResponse struct {
	Filename     string                    `json:"filename,omitempty"`
	Requirements models.RequirementsRecord `json:"requirements"`
	Warning      string                    `json:"warning,omitempty"`
}

type templateResponse struct {
	Filename string                   `json:"filename,omitempty"`
	Template models.TemplateStructure `json:"template"`
	Summary  models.TemplateSummary   `json:"summary"`
	Warning  string                   `json:"warning,omitempty"`
}

type sectionDataResponse struct {
	Section  string               `json:"section"`
	Version  string               `json:"version"`
	Data     models.SectionData   `json:"data"`
	Warnings []validate.Violation `json:"warnings,omitempty"`
}

type analysisResponse struct {
	Comparison models.ComparisonResult   `json:"comparison"`
	Progress   []models.CategoryProgress `json:"progress"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// readUpload returns the multipart "file" part, bounded by the upload limit.
func (s *Server) readUpload(c echo.Context) (string, []byte, error) {
	c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, s.maxUpload)
	fh, err := c.FormFile("file")
	if err != nil {
		return "", nil, fmt.Errorf("missing file: %w", err)
	}
	f, err := fh.Open()
	if err != nil {
		return "", nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	content, err := io.ReadAll(io.LimitReader(f, s.maxUpload+1))
	if err != nil {
		return "", nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(content)) > s.maxUpload {
		return "", nil, errors.New("file too large")
	}
	return filepath.Base(fh.Filename), content, nil
}

func (s *Server) handleUploadRFP(c echo.Context) error {
	owner := ownerFrom(c)
	name, content, err := s.readUpload(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	resp := rfpResponse{Filename: name}
	text, err := rfp.DocumentText(content)
	if err != nil {
		s.Logger.Warn("rfp document unreadable", zap.String("owner", owner.String()), zap.String("file", name), zap.Error(err))
		resp.Requirements = models.NewRequirementsRecord()
		resp.Warning = err.Error()
	} else {
		resp.Requirements = s.extractor.Extract(text)
	}

	rec := resp.Requirements
	s.update(owner, func(ws *workspace) {
		ws.requirements = &rec
		ws.rfpName = name
	})
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetRFP(c echo.Context) error {
	ws := s.snapshot(ownerFrom(c))
	if ws.requirements == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No RFP uploaded"})
	}
	return c.JSON(http.StatusOK, rfpResponse{Filename: ws.rfpName, Requirements: *ws.requirements})
}

func (s *Server) handleUploadTemplate(c echo.Context) error {
	owner := ownerFrom(c)
	name, content, err := s.readUpload(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	dir := filepath.Join(s.uploadDir, owner.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to store template"})
	}
	path := filepath.Join(dir, uuid.NewString()+".xlsx")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to store template"})
	}

	resp := templateResponse{Filename: name}
	tmpl, err := s.scanner.ScanFile(path)
	if err != nil {
		s.Logger.Warn("template unreadable", zap.String("owner", owner.String()), zap.String("file", name), zap.Error(err))
		_ = os.Remove(path)
		path = ""
		resp.Warning = err.Error()
	}
	resp.Template = tmpl
	resp.Summary = workbook.Summarize(tmpl)

	var previous string
	s.update(owner, func(ws *workspace) {
		previous = ws.templatePath
		ws.template = &tmpl
		ws.templatePath = path
		ws.templateName = name
	})
	if previous != "" {
		_ = os.Remove(previous)
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetTemplate(c echo.Context) error {
	ws := s.snapshot(ownerFrom(c))
	if ws.template == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No template uploaded"})
	}
	return c.JSON(http.StatusOK, templateResponse{
		Filename: ws.templateName,
		Template: *ws.template,
		Summary:  workbook.Summarize(*ws.template),
	})
}

func (s *Server) handleTemplateSummary(c echo.Context) error {
	ws := s.snapshot(ownerFrom(c))
	if ws.template == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No template uploaded"})
	}
	return c.JSON(http.StatusOK, workbook.Summarize(*ws.template))
}

func (s *Server) handleListSections(c echo.Context) error {
	stored, err := s.Store.LoadAll(c.Request().Context(), ownerFrom(c).String())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"sections":   analysis.VaultStatus(s.catalog, stored),
		"categories": s.catalog.Categories(),
	})
}

// sectionParams reads and checks the section and version query parameters.
func (s *Server) sectionParams(c echo.Context) (string, string, error) {
	section := c.QueryParam("section")
	if !s.catalog.Contains(section) {
		return "", "", fmt.Errorf("%w: %q", catalog.ErrUnknownSection, section)
	}
	version := strings.TrimSpace(c.QueryParam("version"))
	if version == "" {
		version = models.VersionBase
	}
	return section, version, nil
}

func (s *Server) handleGetSectionData(c echo.Context) error {
	section, version, err := s.sectionParams(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	}
	data, err := s.Store.Get(c.Request().Context(), ownerFrom(c).String(), section, version)
	if errors.Is(err, db.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No data stored for this section and version"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, sectionDataResponse{Section: section, Version: version, Data: data})
}

func (s *Server) handlePutSectionData(c echo.Context) error {
	section, version, err := s.sectionParams(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	}

	var data models.SectionData
	if err := json.NewDecoder(c.Request().Body).Decode(&data); err != nil || data == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	data = s.sanitize(data)

	violations := validate.Check(data, section)
	if blocking := validate.Blocking(violations); len(blocking) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, map[string]any{
			"error":      "Validation failed",
			"violations": blocking,
		})
	}

	if err := s.Store.Put(c.Request().Context(), ownerFrom(c).String(), section, version, data); err != nil {
		s.Logger.Error("save section failed", zap.String("section", section), zap.String("version", version), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save section data"})
	}
	return c.JSON(http.StatusOK, sectionDataResponse{
		Section:  section,
		Version:  version,
		Data:     data,
		Warnings: validate.Warnings(violations),
	})
}

// sanitize strips markup from string values so stored text is plain.
func (s *Server) sanitize(data models.SectionData) models.SectionData {
	out := make(models.SectionData, len(data))
	for k, v := range data {
		if str, ok := v.(string); ok {
			v = html.UnescapeString(s.sanitizer.Sanitize(str))
		}
		out[k] = v
	}
	return out
}

func (s *Server) handleAnalysis(c echo.Context) error {
	owner := ownerFrom(c)
	stored, err := s.Store.LoadAll(c.Request().Context(), owner.String())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	ws := s.snapshot(owner)
	req := models.NewRequirementsRecord()
	if ws.requirements != nil {
		req = *ws.requirements
	}
	tmpl := models.NewTemplateStructure()
	if ws.template != nil {
		tmpl = *ws.template
	}

	result := s.comparator.Compare(stored, req, tmpl)
	return c.JSON(http.StatusOK, analysisResponse{
		Comparison: result,
		Progress:   analysis.CategoryProgress(s.catalog, result),
	})
}

func (s *Server) handleHistory(c echo.Context) error {
	records, err := s.Store.History(c.Request().Context(), ownerFrom(c).String())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"versions": analysis.History(records),
		"records":  len(records),
	})
}

func (s *Server) handleGenerateProposal(c echo.Context) error {
	owner := ownerFrom(c)
	ws := s.snapshot(owner)
	if ws.templatePath == "" {
		return c.JSON(http.StatusConflict, map[string]string{"error": "Upload a readable template first"})
	}

	stored, err := s.Store.LoadAll(c.Request().Context(), owner.String())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	path, err := s.filler.Fill(ws.templatePath, stored)
	if err != nil {
		s.Logger.Error("proposal generation failed", zap.String("owner", owner.String()), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to generate proposal"})
	}
	defer func() {
		if err := os.RemoveAll(filepath.Dir(path)); err != nil {
			s.Logger.Warn("failed to remove generated proposal", zap.String("path", path), zap.Error(err))
		}
	}()
	return c.Attachment(path, filepath.Base(path))
}
