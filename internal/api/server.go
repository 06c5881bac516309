package api

import (
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/david/proposal-vault/internal/analysis"
	"github.com/david/proposal-vault/internal/catalog"
	"github.com/david/proposal-vault/internal/db"
	"github.com/david/proposal-vault/internal/models"
	"github.com/david/proposal-vault/internal/rfp"
	"github.com/david/proposal-vault/internal/workbook"
)

const (
	ownerHeader = "X-Owner-ID"
	ownerKey    = "owner_id"

	defaultMaxUpload = 32 << 20
)

// Options configures a Server. Zero values fall back to defaults.
type Options struct {
	Catalog         *catalog.Catalog
	Logger          *zap.Logger
	OutputDir       string
	UploadDir       string
	OverrideVersion string
	MaxUploadBytes  int64
	CORSOrigins     []string
}

type Server struct {
	Store  db.SectionStore
	Echo   *echo.Echo
	Logger *zap.Logger

	catalog    *catalog.Catalog
	extractor  *rfp.Extractor
	scanner    *workbook.Scanner
	filler     *workbook.Filler
	comparator *analysis.Comparator
	sanitizer  *bluemonday.Policy
	uploadDir  string
	maxUpload  int64

	mu         sync.Mutex
	workspaces map[uuid.UUID]*workspace
}

// workspace holds the latest uploads of one owner. Each upload replaces its
// part wholesale; the values are never mutated afterwards.
type workspace struct {
	requirements *models.RequirementsRecord
	rfpName      string
	template     *models.TemplateStructure
	templatePath string
	templateName string
}

func NewServer(store db.SectionStore, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	cat := opts.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	uploadDir := opts.UploadDir
	if uploadDir == "" {
		uploadDir = filepath.Join(os.TempDir(), "proposal-vault-uploads")
	}
	maxUpload := opts.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = defaultMaxUpload
	}
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:4200"}
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				logger.Error("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, ownerHeader},
	}))

	s := &Server{
		Store:      store,
		Echo:       e,
		Logger:     logger,
		catalog:    cat,
		extractor:  rfp.NewExtractor(),
		scanner:    workbook.NewScanner(cat),
		filler:     workbook.NewFiller(opts.OutputDir, opts.OverrideVersion, logger),
		comparator: analysis.NewComparator(cat),
		sanitizer:  bluemonday.StrictPolicy(),
		uploadDir:  uploadDir,
		maxUpload:  maxUpload,
		workspaces: map[uuid.UUID]*workspace{},
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.Echo.GET("/health", s.handleHealth)

	api := s.Echo.Group("/api/v1")
	api.Use(ownerMiddleware)
	api.POST("/rfp", s.handleUploadRFP)
	api.GET("/rfp", s.handleGetRFP)
	api.POST("/template", s.handleUploadTemplate)
	api.GET("/template", s.handleGetTemplate)
	api.GET("/template/summary", s.handleTemplateSummary)
	api.GET("/sections", s.handleListSections)
	api.GET("/sections/data", s.handleGetSectionData)
	api.PUT("/sections/data", s.handlePutSectionData)
	api.GET("/analysis", s.handleAnalysis)
	api.GET("/history", s.handleHistory)
	api.POST("/proposal", s.handleGenerateProposal)
}

func (s *Server) Start(port string) error {
	s.Echo.Server.ReadHeaderTimeout = 10 * time.Second
	return s.Echo.Start(":" + port)
}

// ownerMiddleware requires an X-Owner-ID header holding a UUID.
func ownerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := c.Request().Header.Get(ownerHeader)
		if raw == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing X-Owner-ID header"})
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid X-Owner-ID header"})
		}
		c.Set(ownerKey, id)
		return next(c)
	}
}

func ownerFrom(c echo.Context) uuid.UUID {
	id, _ := c.Get(ownerKey).(uuid.UUID)
	return id
}

// snapshot returns a copy of the owner's workspace.
func (s *Server) snapshot(owner uuid.UUID) workspace {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ws, ok := s.workspaces[owner]; ok {
		return *ws
	}
	return workspace{}
}

// update applies fn to the owner's workspace under the lock.
func (s *Server) update(owner uuid.UUID, fn func(ws *workspace)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, ok := s.workspaces[owner]
	if !ok {
		ws = &workspace{}
		s.workspaces[owner] = ws
	}
	fn(ws)
}
