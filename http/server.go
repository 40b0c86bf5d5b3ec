package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/veracity"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DefaultMaxRequestBody caps the size of an analyze request body.
const DefaultMaxRequestBody = 2 << 20

// ShutdownTimeout is the time given for outstanding requests to finish
// before shutdown.
const ShutdownTimeout = 10 * time.Second

// Server serves the analysis API over HTTP.
type Server struct {
	ln     net.Listener
	server *http.Server
	router *gin.Engine

	analyses veracity.AnalysisService
	writer   veracity.AnalysisWriter
	history  veracity.HistoryService
	limiter  *ClientLimiter
	origins  []string
	logger   *slog.Logger
	maxBody  int64
	now      func() time.Time

	// Addr is the bind address for the listener.
	Addr string
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the logger for request and error logging.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithAnalysisWriter sets where successful analyses are recorded. Save
// failures are logged and never affect the response.
func WithAnalysisWriter(w veracity.AnalysisWriter) ServerOption {
	return func(s *Server) {
		s.writer = w
	}
}

// WithHistory enables the history endpoints.
func WithHistory(h veracity.HistoryService) ServerOption {
	return func(s *Server) {
		s.history = h
	}
}

// WithLimiter rate limits the analyze endpoint per client.
func WithLimiter(l *ClientLimiter) ServerOption {
	return func(s *Server) {
		s.limiter = l
	}
}

// WithAllowOrigins enables CORS for the given browser origins.
func WithAllowOrigins(origins ...string) ServerOption {
	return func(s *Server) {
		s.origins = origins
	}
}

// WithMaxRequestBody sets the largest accepted analyze request body.
func WithMaxRequestBody(n int64) ServerOption {
	return func(s *Server) {
		s.maxBody = n
	}
}

// NewServer returns a new Server serving analyses.
func NewServer(analyses veracity.AnalysisService, opts ...ServerOption) *Server {
	s := &Server{
		analyses: analyses,
		logger:   slog.Default(),
		maxBody:  DefaultMaxRequestBody,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.router = gin.New()
	s.router.Use(s.logRequests, gin.CustomRecovery(s.recover))
	if len(s.origins) > 0 {
		s.router.Use(cors.New(cors.Config{
			AllowOrigins: s.origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowHeaders: []string{"Origin", "Content-Type"},
		}))
	}

	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api")
	analyze := []gin.HandlerFunc{s.handleAnalyze}
	if s.limiter != nil {
		analyze = append([]gin.HandlerFunc{s.limiter.Middleware()}, analyze...)
	}
	api.POST("/analyze", analyze...)

	if s.history != nil {
		api.GET("/history", s.handleHistory)
		api.DELETE("/history", s.handleDeleteHistory)
		api.DELETE("/history/:id", s.handleDeleteAnalysis)
	}

	s.server = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Open begins listening on Addr and serving requests in the background.
func (s *Server) Open() (err error) {
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	go func() {
		if err := s.server.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server", "err", err)
		}
	}()
	return nil
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// URL returns the base URL of the running server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// ServeHTTP routes a request through the API handlers.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// logRequests attaches a request-scoped logger and logs each request once it
// completes.
func (s *Server) logRequests(c *gin.Context) {
	begin := time.Now()

	id := c.GetHeader("X-Request-ID")
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.New().String()
	}
	c.Header("X-Request-ID", id)

	logger := s.logger.With("request_id", id)
	c.Set(loggerKey, logger)

	c.Next()

	logger.Info("http request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"client_ip", c.ClientIP(),
		"duration", time.Since(begin),
	)
}

func (s *Server) recover(c *gin.Context, v any) {
	loggerFrom(c).Error("panic", "value", v)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": GenericErrorMessage})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleAnalyze(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBody)

	var req veracity.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, veracity.Errorf(veracity.EINVALID,
			"Invalid request body. Expected JSON with article text or URL.").Wrap(err))
		return
	}

	result, err := s.analyses.Analyze(c.Request.Context(), &req)
	if err != nil {
		Error(c, err)
		return
	}

	s.record(c, &req, result)
	c.JSON(http.StatusOK, result)
}

// record hands a successful analysis to the writer, if one is configured.
func (s *Server) record(c *gin.Context, req *veracity.Request, result *veracity.Result) {
	if s.writer == nil {
		return
	}
	a := &veracity.Analysis{
		Result:    result,
		SourceURL: strings.TrimSpace(req.URL),
		InputType: req.InputType(),
		CreatedAt: s.now(),
	}
	if err := s.writer.SaveAnalysis(context.WithoutCancel(c.Request.Context()), a); err != nil {
		loggerFrom(c).Warn("save analysis", "err", err)
	}
}

func (s *Server) handleHistory(c *gin.Context) {
	filter := veracity.AnalysisFilter{
		Limit:  queryInt(c, "limit", 0),
		Offset: queryInt(c, "offset", 0),
	}
	if v := c.Query("inputType"); v != "" {
		inputType := veracity.InputType(v)
		if inputType != veracity.InputText && inputType != veracity.InputURL {
			Error(c, veracity.Errorf(veracity.EINVALID, "inputType must be text or url."))
			return
		}
		filter.InputType = &inputType
	}

	analyses, err := s.history.FindAnalyses(c.Request.Context(), filter)
	if err != nil {
		Error(c, err)
		return
	}
	if analyses == nil {
		analyses = []*veracity.Analysis{}
	}
	c.JSON(http.StatusOK, gin.H{"items": analyses})
}

func (s *Server) handleDeleteAnalysis(c *gin.Context) {
	if err := s.history.DeleteAnalysis(c.Request.Context(), c.Param("id")); err != nil {
		Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleDeleteHistory(c *gin.Context) {
	if err := s.history.DeleteAnalyses(c.Request.Context()); err != nil {
		Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// queryInt reads an integer query parameter, falling back to defaultValue
// when it is missing or malformed.
func queryInt(c *gin.Context, name string, defaultValue int) int {
	v := c.Query(name)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		loggerFrom(c).Warn("invalid query parameter, using default", "param", name, "value", v)
		return defaultValue
	}
	return n
}
