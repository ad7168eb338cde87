package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/chadiek/agentic-interview/internal/agent"
	"github.com/chadiek/agentic-interview/internal/config"
	"github.com/chadiek/agentic-interview/internal/diagnostics"
	"github.com/chadiek/agentic-interview/internal/middleware"
	"github.com/chadiek/agentic-interview/internal/transcript"
)

// Deps are the collaborators behind the HTTP surface.
type Deps struct {
	Controller  *agent.Controller
	Credentials *config.Credentials
	Resolution  config.Resolution
	Settings    config.Settings
	// Voice serves the browser speech websocket; nil disables /ws.
	Voice  http.Handler
	Logger *zap.Logger
}

// Server bundles HTTP router and dependencies.
type Server struct {
	Router http.Handler
	deps   Deps
}

type transcriptView struct {
	State    agent.State          `json:"state"`
	Messages []transcript.Message `json:"messages"`
}

type profileBody struct {
	Profile string `json:"profile"`
}

type answerBody struct {
	Text string `json:"text"`
}

type credentialBody struct {
	Key string `json:"key"`
}

type diagnosticsView struct {
	Report diagnostics.Report `json:"report"`
	Text   string             `json:"text"`
}

// New constructs the HTTP server with routes.
func New(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	s := &Server{deps: deps}
	e := NewRouter(deps.Logger)
	e.Use(middleware.AccessPassword(func() string { return deps.Settings.AuthPassword }, "/", "/healthz"))

	e.GET("/", func(c echo.Context) error { return c.HTML(http.StatusOK, uiIndexHTML) })
	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	api := e.Group("/api")
	api.GET("/transcript", s.handleTranscript)
	api.POST("/interview/start", s.handleStart)
	api.POST("/interview/next", s.handleNext)
	api.POST("/interview/answer", s.handleAnswer)
	api.POST("/conversation/clear", s.handleClear)
	api.POST("/credential", s.handleCredential)
	api.GET("/diagnostics", s.handleDiagnostics)
	api.POST("/selftest", s.handleSelfTest)

	if deps.Voice != nil {
		e.GET("/ws", echo.WrapHandler(deps.Voice))
	}

	s.Router = e
	return s
}

func (s *Server) view() transcriptView {
	return transcriptView{State: s.deps.Controller.State(), Messages: s.deps.Controller.Messages()}
}

// respond maps controller results onto HTTP. Completion failures are already in the transcript.
func (s *Server) respond(c echo.Context, err error) error {
	switch {
	case errors.Is(err, agent.ErrBusy):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, agent.ErrBlankInput):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, s.view())
}

func (s *Server) handleTranscript(c echo.Context) error {
	return c.JSON(http.StatusOK, s.view())
}

func (s *Server) handleStart(c echo.Context) error {
	var body profileBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid body"})
	}
	return s.respond(c, s.deps.Controller.StartInterview(c.Request().Context(), body.Profile))
}

func (s *Server) handleNext(c echo.Context) error {
	return s.respond(c, s.deps.Controller.AskNext(c.Request().Context()))
}

func (s *Server) handleAnswer(c echo.Context) error {
	var body answerBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid body"})
	}
	return s.respond(c, s.deps.Controller.SubmitAnswer(c.Request().Context(), body.Text))
}

func (s *Server) handleClear(c echo.Context) error {
	s.deps.Controller.Clear()
	return c.JSON(http.StatusOK, s.view())
}

func (s *Server) handleCredential(c echo.Context) error {
	var body credentialBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid body"})
	}
	s.deps.Credentials.SetDevKey(strings.TrimSpace(body.Key))
	return c.JSON(http.StatusOK, s.diagnostics())
}

func (s *Server) handleDiagnostics(c echo.Context) error {
	return c.JSON(http.StatusOK, s.diagnostics())
}

func (s *Server) diagnostics() diagnosticsView {
	r := diagnostics.Build(s.deps.Resolution, s.deps.Credentials, s.deps.Settings.Model, s.deps.Settings.RequestShape)
	return diagnosticsView{Report: r, Text: r.Text()}
}

func (s *Server) handleSelfTest(c echo.Context) error {
	res, err := s.deps.Controller.RunSelfTest(c.Request().Context())
	if err != nil {
		return s.respond(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
