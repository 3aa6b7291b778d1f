package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/ldi/kanban/internal/board"
	"github.com/ldi/kanban/pkg/models"
)

// ErrEmptyTitle is the message returned when a task is submitted without a title.
const ErrEmptyTitle = "Title cannot be empty."

type Server struct {
	board *board.Manager
	log   logrus.FieldLogger
	echo  *echo.Echo
}

func NewServer(manager *board.Manager, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Server{board: manager, log: log}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(s.requestLogger)
	s.register(e)
	s.echo = e
	return s
}

func (s *Server) register(e *echo.Echo) {
	e.GET("/healthz", s.handleHealth)
	e.GET("/api/columns", s.handleColumns)
	e.GET("/api/tasks", s.handleTasks)
	e.POST("/api/tasks", s.handleAddTask)
	e.POST("/api/tasks/:id/move", s.handleMoveTask)
	e.DELETE("/api/tasks/:id", s.handleDeleteTask)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(addr string) error {
	s.log.WithField("addr", addr).Info("web server listening")
	err := s.echo.Start(addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		s.log.WithFields(logrus.Fields{
			"method": c.Request().Method,
			"path":   c.Path(),
			"status": c.Response().Status,
		}).Debug("request")
		return err
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

type tasksResponse struct {
	Tasks []models.Task `json:"tasks"`
}

type addTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type moveTaskRequest struct {
	ColumnID string `json:"columnId"`
}

func (s *Server) handleHealth(c echo.Context) error {
	if !s.board.Ready() {
		return c.JSON(http.StatusServiceUnavailable, map[string]bool{"ready": false})
	}
	return c.JSON(http.StatusOK, map[string]bool{"ready": true})
}

func (s *Server) handleColumns(c echo.Context) error {
	return c.JSON(http.StatusOK, s.board.Lanes())
}

func (s *Server) handleTasks(c echo.Context) error {
	return c.JSON(http.StatusOK, tasksResponse{Tasks: s.board.Tasks()})
}

func (s *Server) handleAddTask(c echo.Context) error {
	var req addTaskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	if strings.TrimSpace(req.Title) == "" {
		return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: ErrEmptyTitle})
	}
	s.board.AddTask(c.Request().Context(), req.Title, req.Description)
	return c.JSON(http.StatusCreated, tasksResponse{Tasks: s.board.Tasks()})
}

func (s *Server) handleMoveTask(c echo.Context) error {
	var req moveTaskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}
	target, ok := models.ParseColumnID(req.ColumnID)
	if !ok {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "unknown column: " + req.ColumnID})
	}
	s.board.MoveTask(c.Request().Context(), c.Param("id"), target)
	return c.JSON(http.StatusOK, tasksResponse{Tasks: s.board.Tasks()})
}

func (s *Server) handleDeleteTask(c echo.Context) error {
	s.board.DeleteTask(c.Request().Context(), c.Param("id"))
	return c.NoContent(http.StatusNoContent)
}
