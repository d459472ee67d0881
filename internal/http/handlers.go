package http

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/taskd/internal/assignment"
	"github.com/fyrsmithlabs/taskd/internal/extraction"
	"github.com/fyrsmithlabs/taskd/internal/roster"
	"github.com/fyrsmithlabs/taskd/internal/store"
)

// MemberRequest is the body of POST and PUT /api/v1/members.
type MemberRequest struct {
	Name     string   `json:"name"`
	Role     string   `json:"role"`
	Skills   []string `json:"skills"`
	Workload float64  `json:"workload"`
}

func (s *Server) handleCreateMember(c echo.Context) error {
	var req MemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name field is required")
	}
	if req.Workload < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "workload must be >= 0")
	}

	member := &roster.Person{
		Name:     strings.TrimSpace(req.Name),
		Role:     req.Role,
		Skills:   req.Skills,
		Workload: req.Workload,
	}
	if err := s.members.Create(c.Request().Context(), member); err != nil {
		s.logger.Error("failed to create member", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create member")
	}
	return c.JSON(http.StatusCreated, member)
}

func (s *Server) handleListMembers(c echo.Context) error {
	members, err := s.members.List(c.Request().Context())
	if err != nil {
		s.logger.Error("failed to list members", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list members")
	}
	if members == nil {
		members = []*roster.Person{}
	}
	return c.JSON(http.StatusOK, members)
}

func (s *Server) handleGetMember(c echo.Context) error {
	member, err := s.members.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "member not found")
		}
		s.logger.Error("failed to get member", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get member")
	}
	return c.JSON(http.StatusOK, member)
}

func (s *Server) handleUpdateMember(c echo.Context) error {
	var req MemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Name) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name field is required")
	}
	if req.Workload < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "workload must be >= 0")
	}

	member := &roster.Person{
		ID:       c.Param("id"),
		Name:     strings.TrimSpace(req.Name),
		Role:     req.Role,
		Skills:   req.Skills,
		Workload: req.Workload,
	}
	if err := s.members.Update(c.Request().Context(), member); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "member not found")
		}
		s.logger.Error("failed to update member", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to update member")
	}
	return c.JSON(http.StatusOK, member)
}

func (s *Server) handleDeleteMember(c echo.Context) error {
	if err := s.members.Delete(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "member not found")
		}
		s.logger.Error("failed to delete member", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete member")
	}
	return c.NoContent(http.StatusNoContent)
}

// ProcessRequest is the body of POST /api/v1/meetings/process.
type ProcessRequest struct {
	Title      string `json:"title"`
	Date       string `json:"date"`
	Transcript string `json:"transcript"`
}

// ProcessResponse is the body of a successful processing call.
type ProcessResponse struct {
	MeetingID      string        `json:"meeting_id"`
	TasksCount     int           `json:"tasks_count"`
	ProcessingTime float64       `json:"processing_time"`
	Summary        string        `json:"summary"`
	Tasks          []*store.Task `json:"tasks"`
}

func (s *Server) handleProcessMeeting(c echo.Context) error {
	var req ProcessRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return s.process(c, req)
}

// allowedAudioExtensions for POST /api/v1/meetings/process-audio.
var allowedAudioExtensions = map[string]struct{}{
	".wav": {}, ".mp3": {}, ".m4a": {},
}

func (s *Server) handleProcessAudio(c echo.Context) error {
	if !s.transcriber.Available() {
		return echo.NewHTTPError(http.StatusBadRequest, "transcription is not configured")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file field is required")
	}
	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if _, ok := allowedAudioExtensions[ext]; !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid file type. Allowed: .wav, .mp3, .m4a")
	}

	f, err := fileHeader.Open()
	if err != nil {
		s.logger.Error("failed to open upload", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to read upload")
	}
	defer f.Close()

	transcript, err := s.transcriber.Transcribe(c.Request().Context(), f, fileHeader.Filename)
	if err != nil {
		s.logger.Error("transcription failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadGateway, "transcription failed")
	}

	return s.process(c, ProcessRequest{
		Title:      c.FormValue("title"),
		Date:       c.FormValue("date"),
		Transcript: transcript,
	})
}

func (s *Server) process(c echo.Context, req ProcessRequest) error {
	ctx := c.Request().Context()

	if strings.TrimSpace(req.Transcript) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "transcript field is required")
	}

	refDate := s.now()
	if req.Date != "" {
		parsed, err := time.Parse(extraction.ISODate, req.Date)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "date must be YYYY-MM-DD")
		}
		refDate = parsed
	}
	title := req.Title
	if title == "" {
		title = "Meeting " + refDate.Format(extraction.ISODate)
	}

	segments, err := s.segmenter.Segment(ctx, req.Transcript)
	if err != nil {
		s.logger.Error("segmentation failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to segment transcript")
	}

	// Concurrent requests must not read the roster between another
	// run's read and its workload write-back, or the second write
	// would overwrite the first's increments.
	s.runMu.Lock()
	defer s.runMu.Unlock()

	team, err := s.members.List(ctx)
	if err != nil {
		s.logger.Error("failed to load roster", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load roster")
	}
	if len(team) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no team members found. Please add team members first.")
	}

	result, err := s.pipeline.Run(ctx, segments, refDate, team)
	if err != nil {
		if errors.Is(err, assignment.ErrEmptyRoster) {
			return echo.NewHTTPError(http.StatusBadRequest, "no team members found. Please add team members first.")
		}
		s.logger.Error("pipeline run failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to process meeting")
	}

	meeting := &store.Meeting{
		Title:      title,
		Date:       refDate.Format(extraction.ISODate),
		Transcript: req.Transcript,
		Segments:   segments,
	}
	saved, tasks, err := s.runs.Save(ctx, meeting, result)
	if err != nil {
		s.logger.Error("failed to persist run", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to save meeting")
	}

	s.metrics.RecordRun(len(tasks))
	if tasks == nil {
		tasks = []*store.Task{}
	}
	return c.JSON(http.StatusOK, ProcessResponse{
		MeetingID:      saved.ID,
		TasksCount:     len(tasks),
		ProcessingTime: result.Summary.Duration.Seconds(),
		Summary:        result.Summary.Text,
		Tasks:          tasks,
	})
}

func (s *Server) handleListMeetings(c echo.Context) error {
	meetings, err := s.meetings.List(c.Request().Context())
	if err != nil {
		s.logger.Error("failed to list meetings", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list meetings")
	}
	if meetings == nil {
		meetings = []*store.Meeting{}
	}
	return c.JSON(http.StatusOK, meetings)
}

func (s *Server) handleGetMeeting(c echo.Context) error {
	meeting, err := s.meetings.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "meeting not found")
		}
		s.logger.Error("failed to get meeting", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get meeting")
	}
	return c.JSON(http.StatusOK, meeting)
}

func (s *Server) handleMeetingTasks(c echo.Context) error {
	ctx := c.Request().Context()
	meetingID := c.Param("id")

	if _, err := s.meetings.Get(ctx, meetingID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "meeting not found")
		}
		s.logger.Error("failed to get meeting", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get meeting")
	}

	tasks, err := s.tasks.ListByMeeting(ctx, meetingID)
	if err != nil {
		s.logger.Error("failed to list tasks", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list tasks")
	}
	if tasks == nil {
		tasks = []*store.Task{}
	}
	return c.JSON(http.StatusOK, tasks)
}
