package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/taskd/internal/pipeline"
	"github.com/fyrsmithlabs/taskd/internal/roster"
	"github.com/fyrsmithlabs/taskd/internal/segment"
	"github.com/fyrsmithlabs/taskd/internal/store"
)

func newTestDeps(t *testing.T) Deps {
	t.Helper()

	backend, err := store.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	members := store.NewMemberRepository(backend)
	meetings := store.NewMeetingRepository(backend)
	tasks := store.NewTaskRepository(backend)

	return Deps{
		Pipeline:  pipeline.New(pipeline.DefaultConfig(), nil, nil),
		Segmenter: &segment.SentenceSegmenter{},
		Members:   members,
		Meetings:  meetings,
		Tasks:     tasks,
		Runs:      store.NewRunWriter(meetings, tasks, members, nil),
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	s, err := NewServer(newTestDeps(t), zap.NewNop(), nil)
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2026, 8, 27, 10, 0, 0, 0, time.UTC) }
	return s
}

func doJSON(s *Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestServer_MemberCRUD(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(s, http.MethodPost, "/api/v1/members",
		`{"name":"Alice","role":"frontend developer","skills":["ui","frontend"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "Alice", created.Name)

	rec = doJSON(s, http.MethodGet, "/api/v1/members", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Alice")

	rec = doJSON(s, http.MethodGet, "/api/v1/members/"+created.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(s, http.MethodPut, "/api/v1/members/"+created.ID,
		`{"name":"Alice","role":"frontend developer","skills":["ui"],"workload":2}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(s, http.MethodDelete, "/api/v1/members/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(s, http.MethodGet, "/api/v1/members/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_CreateMemberValidation(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(s, http.MethodPost, "/api/v1/members", `{"name":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(s, http.MethodPost, "/api/v1/members", `{"name":"Alice","workload":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_UpdateMemberValidation(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(s, http.MethodPost, "/api/v1/members", `{"name":"Alice"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(s, http.MethodPut, "/api/v1/members/"+created.ID, `{"name":"Alice","workload":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(s, http.MethodPut, "/api/v1/members/"+created.ID, `{"name":" "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_ProcessRequiresRoster(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(s, http.MethodPost, "/api/v1/meetings/process",
		`{"transcript":"Fix the build today."}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "team members")
}

func TestServer_ProcessRequiresTranscript(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(s, http.MethodPost, "/api/v1/meetings/process", `{"transcript":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_ProcessRejectsBadDate(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(s, http.MethodPost, "/api/v1/meetings/process",
		`{"transcript":"Fix the build.","date":"27/08/2026"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func seedRoster(t *testing.T, s *Server) {
	t.Helper()
	for _, body := range []string{
		`{"name":"Alice","skills":["ui","frontend"]}`,
		`{"name":"Bob","skills":["api","backend"]}`,
		`{"name":"Carol","skills":["testing"]}`,
	} {
		rec := doJSON(s, http.MethodPost, "/api/v1/members", body)
		require.Equal(t, http.StatusCreated, rec.Code)
	}
}

func TestServer_ProcessMeeting(t *testing.T) {
	s := newTestServer(t)
	seedRoster(t, s)

	transcript := "Alice, redesign the dashboard UI, high priority, by Friday. " +
		"Bob, build the login API, critical, by tomorrow. " +
		"After the API is done, write tests. " +
		"Update the docs, low priority, eventually."

	rec := doJSON(s, http.MethodPost, "/api/v1/meetings/process",
		`{"title":"Sprint planning","date":"2026-08-27","transcript":"`+transcript+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp ProcessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.MeetingID)
	assert.Equal(t, 4, resp.TasksCount)
	assert.Contains(t, resp.Summary, "Total Tasks Identified: 4")
	require.Len(t, resp.Tasks, 4)
	assert.Equal(t, "Alice", resp.Tasks[0].AssigneeName)
	assert.Equal(t, "Bob", resp.Tasks[1].AssigneeName)

	// The run is queryable afterwards.
	rec = doJSON(s, http.MethodGet, "/api/v1/meetings/"+resp.MeetingID+"/tasks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var tasks []*store.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	assert.Len(t, tasks, 4)

	rec = doJSON(s, http.MethodGet, "/api/v1/meetings", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sprint planning")
}

func TestServer_ConcurrentRunsAccumulateWorkload(t *testing.T) {
	s := newTestServer(t)
	seedRoster(t, s)

	// Each run assigns one task to Alice by explicit mention and bumps
	// her workload by one. Runs racing each other must not lose a bump
	// by reading the roster before the other run has written it back.
	body := `{"date":"2026-08-27","transcript":"Alice, redesign the dashboard UI, high priority, by Friday."}`

	var wg sync.WaitGroup
	codes := make([]int, 2)
	for i := range codes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = doJSON(s, http.MethodPost, "/api/v1/meetings/process", body).Code
		}(i)
	}
	wg.Wait()
	for _, code := range codes {
		require.Equal(t, http.StatusOK, code)
	}

	rec := doJSON(s, http.MethodGet, "/api/v1/members", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var members []*roster.Person
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &members))
	for _, m := range members {
		if m.Name == "Alice" {
			assert.Equal(t, 2.0, m.Workload)
			return
		}
	}
	t.Fatal("Alice missing from roster listing")
}

func TestNewServer_AppliesTimeouts(t *testing.T) {
	s, err := NewServer(newTestDeps(t), zap.NewNop(), &Config{
		Host:         "localhost",
		Port:         8080,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, s.echo.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, s.echo.Server.WriteTimeout)
}

func TestServer_MeetingTasksNotFound(t *testing.T) {
	s := newTestServer(t)
	rec := doJSON(s, http.MethodGet, "/api/v1/meetings/ghost/tasks", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_ProcessAudioDisabled(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/meetings/process-audio", nil)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "transcription")
}

func TestServer_MetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	doJSON(s, http.MethodGet, "/health", "")

	rec := doJSON(s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "taskd_http_requests_total")
}
