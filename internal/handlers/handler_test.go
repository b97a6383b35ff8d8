package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"taskboard-api/internal/auth"
	"taskboard-api/internal/middleware"
	"taskboard-api/internal/testutil"
	"taskboard-api/internal/workspace"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	auth   *auth.Service
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger, _ := test.NewNullLogger()
	db := testutil.NewInMemoryDB(t)
	tokens := auth.NewTokenManager("test-secret", "taskboard-test", "taskboard-test-clients", time.Hour)
	authService := auth.NewService(db, tokens, auth.NewSessionStore(), logger)
	h := New(authService, workspace.NewService(db, logger), logger)

	r := gin.New()
	r.POST("/api/register", h.Register)
	r.POST("/api/login", h.Login)
	p := r.Group("/api")
	p.Use(middleware.SessionAuth(authService))
	p.POST("/logout", h.Logout)
	p.GET("/me", h.Me)
	p.GET("/users", h.GetAllUsers)
	p.GET("/boards", h.GetBoards)
	p.POST("/boards", h.CreateBoard)
	p.GET("/boards/:id", h.GetBoardByID)
	p.GET("/boards/:id/stats", h.GetBoardStats)
	p.GET("/boards/:id/columns", h.GetColumns)
	p.POST("/boards/:id/columns", h.CreateColumn)
	p.GET("/columns/:id/tasks", h.GetTasks)
	p.POST("/columns/:id/tasks", h.CreateTask)
	p.GET("/tasks/:id", h.GetTaskByID)
	p.PATCH("/tasks/:id/status", h.UpdateTaskStatus)
	p.POST("/tasks/:id/milestones", h.CreateMilestone)
	p.PATCH("/milestones/:id", h.UpdateMilestone)

	return &testAPI{t: t, router: r, auth: authService}
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) login(username, password string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/login", "", map[string]string{"username": username, "password": password})
	require.Equal(a.t, http.StatusOK, w.Code)
	var resp LoginResponse
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(a.t, resp.Token)
	return resp.Token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestRegisterAndLogin(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/register", "", map[string]string{"username": "manager", "password": "123", "role": "MANAGER"})
	require.Equal(t, http.StatusCreated, w.Code)
	require.True(t, decode[RegisterResponse](t, w).Registered)

	w = api.do(http.MethodPost, "/api/register", "", map[string]string{"username": "manager", "password": "x", "role": "EMPLOYEE"})
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "DUPLICATE_USERNAME", decode[errorResponse](t, w).Code)

	w = api.do(http.MethodPost, "/api/login", "", map[string]string{"username": "manager", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "AUTHENTICATION_FAILURE", decode[errorResponse](t, w).Code)

	token := api.login("manager", "123")
	w = api.do(http.MethodGet, "/api/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[UserResponse](t, w)
	require.Equal(t, "manager", me.Username)
	require.Equal(t, "MANAGER", string(me.Role))
	require.NotContains(t, w.Body.String(), "123")
}

func TestRegister_DefaultAndInvalidRole(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/register", "", map[string]string{"username": "bob", "password": "pw"})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "EMPLOYEE", string(decode[RegisterResponse](t, w).Role))

	w = api.do(http.MethodPost, "/api/register", "", map[string]string{"username": "eve", "password": "pw", "role": "ADMIN"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "INVALID_ARGUMENT", decode[errorResponse](t, w).Code)
}

func TestLogout_InvalidatesToken(t *testing.T) {
	api := newTestAPI(t)
	api.do(http.MethodPost, "/api/register", "", map[string]string{"username": "alice", "password": "pw"})
	token := api.login("alice", "pw")

	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/logout", token, nil).Code)
	require.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/me", token, nil).Code)
}

func TestBoardFlow(t *testing.T) {
	api := newTestAPI(t)
	api.do(http.MethodPost, "/api/register", "", map[string]string{"username": "manager", "password": "123", "role": "MANAGER"})
	token := api.login("manager", "123")

	w := api.do(http.MethodPost, "/api/boards", token, NameRequest{Name: "Sprint1"})
	require.Equal(t, http.StatusCreated, w.Code)
	board := decode[BoardSummary](t, w)
	require.Equal(t, "manager", board.CreatedBy)

	w = api.do(http.MethodGet, "/api/boards", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	boards := decode[struct{ Boards []BoardSummary }](t, w)
	require.Len(t, boards.Boards, 1)
	require.Equal(t, "Sprint1", boards.Boards[0].Name)

	w = api.do(http.MethodPost, "/api/boards/"+itoa(board.ID)+"/columns", token, NameRequest{Name: "To Do"})
	require.Equal(t, http.StatusCreated, w.Code)
	column := decode[ColumnSummary](t, w)

	w = api.do(http.MethodGet, "/api/boards/"+itoa(board.ID)+"/columns", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, decode[struct{ Columns []ColumnSummary }](t, w).Columns, 1)

	w = api.do(http.MethodPost, "/api/columns/"+itoa(column.ID)+"/tasks", token, CreateTaskRequest{Title: "Write spec"})
	require.Equal(t, http.StatusCreated, w.Code)
	task := decode[TaskView](t, w)
	require.Equal(t, "TO_DO", string(task.Status))
	require.Equal(t, 0, task.Progress)

	w = api.do(http.MethodPatch, "/api/tasks/"+itoa(task.ID)+"/status", token, map[string]string{"status": "DONE"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 100, decode[TaskView](t, w).Progress)

	w = api.do(http.MethodGet, "/api/columns/"+itoa(column.ID)+"/tasks", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	tasks := decode[struct{ Tasks []TaskSummary }](t, w).Tasks
	require.Len(t, tasks, 1)
	require.Equal(t, "Write spec", tasks[0].Title)
	require.Equal(t, 100, tasks[0].Progress)

	w = api.do(http.MethodGet, "/api/boards/"+itoa(board.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[BoardView](t, w)
	require.Len(t, view.Columns, 1)
	require.Len(t, view.Columns[0].Tasks, 1)

	w = api.do(http.MethodGet, "/api/boards/"+itoa(board.ID)+"/stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.EqualValues(t, 1, decode[workspace.Stats](t, w).Total)
}

func TestMilestoneFlow(t *testing.T) {
	api := newTestAPI(t)
	api.do(http.MethodPost, "/api/register", "", map[string]string{"username": "alice", "password": "pw"})
	token := api.login("alice", "pw")

	board := decode[BoardSummary](t, api.do(http.MethodPost, "/api/boards", token, NameRequest{Name: "b"}))
	column := decode[ColumnSummary](t, api.do(http.MethodPost, "/api/boards/"+itoa(board.ID)+"/columns", token, NameRequest{Name: "c"}))
	task := decode[TaskView](t, api.do(http.MethodPost, "/api/columns/"+itoa(column.ID)+"/tasks", token, CreateTaskRequest{Title: "t"}))

	var first uint
	for i, name := range []string{"one", "two", "three"} {
		w := api.do(http.MethodPost, "/api/tasks/"+itoa(task.ID)+"/milestones", token, CreateMilestoneRequest{Name: name})
		require.Equal(t, http.StatusCreated, w.Code)
		if i == 0 {
			first = decode[struct{ ID uint }](t, w).ID
		}
	}

	w := api.do(http.MethodPatch, "/api/milestones/"+itoa(first), token, map[string]bool{"completed": true})
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodGet, "/api/tasks/"+itoa(task.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[TaskView](t, w)
	require.Len(t, view.Milestones, 3)
	require.Equal(t, 33, view.Progress)

	w = api.do(http.MethodPatch, "/api/milestones/"+itoa(first), token, map[string]string{})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInvalidHandles(t *testing.T) {
	api := newTestAPI(t)
	api.do(http.MethodPost, "/api/register", "", map[string]string{"username": "alice", "password": "pw"})
	token := api.login("alice", "pw")

	w := api.do(http.MethodGet, "/api/boards/99/columns", token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "INVALID_REFERENCE", decode[errorResponse](t, w).Code)

	w = api.do(http.MethodPost, "/api/columns/abc/tasks", token, CreateTaskRequest{Title: "t"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "INVALID_SELECTION", decode[errorResponse](t, w).Code)

	w = api.do(http.MethodPatch, "/api/tasks/99/status", token, map[string]string{"status": "DONE"})
	require.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(http.MethodPatch, "/api/tasks/1/status", token, map[string]string{"status": "FINISHED"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "INVALID_ARGUMENT", decode[errorResponse](t, w).Code)
}

func TestGetAllUsers(t *testing.T) {
	api := newTestAPI(t)
	api.do(http.MethodPost, "/api/register", "", map[string]string{"username": "alice", "password": "pw"})
	api.do(http.MethodPost, "/api/register", "", map[string]string{"username": "bob", "password": "pw", "role": "MANAGER"})
	token := api.login("alice", "pw")

	w := api.do(http.MethodGet, "/api/users", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	users := decode[struct{ Users []UserResponse }](t, w).Users
	require.Len(t, users, 2)
	require.Equal(t, "bob", users[1].Username)
	require.NotContains(t, w.Body.String(), "password")
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
