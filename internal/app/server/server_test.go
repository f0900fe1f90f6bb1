package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"laborcontract/internal/app/server"
	"laborcontract/internal/domain/auth"
	"laborcontract/internal/platform/config"
)

const secret = "journey-secret"

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
	RequestID string `json:"requestId"`
}

type client struct {
	t    *testing.T
	base string
	http *http.Client
}

func testConfig() config.Config {
	return config.Config{
		Addr:               ":0",
		Environment:        "test",
		StoreDriver:        config.StoreDriverMemory,
		JWTSecret:          secret,
		MaxBodyBytes:       1 << 20,
		RateLimitPerMinute: 1000,
		CORSAllowedOrigins: []string{"http://localhost:5173"},
		PublicBaseURL:      "https://contracts.example",
		AdviceProvider:     config.AdviceProviderNone,
		AdviceTimeout:      5 * time.Second,
		MetricsEnabled:     true,
	}
}

func start(t *testing.T, cfg config.Config) *client {
	t.Helper()
	app, err := server.New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(app.Close)
	ts := httptest.NewServer(app.Router)
	t.Cleanup(ts.Close)
	return &client{t: t, base: ts.URL, http: ts.Client()}
}

func bearer(t *testing.T, userID string, role auth.Role) string {
	t.Helper()
	token, err := auth.GenerateToken(secret, auth.Claims{UserID: userID, Role: role}, time.Hour)
	require.NoError(t, err)
	return token
}

func (c *client) do(method, path, token string, body any) (int, envelope, http.Header) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, c.base+path, reader)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	var env envelope
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(c.t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env, resp.Header
}

func (c *client) raw(path, token string) (int, []byte, http.Header) {
	c.t.Helper()
	req, err := http.NewRequest(http.MethodGet, c.base+path, nil)
	require.NoError(c.t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp.StatusCode, body, resp.Header
}

func draft(hourly int64) map[string]any {
	return map[string]any{
		"employerName":            "박준혁",
		"workerName":              "김서연",
		"wageType":                "hourly",
		"hourlyWage":              hourly,
		"startDate":               "2026-01-13",
		"noEndDate":               true,
		"workDays":                []string{"월", "수", "금"},
		"workStartTime":           "17:00",
		"workEndTime":             "22:00",
		"workLocation":            "서울시 마포구 연남동 567-12",
		"paymentDay":              10,
		"paymentMonth":            "next",
		"includeWeeklyHolidayPay": true,
	}
}

type record struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	WorkerID string `json:"workerId"`
	FolderID string `json:"folderId"`
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func TestHealthAndMetrics(t *testing.T) {
	c := start(t, testConfig())

	status, _, headers := c.do(http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, headers.Get("X-Request-ID"))
	require.Equal(t, "nosniff", headers.Get("X-Content-Type-Options"))

	status, _, _ = c.do(http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, status)

	status, env, _ := c.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, status)
	snapshot := decode[map[string]any](t, env.Data)
	require.Contains(t, snapshot, "requestsTotal")
}

func TestAllowanceAndFloorEndpoints(t *testing.T) {
	c := start(t, testConfig())
	token := bearer(t, "emp-1", auth.RoleEmployer)

	status, _, _ := c.do(http.MethodPost, "/api/v1/allowances/calculate", "", map[string]any{"type": "overtime"})
	require.Equal(t, http.StatusUnauthorized, status)

	status, env, _ := c.do(http.MethodPost, "/api/v1/allowances/calculate", token, map[string]any{
		"type": "overtime", "hourlyWage": 11000, "hours": 8,
	})
	require.Equal(t, http.StatusOK, status)
	result := decode[struct {
		Type   string `json:"type"`
		Amount int64  `json:"amount"`
	}](t, env.Data)
	require.Equal(t, "overtime", result.Type)
	require.Equal(t, int64(132000), result.Amount)

	status, env, _ = c.do(http.MethodPost, "/api/v1/allowances/calculate", token, map[string]any{
		"type": "annualLeave", "hourlyWage": 11000, "dailyWorkHours": 8, "days": 27,
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "validation_error", env.Error.Code)
	require.Contains(t, string(env.Error.Details), `"days"`)

	status, env, _ = c.do(http.MethodGet, "/api/v1/wages/floor?year=2026&weeklyHolidayPay=true&hourlyWage=12432", token, nil)
	require.Equal(t, http.StatusOK, status)
	floor := decode[struct {
		Floor     int64 `json:"floor"`
		Compliant *bool `json:"compliant"`
	}](t, env.Data)
	require.Equal(t, int64(12432), floor.Floor)
	require.NotNil(t, floor.Compliant)
	require.True(t, *floor.Compliant)
}

func TestContractJourney(t *testing.T) {
	contractJourney(t, start(t, testConfig()), "")
}

func TestFolderAndBulkJourney(t *testing.T) {
	folderJourney(t, start(t, testConfig()), "")
}

// Journeys against Postgres use fresh user ids so earlier runs on the same
// database do not show up on the dashboard.
func TestJourneysOnPostgres(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	cfg := testConfig()
	cfg.StoreDriver = config.StoreDriverPostgres
	cfg.DatabaseURL = dbURL
	cfg.RunMigrations = true
	cfg.MigrationsDir = "../../../migrations"
	cfg.DataEncryptionKey = "journey-encryption-key-000000000"
	c := start(t, cfg)

	contractJourney(t, c, "-"+uuid.NewString())
	folderJourney(t, c, "-"+uuid.NewString())
}

func contractJourney(t *testing.T, c *client, suffix string) {
	employer := bearer(t, "emp-1"+suffix, auth.RoleEmployer)
	otherEmployer := bearer(t, "emp-2"+suffix, auth.RoleEmployer)
	worker := bearer(t, "worker-1"+suffix, auth.RoleWorker)

	status, env, _ := c.do(http.MethodPost, "/api/v1/contracts", employer, draft(12000))
	require.Equal(t, http.StatusUnprocessableEntity, status)
	require.Equal(t, "compliance_error", env.Error.Code)

	status, _, _ = c.do(http.MethodPost, "/api/v1/contracts", worker, draft(12432))
	require.Equal(t, http.StatusForbidden, status)

	status, env, _ = c.do(http.MethodPost, "/api/v1/contracts", employer, draft(12432))
	require.Equal(t, http.StatusCreated, status)
	created := decode[record](t, env.Data)
	require.Equal(t, "draft", created.Status)

	status, _, _ = c.do(http.MethodGet, "/api/v1/contracts/"+created.ID, otherEmployer, nil)
	require.Equal(t, http.StatusNotFound, status, "drafts are hidden from other users")

	status, env, _ = c.do(http.MethodPost, "/api/v1/contracts/"+created.ID+"/signatures", employer, map[string]string{"signature": "data:image/png;base64,emp"})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "draft", decode[record](t, env.Data).Status)

	status, env, _ = c.do(http.MethodPost, "/api/v1/contracts/"+created.ID+"/share", employer, nil)
	require.Equal(t, http.StatusOK, status)
	shared := decode[struct {
		Status     string `json:"status"`
		SigningURL string `json:"signingUrl"`
	}](t, env.Data)
	require.Equal(t, "pending", shared.Status)
	require.Equal(t, "https://contracts.example/worker/contract/"+created.ID, shared.SigningURL)

	status, env, _ = c.do(http.MethodPut, "/api/v1/contracts/"+created.ID, employer, draft(13000))
	require.Equal(t, http.StatusConflict, status)
	require.Equal(t, "not_editable", env.Error.Code)

	status, env, _ = c.do(http.MethodGet, "/api/v1/dashboard", worker, nil)
	require.Equal(t, http.StatusOK, status)
	board := decode[struct {
		Pending   []record `json:"pending"`
		Completed []record `json:"completed"`
	}](t, env.Data)
	require.Len(t, board.Pending, 1)
	require.Empty(t, board.Completed)

	status, env, _ = c.do(http.MethodPost, "/api/v1/contracts/"+created.ID+"/signatures", worker, map[string]string{"signature": "data:image/png;base64,wrk"})
	require.Equal(t, http.StatusOK, status)
	signed := decode[record](t, env.Data)
	require.Equal(t, "completed", signed.Status)
	require.Equal(t, "worker-1"+suffix, signed.WorkerID)

	status, env, _ = c.do(http.MethodPost, "/api/v1/contracts/"+created.ID+"/status", employer, map[string]string{"status": "pending"})
	require.Equal(t, http.StatusConflict, status)
	require.Equal(t, "invalid_transition", env.Error.Code)

	status, body, headers := c.raw("/api/v1/contracts/"+created.ID+"/document", worker)
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, headers.Get("Content-Type"), "text/plain")
	require.Contains(t, string(body), "김서연")

	status, body, _ = c.raw("/api/v1/contracts/"+created.ID+"/document.pdf", employer)
	require.Equal(t, http.StatusOK, status)
	require.True(t, bytes.HasPrefix(body, []byte("%PDF")))

	status, body, _ = c.raw("/api/v1/contracts/"+created.ID+"/share-qr.png", employer)
	require.Equal(t, http.StatusOK, status)
	require.True(t, bytes.HasPrefix(body, []byte("\x89PNG")))

	status, env, _ = c.do(http.MethodGet, "/api/v1/contracts?status=completed", employer, nil)
	require.Equal(t, http.StatusOK, status)
	list := decode[struct {
		Items []record `json:"items"`
		Total int      `json:"total"`
	}](t, env.Data)
	require.Equal(t, 1, list.Total)

	status, env, _ = c.do(http.MethodPost, "/api/v1/contracts/"+created.ID+"/advice", employer, nil)
	require.Equal(t, http.StatusServiceUnavailable, status)
	require.Equal(t, "advice_unavailable", env.Error.Code)
}

func folderJourney(t *testing.T, c *client, suffix string) {
	employer := bearer(t, "emp-1"+suffix, auth.RoleEmployer)
	worker := bearer(t, "worker-1"+suffix, auth.RoleWorker)

	var ids []string
	for i := 0; i < 2; i++ {
		_, env, _ := c.do(http.MethodPost, "/api/v1/contracts", employer, draft(12432))
		id := decode[record](t, env.Data).ID
		c.do(http.MethodPost, "/api/v1/contracts/"+id+"/signatures", employer, map[string]string{"signature": "emp"})
		c.do(http.MethodPost, "/api/v1/contracts/"+id+"/share", employer, nil)
		status, _, _ := c.do(http.MethodPost, "/api/v1/contracts/"+id+"/signatures", worker, map[string]string{"signature": "wrk"})
		require.Equal(t, http.StatusOK, status)
		ids = append(ids, id)
	}

	status, env, _ := c.do(http.MethodPost, "/api/v1/folders", worker, map[string]string{"name": "  2026 카페  ", "color": "blue"})
	require.Equal(t, http.StatusCreated, status)
	folder := decode[struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}](t, env.Data)
	require.Equal(t, "2026 카페", folder.Name)

	status, env, _ = c.do(http.MethodPost, "/api/v1/contracts/bulk-move", worker, map[string]any{"ids": ids, "folderId": folder.ID})
	require.Equal(t, http.StatusOK, status)
	moved := decode[struct {
		Count   int    `json:"count"`
		Message string `json:"message"`
	}](t, env.Data)
	require.Equal(t, 2, moved.Count)
	require.Equal(t, "Moved 2 contract(s) to '2026 카페'", moved.Message)

	_, env, _ = c.do(http.MethodGet, "/api/v1/dashboard", worker, nil)
	unfiled := decode[struct {
		Completed []record `json:"completed"`
	}](t, env.Data)
	require.Empty(t, unfiled.Completed)

	_, env, _ = c.do(http.MethodGet, "/api/v1/dashboard?folderId="+folder.ID, worker, nil)
	inFolder := decode[struct {
		Completed []record `json:"completed"`
	}](t, env.Data)
	require.Len(t, inFolder.Completed, 2)

	status, body, headers := c.raw("/api/v1/dashboard/export.xlsx?folderId="+folder.ID, worker)
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, headers.Get("Content-Disposition"), "contracts.xlsx")
	require.True(t, bytes.HasPrefix(body, []byte("PK")))

	status, env, _ = c.do(http.MethodDelete, "/api/v1/folders/"+folder.ID+"?activeFolderId="+folder.ID, worker, nil)
	require.Equal(t, http.StatusOK, status)
	deleted := decode[struct {
		Detached int `json:"detached"`
		NextView struct {
			FolderID string `json:"folderId"`
		} `json:"nextView"`
	}](t, env.Data)
	require.Equal(t, 2, deleted.Detached)
	require.Empty(t, deleted.NextView.FolderID)

	status, env, _ = c.do(http.MethodPost, "/api/v1/contracts/bulk-delete", worker, map[string]any{"ids": []string{ids[0], ids[0]}})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 1, decode[struct {
		Count int `json:"count"`
	}](t, env.Data).Count)

	status, env, _ = c.do(http.MethodPost, "/api/v1/contracts/bulk-delete", worker, map[string]any{"ids": []string{}})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "validation_error", env.Error.Code)

	status, _, _ = c.do(http.MethodPost, "/api/v1/contracts/bulk-delete", employer, map[string]any{"ids": ids})
	require.Equal(t, http.StatusForbidden, status)
}

func TestAdviceThroughGateway(t *testing.T) {
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"주휴수당 포함 여부를 명시하세요."}}]}`))
	}))
	defer gateway.Close()

	cfg := testConfig()
	cfg.AdviceProvider = config.AdviceProviderGateway
	cfg.AdviceAPIKey = "test-key"
	cfg.AdviceBaseURL = gateway.URL
	c := start(t, cfg)
	employer := bearer(t, "emp-1", auth.RoleEmployer)

	_, env, _ := c.do(http.MethodPost, "/api/v1/contracts", employer, draft(12432))
	id := decode[record](t, env.Data).ID

	status, env, _ := c.do(http.MethodPost, "/api/v1/contracts/"+id+"/advice", employer, nil)
	require.Equal(t, http.StatusOK, status)
	result := decode[struct {
		Summary string `json:"summary"`
		Advice  string `json:"advice"`
	}](t, env.Data)
	require.Equal(t, "주휴수당 포함 여부를 명시하세요.", result.Advice)
	require.Contains(t, result.Summary, "박준혁")
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	c := start(t, testConfig())
	status, env, _ := c.do(http.MethodGet, "/api/v1/nope", "", nil)
	require.Equal(t, http.StatusNotFound, status)
	require.False(t, env.Success)
	require.Equal(t, "not_found", env.Error.Code)
}
