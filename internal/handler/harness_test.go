package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/rayan-crm-api/internal/handler"
	"github.com/noah-isme/rayan-crm-api/internal/models"
	"github.com/noah-isme/rayan-crm-api/internal/repository"
	"github.com/noah-isme/rayan-crm-api/internal/service"
	"github.com/noah-isme/rayan-crm-api/internal/store"
	"github.com/noah-isme/rayan-crm-api/internal/views"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type stubPlaceholders struct{}

func (stubPlaceholders) AssignmentStatus() []string { return []string{"pending"} }
func (stubPlaceholders) AverageScore() float64      { return 3.5 }
func (stubPlaceholders) MedalAwardDate() string     { return "1404/05/05" }
func (stubPlaceholders) DaysSinceContact() int      { return 2 }

func clock() time.Time {
	return time.Date(2025, time.September, 23, 9, 0, 0, 0, time.UTC)
}

func intPtr(v int) *int { return &v }

func fixture() models.Dataset {
	paid := "t1"
	return models.Dataset{
		Students: []models.Student{
			{ID: 1, Name: "سارا احمدی", Phone: "09120000001", ApollonyarID: intPtr(1), Enrollments: []models.Enrollment{{CourseID: 1, TermID: 1}}},
			{ID: 2, Name: "رضا کریمی", Phone: "09120000002", Enrollments: []models.Enrollment{{CourseID: 1, TermID: 1}}},
		},
		Apollonyars: []models.Apollonyar{{ID: 1, Name: "مریم"}},
		Terms:       []models.Term{{ID: 1, Name: "ترم پاییز", CourseID: 1}},
		Courses: []models.Course{{ID: 1, Name: "پایتون",
			AssignmentsDef: []models.AssignmentDef{{ID: 11, Title: "تمرین ۱", DueDate: "1404/07/10"}},
			CallsDef:       []models.CallDef{{ID: 21, Title: "تماس اول", Week: 1}},
		}},
		Groups:       []models.Group{{ID: 1, Name: "گروه الف", TermID: 1}},
		Assignments:  []models.Assignment{},
		Calls:        []models.Call{},
		Installments: []models.Installment{{ID: 1, StudentID: 1, Amount: 500, DueDate: "1404/07/05", PaymentStatus: "پرداخت شده", TransactionID: &paid}},
		Medals:       []models.Medal{{ID: 1, Name: "کوشا"}},
		Transactions: []models.Transaction{{ID: "t1", StudentID: 1, Amount: 500, Status: "در انتظار"}},
	}
}

type harness struct {
	app      *fiber.App
	store    *store.Store
	activity service.ActivityService
	feed     service.ChangeFeed
	backend  service.Backend
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := zerolog.New(io.Discard)

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	repo := repository.NewActivityLogRepository(db)
	require.NoError(t, repo.Migrate(context.Background()))

	st := store.New(fixture()).WithClock(clock)
	activity := service.NewActivityService(repo, logger)
	feed := service.NewChangeFeed(nil, "", nil, logger)
	st.Subscribe(feed.Observe)

	backend := service.Backend{
		Store:    st,
		Views:    views.New(stubPlaceholders{}, time.UTC).WithClock(clock),
		Activity: activity,
	}
	validate := validator.New(validator.WithRequiredStructEnabled())

	app := fiber.New()
	api := app.Group("/api/v1")
	handler.NewStudentHandler(service.NewStudentService(backend, validate, "علی رضایی", logger), logger).Register(api.Group("/students"))
	handler.NewCatalogHandler(service.NewCatalogService(backend, logger), logger).Register(api)
	handler.NewFinanceHandler(service.NewFinanceService(backend, validate, "علی رضایی", logger), logger).Register(api)
	handler.NewActivityHandler(activity, logger).Register(api.Group("/activity"))
	handler.NewScreenHandler().Register(api.Group("/screens"))
	handler.NewChangeFeedHandler(feed, st.Revision, logger).Register(api.Group("/changes"))
	handler.NewDatasetHandler(service.NewDatasetService(backend, true, "secret", 1, logger), logger).Register(api.Group("/admin"))

	return &harness{app: app, store: st, activity: activity, feed: feed, backend: backend}
}

func (h *harness) do(t *testing.T, method, path string, body interface{}) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return h.send(t, req)
}

func (h *harness) send(t *testing.T, req *http.Request) (int, envelope) {
	t.Helper()
	resp, err := h.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}
