package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/rayan-crm-api/internal/dto"
	"github.com/noah-isme/rayan-crm-api/internal/models"
	"github.com/noah-isme/rayan-crm-api/internal/repository"
	"github.com/noah-isme/rayan-crm-api/internal/store"
	"github.com/noah-isme/rayan-crm-api/internal/views"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

type memoryActivityRepo struct {
	mu      sync.Mutex
	entries []models.ActivityLog
}

func (m *memoryActivityRepo) Migrate(ctx context.Context) error { return nil }

func (m *memoryActivityRepo) Create(ctx context.Context, entry *models.ActivityLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry.ID = uint(len(m.entries) + 1)
	entry.CreatedAt = time.Now()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memoryActivityRepo) List(ctx context.Context, filter repository.ActivityLogFilter) ([]models.ActivityLog, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.ActivityLog(nil), m.entries...), int64(len(m.entries)), nil
}

func (m *memoryActivityRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

type fixedPlaceholders struct{}

func (fixedPlaceholders) AssignmentStatus() []string { return []string{"completed"} }
func (fixedPlaceholders) AverageScore() float64      { return 4.2 }
func (fixedPlaceholders) MedalAwardDate() string     { return "1404/03/15" }
func (fixedPlaceholders) DaysSinceContact() int      { return 5 }

func testClock() time.Time {
	return time.Date(2025, time.September, 23, 9, 0, 0, 0, time.UTC)
}

func intRef(v int) *int { return &v }

func strRef(v string) *string { return &v }

func serviceDataset() models.Dataset {
	return models.Dataset{
		Students: []models.Student{
			{ID: 1, Name: "سارا احمدی", Phone: "09120000001", ApollonyarID: intRef(1), AccessStatus: "فعال",
				Enrollments: []models.Enrollment{{CourseID: 1, TermID: 1}}},
			{ID: 2, Name: "رضا کریمی", Phone: "09120000002", Enrollments: []models.Enrollment{{CourseID: 1, TermID: 1}}},
		},
		Apollonyars: []models.Apollonyar{{ID: 1, Name: "مریم"}, {ID: 2, Name: "حسین"}},
		Terms:       []models.Term{{ID: 1, Name: "ترم پاییز", CourseID: 1, StartDate: "1404/07/01", EndDate: "1404/09/30"}},
		Courses: []models.Course{{
			ID:             1,
			Name:           "پایتون",
			AssignmentsDef: []models.AssignmentDef{{ID: 11, Title: "تمرین ۱", DueDate: "1404/07/10"}},
			CallsDef:       []models.CallDef{{ID: 21, Title: "تماس اول", Week: 1}},
		}},
		Groups:      []models.Group{{ID: 1, Name: "گروه الف", TermID: 1}},
		Assignments: []models.Assignment{},
		Calls:       []models.Call{},
		Installments: []models.Installment{
			{ID: 1, StudentID: 1, Amount: 500, DueDate: "1404/07/05", PaymentStatus: "پرداخت شده", TransactionID: strRef("t1")},
			{ID: 2, StudentID: 1, Amount: 500, DueDate: "1404/08/05"},
		},
		Medals:       []models.Medal{{ID: 1, Name: "کوشا"}},
		Transactions: []models.Transaction{{ID: "t1", StudentID: 1, Amount: 500, Date: "1404/07/05", Status: "در انتظار"}},
	}
}

type testBackend struct {
	Backend
	repo *memoryActivityRepo
}

func newTestBackend(cache *ViewCache) testBackend {
	repo := &memoryActivityRepo{}
	st := store.New(serviceDataset()).WithClock(testClock)
	return testBackend{
		Backend: Backend{
			Store:    st,
			Views:    views.New(fixedPlaceholders{}, time.UTC).WithClock(testClock),
			Cache:    cache,
			Activity: NewActivityService(repo, testLogger()),
		},
		repo: repo,
	}
}

func TestMutationRecordsOneActivityAndOneChange(t *testing.T) {
	backend := newTestBackend(nil)
	feed := NewChangeFeed(nil, "", nil, testLogger())
	backend.Store.Subscribe(feed.Observe)
	events, cancel := feed.Subscribe()
	defer cancel()

	svc := NewStudentService(backend.Backend, testValidator(), "علی رضایی", testLogger())
	actor := ActivityActor{ID: 7, Role: "admin"}

	result, err := svc.AddMedal(context.Background(), actor, 1, 1)
	require.NoError(t, err)
	require.True(t, result.Applied)
	require.Equal(t, 1, backend.repo.count())

	select {
	case event := <-events:
		require.Equal(t, store.ActionMedalAdded, event.Action)
		require.Equal(t, uint64(1), event.Revision)
		require.Equal(t, []string{"1"}, event.EntityIDs)
	case <-time.After(time.Second):
		t.Fatal("expected change event")
	}

	again, err := svc.AddMedal(context.Background(), actor, 1, 1)
	require.NoError(t, err)
	require.False(t, again.Applied)
	require.Equal(t, 1, backend.repo.count())

	missing, err := svc.Remove(context.Background(), actor, 404)
	require.NoError(t, err)
	require.False(t, missing.Applied)
	require.Equal(t, 1, backend.repo.count())

	select {
	case event := <-events:
		t.Fatalf("unexpected change event %+v", event)
	default:
	}

	entries, _, err := backend.repo.List(context.Background(), repository.ActivityLogFilter{})
	require.NoError(t, err)
	require.Equal(t, store.ActionMedalAdded, entries[0].Action)
	require.Equal(t, "1", entries[0].EntityID)
	require.Equal(t, uint64(1), entries[0].Revision)
	require.Equal(t, uint(7), entries[0].ActorID)
}

func TestConcurrentMutationsRecordTheirOwnRevision(t *testing.T) {
	backend := newTestBackend(nil)
	backend.Store.Subscribe(func(store.Change) { time.Sleep(time.Millisecond) })
	svc := NewStudentService(backend.Backend, testValidator(), "علی رضایی", testLogger())
	actor := ActivityActor{ID: 3, Role: "staff"}

	const writers = 50
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = svc.AddNote(context.Background(), actor, 1, dto.NoteRequest{Text: fmt.Sprintf("یادداشت %d", i)})
		}(i)
	}
	wg.Wait()

	entries, _, err := backend.repo.List(context.Background(), repository.ActivityLogFilter{})
	require.NoError(t, err)
	require.Len(t, entries, writers)

	revisions := make(map[uint64]struct{}, writers)
	for _, entry := range entries {
		require.GreaterOrEqual(t, entry.Revision, uint64(1))
		require.LessOrEqual(t, entry.Revision, uint64(writers))
		revisions[entry.Revision] = struct{}{}
	}
	require.Len(t, revisions, writers)
}

func TestCleanStripsMarkup(t *testing.T) {
	b := newCRMBackend(Backend{}, testLogger(), "test")

	cases := map[string]string{
		"  <script>alert(1)</script><b>سلام</b> ": "سلام",
		"O'Brien & Co":                            "O'Brien & Co",
		"50% paid & 2 < 3":                        "50% paid & 2 < 3",
		`"quoted" text`:                           `"quoted" text`,
		"&lt;b&gt;bold&lt;/b&gt;":                 "bold",
	}
	for input, want := range cases {
		require.Equal(t, want, b.clean(input), input)
	}
}
