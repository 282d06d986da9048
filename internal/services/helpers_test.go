package services

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/campushive/backend/internal/config"
	"github.com/campushive/backend/internal/models"
	"github.com/campushive/backend/internal/store"
	"github.com/campushive/backend/pkg/response"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T, transactional bool) *store.Store {
	t.Helper()
	db, err := models.Open(&config.DatabaseConfig{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "services.db"),
	}, logger.Silent)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return store.New(db, transactional)
}

func seedUser(t *testing.T, st *store.Store, name string) *models.User {
	t.Helper()
	u := &models.User{
		Name:     name,
		Email:    name + "@campus.test",
		Password: "x",
		Role:     models.UserRoleUser,
		Status:   models.UserStatusActive,
	}
	if err := st.Users.Insert(context.Background(), u); err != nil {
		t.Fatalf("insert user %s: %v", name, err)
	}
	return u
}

func seedProject(t *testing.T, st *store.Store, ownerID uint) *models.Project {
	t.Helper()
	p, err := NewMembershipService(st, nil).CreateProjectWithOwner(context.Background(), ownerID, CreateProjectInput{
		Title:          "Study buddy finder",
		Description:    "Match students by course",
		Tags:           []string{"web"},
		RequiredSkills: []string{"go"},
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	return p
}

func reloadProject(t *testing.T, st *store.Store, id uint) *models.Project {
	t.Helper()
	p, err := st.Projects.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("reload project %d: %v", id, err)
	}
	return p
}

func reloadUser(t *testing.T, st *store.Store, id uint) *models.User {
	t.Helper()
	u, err := st.Users.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("reload user %d: %v", id, err)
	}
	return u
}

func assertKind(t *testing.T, err error, kind response.Kind) {
	t.Helper()
	var appErr *response.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected %s error, got %v", kind, err)
	}
	if appErr.Kind != kind {
		t.Fatalf("expected %s error, got %s (%q)", kind, appErr.Kind, appErr.Message)
	}
}

// recordingQueue captures enqueued tasks instead of delivering them.
type recordingQueue struct {
	mu    sync.Mutex
	tasks []*NotificationTask
	err   error
}

func (q *recordingQueue) Enqueue(_ context.Context, task *NotificationTask) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.tasks = append(q.tasks, task)
	return nil
}

func (q *recordingQueue) IsAsync() bool { return false }
func (q *recordingQueue) Close() error  { return nil }

func (q *recordingQueue) sent() []*NotificationTask {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]*NotificationTask(nil), q.tasks...)
}
