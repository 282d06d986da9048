package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/campushive/backend/internal/config"
	"github.com/campushive/backend/internal/models"
	"github.com/campushive/backend/internal/store"
	"github.com/campushive/backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

const (
	reconcileLockName = "reconcile"
	reconcileLockTTL  = 15 * time.Minute
)

// ReconcileReport summarizes one reconcile pass.
type ReconcileReport struct {
	Projects       int   `json:"projects"`
	CountersFixed  int64 `json:"counters_fixed"`
	UsersRebuilt   int64 `json:"users_rebuilt"`
	OrphansRemoved int64 `json:"orphans_removed"`
}

// ReconcileService repairs drift between source rows and the values
// denormalized from them: project counters and user back-references.
// Scheduled runs take a database lease so only one replica works per tick.
type ReconcileService struct {
	store    *store.Store
	cfg      config.ReconcileConfig
	owner    string
	schedule *cron.Cron
}

func NewReconcileService(st *store.Store, cfg config.ReconcileConfig) *ReconcileService {
	host, _ := os.Hostname()
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &ReconcileService{
		store: st,
		cfg:   cfg,
		owner: fmt.Sprintf("%s-%s", host, uuid.NewString()[:8]),
	}
}

// Start schedules Run on cfg.Schedule.
func (s *ReconcileService) Start() error {
	s.schedule = cron.New()
	if _, err := s.schedule.AddFunc(s.cfg.Schedule, s.tick); err != nil {
		return fmt.Errorf("reconcile schedule %q: %w", s.cfg.Schedule, err)
	}
	s.schedule.Start()
	logger.Info().Str("schedule", s.cfg.Schedule).Msg("reconcile scheduler started")
	return nil
}

// Stop halts the scheduler and waits for a running pass to finish.
func (s *ReconcileService) Stop() {
	if s.schedule == nil {
		return
	}
	<-s.schedule.Stop().Done()
}

func (s *ReconcileService) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), reconcileLockTTL)
	defer cancel()

	ok, err := s.store.TryLock(ctx, reconcileLockName, s.owner, reconcileLockTTL)
	if err != nil {
		logger.Error().Err(err).Msg("reconcile lock failed")
		return
	}
	if !ok {
		logger.Debug().Msg("reconcile skipped, lease held elsewhere")
		return
	}
	defer func() {
		if err := s.store.Unlock(context.Background(), reconcileLockName, s.owner); err != nil {
			logger.Warn().Err(err).Msg("reconcile unlock failed")
		}
	}()

	start := time.Now()
	report, err := s.Run(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("reconcile failed")
		return
	}
	logger.Info().
		Int("projects", report.Projects).
		Int64("counters_fixed", report.CountersFixed).
		Int64("users_rebuilt", report.UsersRebuilt).
		Int64("orphans_removed", report.OrphansRemoved).
		Dur("took", time.Since(start)).
		Msg("reconcile finished")
}

// Run performs one full pass.
func (s *ReconcileService) Run(ctx context.Context) (*ReconcileReport, error) {
	report := &ReconcileReport{}

	if s.cfg.CleanupOrphans {
		n, err := s.removeOrphans(ctx)
		if err != nil {
			return nil, err
		}
		report.OrphansRemoved = n
	}

	ids, err := store.Pluck[models.Project, uint](ctx, s.store.Projects, "id", nil)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	report.Projects = len(ids)

	var fixed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			changed, err := s.recountProject(gctx, id)
			if err != nil {
				return fmt.Errorf("recount project %d: %w", id, err)
			}
			if changed {
				fixed.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	report.CountersFixed = fixed.Load()

	rebuilt, err := s.rebuildUserRefs(ctx)
	if err != nil {
		return nil, err
	}
	report.UsersRebuilt = rebuilt
	return report, nil
}

// recountProject rewrites the counters of a project that drifted from
// their source rows.
func (s *ReconcileService) recountProject(ctx context.Context, projectID uint) (bool, error) {
	changed, err := s.store.RecountProject(ctx, projectID)
	if err != nil {
		return false, err
	}
	if changed {
		logger.Info().Uint("project_id", projectID).Msg("counter drift repaired")
	}
	return changed, nil
}

// rebuildUserRefs rederives posted_projects and joined_teams for every
// user and counts the users whose lists changed.
func (s *ReconcileService) rebuildUserRefs(ctx context.Context) (int64, error) {
	ids, err := store.Pluck[models.User, uint](ctx, s.store.Users, "id", nil)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}

	var rebuilt int64
	for _, id := range ids {
		changed, err := s.store.RebuildUserRefs(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue
			}
			return rebuilt, fmt.Errorf("rebuild user %d: %w", id, err)
		}
		if changed {
			rebuilt++
		}
	}
	return rebuilt, nil
}

// removeOrphans deletes rows that still point at a deleted project, then
// messages of rooms that are gone.
func (s *ReconcileService) removeOrphans(ctx context.Context) (int64, error) {
	orphan := store.Where("project_id NOT IN (?)", s.projectIDs())

	steps := []struct {
		name string
		run  func() (int64, error)
	}{
		{"project_members", func() (int64, error) { return s.store.Members.DeleteWhere(ctx, nil, orphan) }},
		{"upvotes", func() (int64, error) { return s.store.Upvotes.DeleteWhere(ctx, nil, orphan) }},
		{"bookmarks", func() (int64, error) { return s.store.Bookmarks.DeleteWhere(ctx, nil, orphan) }},
		{"comments", func() (int64, error) { return s.store.Comments.DeleteWhere(ctx, nil, orphan) }},
		{"team_matches", func() (int64, error) { return s.store.TeamMatches.DeleteWhere(ctx, nil, orphan) }},
		{"chat_rooms", func() (int64, error) { return s.store.ChatRooms.DeleteWhere(ctx, nil, orphan) }},
		{"chat_messages", func() (int64, error) {
			rooms := s.store.DB().Model(&models.ChatRoom{}).Select("id")
			return s.store.ChatMessages.DeleteWhere(ctx, nil, store.Where("room_id NOT IN (?)", rooms))
		}},
	}

	var total int64
	for _, step := range steps {
		n, err := step.run()
		if err != nil {
			return total, fmt.Errorf("remove orphan %s: %w", step.name, err)
		}
		if n > 0 {
			logger.Info().Str("table", step.name).Int64("rows", n).Msg("orphans removed")
		}
		total += n
	}
	return total, nil
}

func (s *ReconcileService) projectIDs() interface{} {
	return s.store.DB().Model(&models.Project{}).Select("id")
}
