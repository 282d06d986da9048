package store

import (
	"context"

	"github.com/campushive/backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Source-row counts correlated to the projects row being updated.
const (
	countMembers  = "(SELECT COUNT(*) FROM project_members WHERE project_members.project_id = projects.id)"
	countComments = "(SELECT COUNT(*) FROM comments WHERE comments.project_id = projects.id)"
	countUpvotes  = "(SELECT COUNT(*) FROM upvotes WHERE upvotes.project_id = projects.id)"
)

// RecountProject sets the project's counters to the counts of their source
// rows in a single UPDATE, so a relation write committing meanwhile is
// counted rather than overwritten. It reports whether anything drifted.
func (s *Store) RecountProject(ctx context.Context, projectID uint) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.Project{}).
		Where("id = ?", projectID).
		Where("(" + models.CounterMembers + " <> " + countMembers +
			" OR " + models.CounterComments + " <> " + countComments +
			" OR " + models.CounterUpvotes + " <> " + countUpvotes + ")").
		UpdateColumns(map[string]interface{}{
			models.CounterMembers:  gorm.Expr(countMembers),
			models.CounterComments: gorm.Expr(countComments),
			models.CounterUpvotes:  gorm.Expr(countUpvotes),
		})
	if err := Translate(res.Error); err != nil {
		return false, err
	}
	return res.RowsAffected > 0, nil
}

// RebuildUserRefs derives the user's posted_projects and joined_teams from
// their memberships of existing projects. The user row stays locked while
// the memberships are read, so a concurrent AddUserRef or PullUserRef lands
// either before the read or after the write.
func (s *Store) RebuildUserRefs(ctx context.Context, userID uint) (bool, error) {
	changed := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", models.RefPostedProjects, models.RefJoinedTeams).
			Where("id = ?", userID).
			Take(&user).Error
		if err != nil {
			return err
		}

		var members []models.ProjectMember
		err = tx.Where("user_id = ? AND project_id IN (?)", userID, tx.Model(&models.Project{}).Select("id")).
			Order("created_at ASC, id ASC").
			Find(&members).Error
		if err != nil {
			return err
		}

		posted, joined := []uint{}, []uint{}
		for _, m := range members {
			if m.Role == models.MemberRoleOwner {
				posted = append(posted, m.ProjectID)
			} else {
				joined = append(joined, m.ProjectID)
			}
		}

		updates := make(map[string]interface{})
		if !sameIDs(user.PostedProjects, posted) {
			updates[models.RefPostedProjects] = datatypes.JSONSlice[uint](posted)
		}
		if !sameIDs(user.JoinedTeams, joined) {
			updates[models.RefJoinedTeams] = datatypes.JSONSlice[uint](joined)
		}
		if len(updates) == 0 {
			return nil
		}
		changed = true
		return tx.Model(&models.User{}).Where("id = ?", userID).UpdateColumns(updates).Error
	})
	return changed, Translate(err)
}

// sameIDs reports whether a and b hold the same ids, ignoring order.
func sameIDs(a, b []uint) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[uint]int, len(a))
	for _, id := range a {
		seen[id]++
	}
	for _, id := range b {
		if seen[id] == 0 {
			return false
		}
		seen[id]--
	}
	return true
}
