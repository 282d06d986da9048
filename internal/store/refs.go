package store

import (
	"context"
	"fmt"

	"github.com/campushive/backend/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// The helpers below are single-row read-modify-writes on JSON id lists.
// Each runs in its own transaction with the row locked, which is what keeps
// concurrent appends to the same user or room from losing updates. The
// sqlite dialect drops FOR UPDATE and relies on its single writer instead.

// AddUserRef appends projectID to a user's back-reference list unless it
// is already there.
func (s *Store) AddUserRef(ctx context.Context, userID uint, column string, projectID uint) error {
	return s.mutateUserRefs(ctx, userID, column, func(ids []uint) ([]uint, bool) {
		return addID(ids, projectID)
	})
}

// PullUserRef removes projectID from a user's back-reference list.
func (s *Store) PullUserRef(ctx context.Context, userID uint, column string, projectID uint) error {
	return s.mutateUserRefs(ctx, userID, column, func(ids []uint) ([]uint, bool) {
		return pullID(ids, projectID)
	})
}

// SetUserRefs replaces a user's back-reference list.
func (s *Store) SetUserRefs(ctx context.Context, userID uint, column string, projectIDs []uint) error {
	if err := checkRefColumn(column); err != nil {
		return err
	}
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn(column, datatypes.JSONSlice[uint](projectIDs))
	return Translate(res.Error)
}

func (s *Store) mutateUserRefs(ctx context.Context, userID uint, column string, mutate func([]uint) ([]uint, bool)) error {
	if err := checkRefColumn(column); err != nil {
		return err
	}
	return mutateIDList(ctx, s.db, &models.User{}, userID, column, func(u *models.User) []uint {
		if column == models.RefPostedProjects {
			return u.PostedProjects
		}
		return u.JoinedTeams
	}, mutate)
}

// AddRoomMember lists userID in the chat room of projectID.
func (s *Store) AddRoomMember(ctx context.Context, projectID, userID uint) error {
	room, err := s.ChatRooms.FindOne(ctx, Filter{"project_id": projectID})
	if err != nil {
		return err
	}
	return mutateIDList(ctx, s.db, &models.ChatRoom{}, room.ID, "members", func(r *models.ChatRoom) []uint {
		return r.Members
	}, func(ids []uint) ([]uint, bool) {
		return addID(ids, userID)
	})
}

// PullRoomMember removes userID from the chat room of projectID.
func (s *Store) PullRoomMember(ctx context.Context, projectID, userID uint) error {
	room, err := s.ChatRooms.FindOne(ctx, Filter{"project_id": projectID})
	if err != nil {
		return err
	}
	return mutateIDList(ctx, s.db, &models.ChatRoom{}, room.ID, "members", func(r *models.ChatRoom) []uint {
		return r.Members
	}, func(ids []uint) ([]uint, bool) {
		return pullID(ids, userID)
	})
}

func mutateIDList[T any](ctx context.Context, db *gorm.DB, model *T, id uint, column string,
	get func(*T) []uint, mutate func([]uint) ([]uint, bool)) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := new(T)
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", column).
			Where("id = ?", id).
			Take(row).Error
		if err != nil {
			return err
		}
		next, changed := mutate(get(row))
		if !changed {
			return nil
		}
		return tx.Model(model).Where("id = ?", id).
			UpdateColumn(column, datatypes.JSONSlice[uint](next)).Error
	})
	return Translate(err)
}

func checkRefColumn(column string) error {
	switch column {
	case models.RefPostedProjects, models.RefJoinedTeams:
		return nil
	}
	return fmt.Errorf("store: unknown back-reference column %q", column)
}

func addID(ids []uint, id uint) ([]uint, bool) {
	for _, v := range ids {
		if v == id {
			return ids, false
		}
	}
	next := make([]uint, 0, len(ids)+1)
	next = append(next, ids...)
	return append(next, id), true
}

func pullID(ids []uint, id uint) ([]uint, bool) {
	next := make([]uint, 0, len(ids))
	for _, v := range ids {
		if v != id {
			next = append(next, v)
		}
	}
	return next, len(next) != len(ids)
}
