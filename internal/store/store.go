package store

import (
	"context"
	"encoding/json"

	"github.com/campushive/backend/internal/models"
	"gorm.io/gorm"
)

// Store bundles the repositories over one database handle.
type Store struct {
	db            *gorm.DB
	transactional bool

	Users         *Repository[models.User]
	RefreshTokens *Repository[models.RefreshToken]
	Projects      *Repository[models.Project]
	Members       *Repository[models.ProjectMember]
	Upvotes       *Repository[models.Upvote]
	Bookmarks     *Repository[models.Bookmark]
	Comments      *Repository[models.Comment]
	ChatRooms     *Repository[models.ChatRoom]
	ChatMessages  *Repository[models.ChatMessage]
	Notifications *Repository[models.Notification]
	TeamMatches   *Repository[models.TeamMatch]
	Events        *Repository[models.Event]
}

// New wraps db. When transactional is false, Transaction runs its callback
// directly and each step commits on its own.
func New(db *gorm.DB, transactional bool) *Store {
	s := &Store{transactional: transactional}
	s.bind(db)
	return s
}

func (s *Store) bind(db *gorm.DB) {
	s.db = db
	s.Users = NewRepository[models.User](db)
	s.RefreshTokens = NewRepository[models.RefreshToken](db)
	s.Projects = NewRepository[models.Project](db)
	s.Members = NewRepository[models.ProjectMember](db)
	s.Upvotes = NewRepository[models.Upvote](db)
	s.Bookmarks = NewRepository[models.Bookmark](db)
	s.Comments = NewRepository[models.Comment](db)
	s.ChatRooms = NewRepository[models.ChatRoom](db)
	s.ChatMessages = NewRepository[models.ChatMessage](db)
	s.Notifications = NewRepository[models.Notification](db)
	s.TeamMatches = NewRepository[models.TeamMatch](db)
	s.Events = NewRepository[models.Event](db)
}

// DB exposes the underlying handle for queries the repositories don't cover.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) Transactional() bool {
	return s.transactional
}

// Transaction runs fn against a Store bound to a database transaction.
// fn must only use the Store it is given.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	if !s.transactional {
		return fn(s)
	}
	return Translate(s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		tx := &Store{transactional: true}
		tx.bind(db)
		return fn(tx)
	}))
}

// JSONContains matches rows whose JSON string array column holds value.
// Elements are compared decoded, so the escaping of the stored text does
// not matter.
func (s *Store) JSONContains(column, value string) QueryOption {
	switch s.db.Dialector.Name() {
	case "postgres":
		doc, _ := json.Marshal([]string{value})
		return Where(column+" @> ?::jsonb", string(doc))
	case "mysql":
		doc, _ := json.Marshal(value)
		return Where("JSON_CONTAINS("+column+", ?)", string(doc))
	}
	return Where("EXISTS (SELECT 1 FROM json_each("+column+") WHERE json_each.value = ?)", value)
}
