package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/campushive/backend/internal/config"
	"github.com/campushive/backend/internal/models"
	"github.com/campushive/backend/internal/store"
	"github.com/campushive/backend/internal/utils"
	"github.com/campushive/backend/pkg/logger"
	"github.com/campushive/backend/pkg/response"
)

// Password length bounds, mirrored by the tags on RegisterRequest. bcrypt
// rejects inputs over 72 bytes.
const (
	minPasswordLength = 6
	maxPasswordLength = 72
)

type RegisterRequest struct {
	Name           string   `json:"name" binding:"required,max=100"`
	Email          string   `json:"email" binding:"required,email"`
	Password       string   `json:"password" binding:"required,min=6,max=72"`
	College        string   `json:"college"`
	CollegeBranch  string   `json:"college_branch"`
	GraduationYear int      `json:"graduation_year" binding:"omitempty,min=1900,max=2100"`
	Skills         []string `json:"skills"`
	Interests      []string `json:"interests"`
}

func (r *RegisterRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.College = strings.TrimSpace(r.College)
	r.CollegeBranch = strings.TrimSpace(r.CollegeBranch)
	r.Skills = cleanList(r.Skills)
	r.Interests = cleanList(r.Interests)
	return validate(r)
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	AccessToken     string       `json:"access_token"`
	AccessExpireAt  time.Time    `json:"access_expire_at"`
	RefreshToken    string       `json:"refresh_token"`
	RefreshExpireAt time.Time    `json:"refresh_expire_at"`
	User            *models.User `json:"user"`
}

// ClientInfo is recorded on issued refresh tokens.
type ClientInfo struct {
	IP        string
	UserAgent string
}

type AuthService struct {
	store     *store.Store
	jwtConfig *config.JWTConfig
	now       func() time.Time
}

func NewAuthService(st *store.Store, jwtCfg *config.JWTConfig) *AuthService {
	return &AuthService{store: st, jwtConfig: jwtCfg, now: time.Now}
}

// Register creates an active user account with the USER role.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:           req.Name,
		Email:          req.Email,
		Password:       hashed,
		College:        req.College,
		CollegeBranch:  req.CollegeBranch,
		GraduationYear: req.GraduationYear,
		Skills:         req.Skills,
		Interests:      req.Interests,
		PostedProjects: []uint{},
		JoinedTeams:    []uint{},
		Role:           models.UserRoleUser,
		Status:         models.UserStatusActive,
	}
	if err := s.store.Users.Insert(ctx, user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, response.NewConflict("email is already registered")
		}
		return nil, storeErr(err, "register", "user")
	}
	return user, nil
}

// Login checks the credentials and issues an access token together with a
// new refresh token.
func (s *AuthService) Login(ctx context.Context, req LoginRequest, client ClientInfo) (*LoginResult, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate(req); err != nil {
		return nil, err
	}
	email := req.Email

	user, err := s.store.Users.FindOne(ctx, store.Filter{"email": email})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, response.NewUnauthenticated("invalid email or password")
		}
		return nil, storeErr(err, "login", "user")
	}
	if !utils.CheckPassword(req.Password, user.Password) {
		return nil, response.NewUnauthenticated("invalid email or password")
	}
	if user.Status != models.UserStatusActive {
		return nil, response.NewForbidden("account is " + strings.ToLower(user.Status))
	}

	result, err := s.issue(ctx, s.store, user, client)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if _, err := s.store.Users.UpdateFields(ctx, store.Filter{"id": user.ID},
		map[string]interface{}{"last_login_at": now}); err != nil {
		logger.Secondary("login", err).Uint("user_id", user.ID).Msg("last_login_at not updated")
	} else {
		user.LastLoginAt = &now
	}
	return result, nil
}

// Refresh exchanges a refresh token for a new token pair. The old refresh
// token is revoked in the same transaction that stores the new one.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string, client ClientInfo) (*LoginResult, error) {
	if refreshToken == "" {
		return nil, response.NewValidation("refresh token is required")
	}

	var result *LoginResult
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		stored, err := tx.RefreshTokens.FindOne(ctx, store.Filter{"token_hash": utils.HashToken(refreshToken)})
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return response.NewUnauthenticated("invalid refresh token")
			}
			return err
		}
		now := s.now()
		if !stored.Active(now) {
			return response.NewUnauthenticated("refresh token expired or revoked")
		}

		user, err := tx.Users.Get(ctx, stored.UserID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return response.NewUnauthenticated("invalid refresh token")
			}
			return err
		}
		if user.Status != models.UserStatusActive {
			return response.NewForbidden("account is " + strings.ToLower(user.Status))
		}

		// Guarded on revoked_at so two concurrent refreshes of one token
		// cannot both succeed.
		n, err := tx.RefreshTokens.UpdateFields(ctx,
			store.Filter{"id": stored.ID, "revoked_at": nil},
			map[string]interface{}{"revoked_at": now})
		if err != nil {
			return err
		}
		if n == 0 {
			return response.NewUnauthenticated("refresh token expired or revoked")
		}

		result, err = s.issue(ctx, tx, user, client)
		return err
	})
	if err != nil {
		return nil, storeErr(err, "refresh", "refresh token")
	}
	return result, nil
}

// Logout revokes refreshToken. Unknown or already revoked tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	_, err := s.store.RefreshTokens.UpdateFields(ctx,
		store.Filter{"token_hash": utils.HashToken(refreshToken), "revoked_at": nil},
		map[string]interface{}{"revoked_at": s.now()})
	return storeErr(err, "logout", "refresh token")
}

func (s *AuthService) Me(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.store.Users.Get(ctx, userID)
	if err != nil {
		return nil, storeErr(err, "me", "user")
	}
	return user, nil
}

func (s *AuthService) issue(ctx context.Context, st *store.Store, user *models.User, client ClientInfo) (*LoginResult, error) {
	now := s.now()
	accessToken, err := utils.GenerateToken(user.ID, user.Email, user.Role, s.jwtConfig.ExpireHour)
	if err != nil {
		return nil, err
	}

	refreshHours := s.jwtConfig.RefreshExpireHour
	if refreshHours <= 0 {
		refreshHours = 24 * 7
	}
	refreshToken := utils.NewRefreshToken()
	record := &models.RefreshToken{
		UserID:      user.ID,
		TokenHash:   utils.HashToken(refreshToken),
		ExpiresAt:   now.Add(time.Duration(refreshHours) * time.Hour),
		CreatedByIP: client.IP,
		UserAgent:   truncate(client.UserAgent, 255),
	}
	if err := st.RefreshTokens.Insert(ctx, record); err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken:     accessToken,
		AccessExpireAt:  now.Add(time.Duration(s.jwtConfig.ExpireHour) * time.Hour),
		RefreshToken:    refreshToken,
		RefreshExpireAt: record.ExpiresAt,
		User:            user,
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
