package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/memo-backend/internal/data/repos"
	"github.com/yungbote/memo-backend/internal/data/repos/resource"
	types "github.com/yungbote/memo-backend/internal/domain"
	"github.com/yungbote/memo-backend/internal/platform/apierr"
	"github.com/yungbote/memo-backend/internal/platform/dbctx"
	"github.com/yungbote/memo-backend/internal/platform/logger"
)

type CreateUserInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UpdateUserInput leaves nil fields unchanged.
type UpdateUserInput struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Role  *string `json:"role"`
}

type UserService interface {
	Create(ctx context.Context, in CreateUserInput) (*types.User, error)
	Get(ctx context.Context, id uuid.UUID) (*types.User, error)
	GetByEmail(ctx context.Context, email string) (*types.User, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*types.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	db    *gorm.DB
	log   *logger.Logger
	users repos.UserRepo
	links repos.ResourceLinkRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, r repos.Repos) UserService {
	return &userService{
		db:    db,
		log:   log.With("service", "UserService"),
		users: r.User,
		links: r.ResourceLink,
	}
}

func normalizeName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", apierr.BadRequest("invalid_name", fmt.Errorf("name is required"))
	}
	return name, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", apierr.BadRequest("invalid_email", fmt.Errorf("email %q is not valid", raw))
	}
	return email, nil
}

func parseRole(raw string) (types.UserRole, error) {
	if strings.TrimSpace(raw) == "" {
		return types.RoleUser, nil
	}
	role, err := types.ParseUserRole(raw)
	if err != nil {
		return "", apierr.BadRequest("invalid_role", err)
	}
	return role, nil
}

// Create registers a user; the role defaults to USER.
func (s *userService) Create(ctx context.Context, in CreateUserInput) (*types.User, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	role, err := parseRole(in.Role)
	if err != nil {
		return nil, err
	}
	row := &types.User{ID: uuid.New(), Name: name, Email: email, Role: role}
	inserted, err := s.users.CreateIfAbsent(dbctx.Context{Ctx: ctx}, row)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if !inserted {
		return nil, apierr.Conflict("user_exists", "user with email %q already exists", email)
	}
	return row, nil
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*types.User, error) {
	row, err := s.users.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if row == nil {
		return nil, apierr.NotFound("user_not_found", "user %s not found", id)
	}
	return row, nil
}

func (s *userService) GetByEmail(ctx context.Context, raw string) (*types.User, error) {
	email := strings.TrimSpace(raw)
	if email == "" {
		return nil, apierr.BadRequest("invalid_email", fmt.Errorf("email is required"))
	}
	row, err := s.users.GetByEmail(dbctx.Context{Ctx: ctx}, email)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if row == nil {
		return nil, apierr.NotFound("user_not_found", "user with email %q not found", email)
	}
	return row, nil
}

func (s *userService) Update(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*types.User, error) {
	var out *types.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		row, err := s.users.GetByID(inner, id)
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		if row == nil {
			return apierr.NotFound("user_not_found", "user %s not found", id)
		}
		if in.Name != nil {
			if row.Name, err = normalizeName(*in.Name); err != nil {
				return err
			}
		}
		if in.Role != nil {
			if row.Role, err = parseRole(*in.Role); err != nil {
				return err
			}
		}
		if in.Email != nil {
			email, err := normalizeEmail(*in.Email)
			if err != nil {
				return err
			}
			taken, err := s.users.GetByEmail(inner, email)
			if err != nil {
				return fmt.Errorf("load user: %w", err)
			}
			if taken != nil && taken.ID != row.ID {
				return apierr.Conflict("user_exists", "user with email %q already exists", email)
			}
			row.Email = email
		}
		if err := s.users.Update(inner, row); err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the user and the resource links they recorded. Votes stay in
// the ledger since relationship counters are derived from it.
func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	var dropped int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		row, err := s.users.GetByID(inner, id)
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		if row == nil {
			return apierr.NotFound("user_not_found", "user %s not found", id)
		}
		if dropped, err = s.links.DeleteBy(inner, resource.LinkOwnerUser, id); err != nil {
			return fmt.Errorf("delete links: %w", err)
		}
		if err := s.users.Delete(inner, id); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info("user deleted", "user_id", id, "links", dropped)
	return nil
}
