package service

import (
	"context"
	"errors"

	"contractdesk/internal/entity"
	"contractdesk/internal/modules/user/dto"
	"contractdesk/internal/modules/user/repository"
	"contractdesk/pkg/apperror"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AdminService manages user accounts. Only admins reach these operations;
// the route group enforces that.
type AdminService interface {
	CreateUser(ctx context.Context, input dto.CreateUserInput) (*dto.UserResponse, error)
	GetAllUsers(ctx context.Context) ([]dto.UserResponse, error)
	UpdateUser(ctx context.Context, id uint, input dto.UpdateUserInput) (*dto.UserResponse, error)
	DeleteUser(ctx context.Context, id uint, actorID uint) error
}

type adminService struct {
	repo repository.UserRepository
}

func NewAdminService(repo repository.UserRepository) AdminService {
	return &adminService{repo: repo}
}

func (s *adminService) CreateUser(ctx context.Context, input dto.CreateUserInput) (*dto.UserResponse, error) {
	if existing, _ := s.repo.FindByUsername(ctx, input.Username); existing != nil {
		return nil, apperror.Conflict("username already taken")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Username:     input.Username,
		PasswordHash: string(hashed),
		Role:         input.Role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *adminService) GetAllUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, dto.NewUserResponse(user))
	}
	return responses, nil
}

func (s *adminService) UpdateUser(ctx context.Context, id uint, input dto.UpdateUserInput) (*dto.UserResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, err
	}

	// Never demote the last remaining admin.
	if user.Role == entity.RoleAdmin && input.Role != entity.RoleAdmin {
		admins, err := s.repo.CountAdmins(ctx, id)
		if err != nil {
			return nil, err
		}
		if admins == 0 {
			return nil, apperror.BadRequest("the last admin cannot be demoted")
		}
	}

	user.Username = input.Username
	user.Role = input.Role

	// Blank password means keep the current one.
	if input.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hashed)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *adminService) DeleteUser(ctx context.Context, id uint, actorID uint) error {
	if id == actorID {
		return apperror.BadRequest("you cannot delete your own account")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("user not found")
		}
		return err
	}

	if user.Role == entity.RoleAdmin {
		admins, err := s.repo.CountAdmins(ctx, id)
		if err != nil {
			return err
		}
		if admins == 0 {
			return apperror.BadRequest("the last admin cannot be deleted")
		}
	}

	return s.repo.Delete(ctx, id)
}
