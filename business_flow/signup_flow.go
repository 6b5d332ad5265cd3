// Package businessflow contains the core business logic and use cases for authentication and short link workflows
package businessflow

import (
	"context"
	"strings"

	"github.com/amirphl/Kusanagi/app/dto"
	"github.com/amirphl/Kusanagi/models"
	"github.com/amirphl/Kusanagi/repository"
	"github.com/amirphl/Kusanagi/utils"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SignupFlow handles user registration
type SignupFlow interface {
	Signup(ctx context.Context, request *dto.SignupRequest, metadata *ClientMetadata) (*dto.SignupResponse, error)
}

// SignupFlowImpl implements the signup business flow
type SignupFlowImpl struct {
	userRepo   repository.UserRepository
	bcryptCost int
	db         *gorm.DB
}

// NewSignupFlow creates a new signup flow instance. A bcryptCost outside the
// range bcrypt accepts falls back to the library default.
func NewSignupFlow(
	userRepo repository.UserRepository,
	bcryptCost int,
	db *gorm.DB,
) SignupFlow {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &SignupFlowImpl{
		userRepo:   userRepo,
		bcryptCost: bcryptCost,
		db:         db,
	}
}

// Signup registers a new user account. The email must not belong to an
// existing account; that check happens before the password is hashed so a
// duplicate signup never pays the bcrypt cost.
func (sf *SignupFlowImpl) Signup(ctx context.Context, request *dto.SignupRequest, metadata *ClientMetadata) (*dto.SignupResponse, error) {
	email := strings.ToLower(strings.TrimSpace(request.Email))

	resp, err := sf.WithSignupTransaction(ctx, func(ctx context.Context) (*dto.SignupResponse, error) {
		existing, err := sf.userRepo.ByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, ErrEmailAlreadyExists
		}

		passwordHash, err := bcrypt.GenerateFromPassword([]byte(request.Password), sf.bcryptCost)
		if err != nil {
			return nil, err
		}

		user := &models.User{
			UUID:         uuid.New(),
			Email:        email,
			PasswordHash: string(passwordHash),
			IsActive:     utils.ToPtr(true),
		}

		if err := sf.userRepo.Save(ctx, user); err != nil {
			// Concurrent signup with the same email can slip past the
			// existence check; the unique index is the last word.
			if repository.IsUniqueViolation(err) {
				return nil, ErrEmailAlreadyExists
			}
			return nil, err
		}

		return &dto.SignupResponse{
			Message: "Account created successfully",
			User:    ToUserDTO(*user),
		}, nil
	})

	if err != nil {
		return nil, NewBusinessError("SIGNUP_FAILED", "Signup failed", err)
	}

	return resp, nil
}

func (sf *SignupFlowImpl) WithSignupTransaction(ctx context.Context, fn func(context.Context) (*dto.SignupResponse, error)) (*dto.SignupResponse, error) {
	var result *dto.SignupResponse
	var fnErr error

	err := repository.WithTransaction(ctx, sf.db, func(ctx context.Context) error {
		result, fnErr = fn(ctx)
		return fnErr
	})

	if err != nil {
		return nil, err
	}
	return result, fnErr
}
