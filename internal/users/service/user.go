package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	userserrors "laptoploan/internal/users/errors"
	"laptoploan/internal/users/repository"
	"laptoploan/internal/users/validator"
	"laptoploan/pkg/config"
	apperrors "laptoploan/pkg/errors"
	"laptoploan/pkg/locale"
	"laptoploan/pkg/model"
	"laptoploan/pkg/sanitizer"
	"laptoploan/pkg/session"

	"golang.org/x/crypto/bcrypt"
)

// AdminUserIDPrefix marks administrator sessions, which have no user document.
const AdminUserIDPrefix = "admin:"

type UserService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req *model.LoginRequest) (*session.Session, error)
	LoginAdmin(ctx context.Context, req *model.AdminLoginRequest) (*session.Session, error)
	GetByStudentID(ctx context.Context, studentID string) (*model.User, error)
}

type userService struct {
	repo      repository.UserRepository
	validator *validator.UserValidator
	cfg       *config.Config
	now       func() time.Time
}

func NewUserService(repo repository.UserRepository, validator *validator.UserValidator, cfg *config.Config) UserService {
	return &userService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
		now:       time.Now,
	}
}

func (s *userService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	req.Name = sanitizer.SanitizeName(req.Name)
	req.StudentID = sanitizer.SanitizeStudentID(req.StudentID)
	req.Email = sanitizer.SanitizeEmail(req.Email)

	if err := s.validator.ValidateRegister(req); err != nil {
		key := locale.KeyRegisterMissingFields
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && !verrs.HasTag("required") && verrs.HasTag("email") {
			key = locale.KeyRegisterInvalidEmail
		}
		return nil, apperrors.Validation("registration validation failed", map[string]any{
			"errors": err,
			"form":   model.FormError{Name: req.Name, StudentID: req.StudentID, Email: req.Email},
		}).WithKey(key)
	}

	user := &model.User{
		StudentID: req.StudentID,
		Name:      req.Name,
		Email:     req.Email,
		CreatedAt: s.now().UTC(),
	}

	if err := s.validator.Validate(user); err != nil {
		return nil, apperrors.Validation("user validation failed", map[string]any{"errors": err}).
			WithKey(locale.KeyRegisterMissingFields)
	}

	// The unique index on student_id still catches concurrent registrations.
	existing, err := s.repo.FindByStudentID(ctx, user.StudentID)
	switch {
	case err == nil && existing != nil:
		return nil, s.duplicate(user.StudentID)
	case err != nil && !errors.Is(err, userserrors.ErrNotFound):
		s.cfg.Log.Error("Failed to look up student ID",
			"student_id", user.StudentID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to look up student ID", err)
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, userserrors.ErrDuplicateStudentID) {
			return nil, s.duplicate(user.StudentID)
		}
		s.cfg.Log.Error("Failed to create user",
			"student_id", user.StudentID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to create user", err)
	}

	s.cfg.Log.Info("User registered",
		"id", user.ID,
		"student_id", user.StudentID,
	)
	return user, nil
}

func (s *userService) duplicate(studentID string) error {
	s.cfg.Log.Warn("Registration refused, student ID already registered",
		"student_id", studentID,
	)
	return apperrors.Conflict("student ID already registered").
		WithKey(locale.KeyRegisterDuplicate).
		WithDetail("form", model.FormError{})
}

// Login admits a registered student whose name matches the stored record exactly.
func (s *userService) Login(ctx context.Context, req *model.LoginRequest) (*session.Session, error) {
	req.Name = sanitizer.SanitizeName(req.Name)
	req.StudentID = sanitizer.SanitizeStudentID(req.StudentID)

	if err := s.validator.ValidateLogin(req); err != nil {
		return nil, apperrors.Validation("login validation failed", map[string]any{
			"form": model.FormError{Name: req.Name, StudentID: req.StudentID},
		}).WithKey(locale.KeyLoginMissingFields)
	}

	user, err := s.repo.FindByStudentID(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.Validation("unknown student ID", map[string]any{
				"form": model.FormError{},
			}).WithKey(locale.KeyLoginUnknownStudent)
		}
		s.cfg.Log.Error("Failed to look up user",
			"student_id", req.StudentID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to look up user", err)
	}

	if user.Name != req.Name {
		s.cfg.Log.Warn("Login refused, name mismatch", "student_id", req.StudentID)
		return nil, apperrors.Validation("name does not match", map[string]any{
			"form": model.FormError{},
		}).WithKey(locale.KeyLoginNameMismatch)
	}

	return &session.Session{
		UserID:    user.ID,
		UserName:  user.Name,
		StudentID: user.StudentID,
		Email:     user.Email,
	}, nil
}

// LoginAdmin checks the configured administrator credential. Login is
// disabled while no password hash is configured.
func (s *userService) LoginAdmin(ctx context.Context, req *model.AdminLoginRequest) (*session.Session, error) {
	if s.cfg.AdminPasswordHash == "" {
		return nil, apperrors.Forbidden("admin login is not configured").WithKey(locale.KeyAdminLoginDisabled)
	}

	req.Username = strings.TrimSpace(req.Username)
	if err := s.validator.ValidateAdminLogin(req); err != nil {
		return nil, apperrors.Validation("admin login validation failed", nil).WithKey(locale.KeyAdminInvalidLogin)
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.cfg.AdminUsername)) == 1
	passErr := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(req.Password))
	if !userOK || passErr != nil {
		s.cfg.Log.Warn("Admin login refused", "username", req.Username)
		return nil, apperrors.Unauthorized("invalid admin credentials").WithKey(locale.KeyAdminInvalidLogin)
	}

	s.cfg.Log.Info("Admin logged in", "username", req.Username)
	return &session.Session{
		UserID:   AdminUserIDPrefix + s.cfg.AdminUsername,
		UserName: s.cfg.AdminUsername,
		IsAdmin:  true,
	}, nil
}

func (s *userService) GetByStudentID(ctx context.Context, studentID string) (*model.User, error) {
	studentID = sanitizer.SanitizeStudentID(studentID)
	if studentID == "" {
		return nil, apperrors.InvalidInput("Student ID cannot be empty")
	}

	user, err := s.repo.FindByStudentID(ctx, studentID)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("User", studentID).WithKey(locale.KeyUserNotFound)
		}
		return nil, apperrors.Internal("Failed to look up user", err)
	}
	return user, nil
}
