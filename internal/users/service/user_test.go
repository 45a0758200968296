package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	userserrors "laptoploan/internal/users/errors"
	"laptoploan/internal/users/validator"
	"laptoploan/pkg/config"
	apperrors "laptoploan/pkg/errors"
	"laptoploan/pkg/locale"
	"laptoploan/pkg/logger"
	"laptoploan/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockUserRepository struct {
	createFunc          func(ctx context.Context, u *model.User) error
	findByIDFunc        func(ctx context.Context, id string) (*model.User, error)
	findByStudentIDFunc func(ctx context.Context, studentID string) (*model.User, error)
}

func (m *mockUserRepository) Create(ctx context.Context, u *model.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, u)
	}
	u.ID = "665f1c2e8b3e4a0012345678"
	return nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, fmt.Errorf("%w: %s", userserrors.ErrNotFound, id)
}

func (m *mockUserRepository) FindByStudentID(ctx context.Context, studentID string) (*model.User, error) {
	if m.findByStudentIDFunc != nil {
		return m.findByStudentIDFunc(ctx, studentID)
	}
	return nil, fmt.Errorf("%w: %s", userserrors.ErrNotFound, studentID)
}

func newTestService(repo *mockUserRepository, cfg *config.Config) UserService {
	if cfg == nil {
		cfg = &config.Config{}
	}
	cfg.Log = logger.Discard()
	return NewUserService(repo, validator.NewUserValidator(), cfg)
}

func requireAppError(t *testing.T, err error, code, key string) *apperrors.AppError {
	t.Helper()
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T", err)
	assert.Equal(t, code, appErr.Code)
	assert.Equal(t, key, appErr.MessageKey)
	return appErr
}

func TestRegister_Success(t *testing.T) {
	var stored *model.User
	repo := &mockUserRepository{
		createFunc: func(ctx context.Context, u *model.User) error {
			stored = u
			u.ID = "665f1c2e8b3e4a0012345678"
			return nil
		},
	}
	svc := newTestService(repo, nil)

	user, err := svc.Register(context.Background(), &model.RegisterRequest{
		Name:      "  홍길동 ",
		StudentID: " s2024-001 ",
		Email:     "Hong@Example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "665f1c2e8b3e4a0012345678", user.ID)
	assert.Equal(t, "홍길동", stored.Name)
	assert.Equal(t, "S2024001", stored.StudentID)
	assert.Equal(t, "hong@example.com", stored.Email)
	assert.False(t, stored.CreatedAt.IsZero())
}

func TestRegister_ValidationKeepsForm(t *testing.T) {
	tests := []struct {
		name    string
		req     model.RegisterRequest
		wantKey string
	}{
		{name: "missing email", req: model.RegisterRequest{Name: "홍길동", StudentID: "S1"}, wantKey: locale.KeyRegisterMissingFields},
		{name: "missing name", req: model.RegisterRequest{StudentID: "S1", Email: "a@b.co"}, wantKey: locale.KeyRegisterMissingFields},
		{name: "invalid email", req: model.RegisterRequest{Name: "홍길동", StudentID: "S1", Email: "nope"}, wantKey: locale.KeyRegisterInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockUserRepository{
				createFunc: func(ctx context.Context, u *model.User) error {
					t.Fatal("Create must not be called")
					return nil
				},
			}
			svc := newTestService(repo, nil)

			_, err := svc.Register(context.Background(), &tt.req)
			appErr := requireAppError(t, err, apperrors.CodeValidation, tt.wantKey)

			form, ok := appErr.Details["form"].(model.FormError)
			require.True(t, ok)
			assert.Equal(t, tt.req.Name, form.Name)
			assert.Equal(t, tt.req.StudentID, form.StudentID)
		})
	}
}

func TestRegister_DuplicateClearsForm(t *testing.T) {
	repo := &mockUserRepository{
		createFunc: func(ctx context.Context, u *model.User) error {
			return fmt.Errorf("%w: %s", userserrors.ErrDuplicateStudentID, u.StudentID)
		},
	}
	svc := newTestService(repo, nil)

	_, err := svc.Register(context.Background(), &model.RegisterRequest{Name: "홍길동", StudentID: "S1", Email: "a@b.co"})
	appErr := requireAppError(t, err, apperrors.CodeConflict, locale.KeyRegisterDuplicate)
	assert.Equal(t, model.FormError{}, appErr.Details["form"])
}

func TestRegister_ExistingStudentRefusedBeforeInsert(t *testing.T) {
	repo := &mockUserRepository{
		findByStudentIDFunc: func(ctx context.Context, studentID string) (*model.User, error) {
			assert.Equal(t, "S1", studentID)
			return &model.User{ID: "665f1c2e8b3e4a0012345678", StudentID: "S1", Name: "김철수"}, nil
		},
		createFunc: func(ctx context.Context, u *model.User) error {
			t.Fatal("Create must not be called for a registered student ID")
			return nil
		},
	}
	svc := newTestService(repo, nil)

	_, err := svc.Register(context.Background(), &model.RegisterRequest{Name: "홍길동", StudentID: "s1", Email: "a@b.co"})
	appErr := requireAppError(t, err, apperrors.CodeConflict, locale.KeyRegisterDuplicate)
	assert.Equal(t, model.FormError{}, appErr.Details["form"])
}

func TestRegister_LookupFailure(t *testing.T) {
	repo := &mockUserRepository{
		findByStudentIDFunc: func(ctx context.Context, studentID string) (*model.User, error) {
			return nil, errors.New("server selection timeout")
		},
		createFunc: func(ctx context.Context, u *model.User) error {
			t.Fatal("Create must not be called when the lookup fails")
			return nil
		},
	}
	svc := newTestService(repo, nil)

	_, err := svc.Register(context.Background(), &model.RegisterRequest{Name: "홍길동", StudentID: "S1", Email: "a@b.co"})
	requireAppError(t, err, apperrors.CodeInternal, "")
}

func TestRegister_StoreFailure(t *testing.T) {
	repo := &mockUserRepository{
		createFunc: func(ctx context.Context, u *model.User) error {
			return errors.New("connection reset")
		},
	}
	svc := newTestService(repo, nil)

	_, err := svc.Register(context.Background(), &model.RegisterRequest{Name: "홍길동", StudentID: "S1", Email: "a@b.co"})
	requireAppError(t, err, apperrors.CodeInternal, "")
}

func TestLogin(t *testing.T) {
	stored := &model.User{ID: "u1", StudentID: "S2024001", Name: "홍길동", Email: "hong@example.com"}
	repo := &mockUserRepository{
		findByStudentIDFunc: func(ctx context.Context, studentID string) (*model.User, error) {
			if studentID == stored.StudentID {
				return stored, nil
			}
			return nil, fmt.Errorf("%w: %s", userserrors.ErrNotFound, studentID)
		},
	}
	svc := newTestService(repo, nil)

	t.Run("success", func(t *testing.T) {
		sess, err := svc.Login(context.Background(), &model.LoginRequest{Name: "홍길동", StudentID: "s2024-001"})
		require.NoError(t, err)
		assert.Equal(t, "u1", sess.UserID)
		assert.Equal(t, "S2024001", sess.StudentID)
		assert.Equal(t, "hong@example.com", sess.Email)
		assert.False(t, sess.IsAdmin)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &model.LoginRequest{Name: "홍길동"})
		appErr := requireAppError(t, err, apperrors.CodeValidation, locale.KeyLoginMissingFields)
		assert.Equal(t, "홍길동", appErr.Details["form"].(model.FormError).Name)
	})

	t.Run("unknown student", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &model.LoginRequest{Name: "홍길동", StudentID: "S999"})
		appErr := requireAppError(t, err, apperrors.CodeValidation, locale.KeyLoginUnknownStudent)
		assert.Equal(t, model.FormError{}, appErr.Details["form"])
	})

	t.Run("name mismatch", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &model.LoginRequest{Name: "김철수", StudentID: "S2024001"})
		requireAppError(t, err, apperrors.CodeValidation, locale.KeyLoginNameMismatch)
	})
}

func TestLoginAdmin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	svc := newTestService(&mockUserRepository{}, &config.Config{
		AdminUsername:     "admin",
		AdminPasswordHash: string(hash),
	})

	t.Run("success", func(t *testing.T) {
		sess, err := svc.LoginAdmin(context.Background(), &model.AdminLoginRequest{Username: " admin ", Password: "s3cret"})
		require.NoError(t, err)
		assert.True(t, sess.IsAdmin)
		assert.Equal(t, "admin:admin", sess.UserID)
		assert.Empty(t, sess.StudentID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.LoginAdmin(context.Background(), &model.AdminLoginRequest{Username: "admin", Password: "guess"})
		requireAppError(t, err, apperrors.CodeUnauthorized, locale.KeyAdminInvalidLogin)
	})

	t.Run("wrong username", func(t *testing.T) {
		_, err := svc.LoginAdmin(context.Background(), &model.AdminLoginRequest{Username: "root", Password: "s3cret"})
		requireAppError(t, err, apperrors.CodeUnauthorized, locale.KeyAdminInvalidLogin)
	})

	t.Run("missing password", func(t *testing.T) {
		_, err := svc.LoginAdmin(context.Background(), &model.AdminLoginRequest{Username: "admin"})
		requireAppError(t, err, apperrors.CodeValidation, locale.KeyAdminInvalidLogin)
	})
}

func TestLoginAdmin_Disabled(t *testing.T) {
	svc := newTestService(&mockUserRepository{}, &config.Config{AdminUsername: "admin"})

	_, err := svc.LoginAdmin(context.Background(), &model.AdminLoginRequest{Username: "admin", Password: "anything"})
	requireAppError(t, err, apperrors.CodeForbidden, locale.KeyAdminLoginDisabled)
}

func TestGetByStudentID(t *testing.T) {
	svc := newTestService(&mockUserRepository{}, nil)

	_, err := svc.GetByStudentID(context.Background(), "  ")
	requireAppError(t, err, apperrors.CodeInvalidInput, "")

	_, err = svc.GetByStudentID(context.Background(), "S404")
	requireAppError(t, err, apperrors.CodeNotFound, locale.KeyUserNotFound)
}
