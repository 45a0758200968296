package validator

import (
	"errors"
	"strings"
	"testing"

	"laptoploan/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRegister(t *testing.T) {
	v := NewUserValidator()

	tests := []struct {
		name    string
		req     model.RegisterRequest
		wantTag string
		field   string
	}{
		{name: "valid", req: model.RegisterRequest{Name: "홍길동", StudentID: "S1", Email: "hong@example.com"}},
		{name: "missing name", req: model.RegisterRequest{StudentID: "S1", Email: "hong@example.com"}, wantTag: "required", field: "name"},
		{name: "missing email", req: model.RegisterRequest{Name: "홍길동", StudentID: "S1"}, wantTag: "required", field: "email"},
		{name: "bad email", req: model.RegisterRequest{Name: "홍길동", StudentID: "S1", Email: "not-an-email"}, wantTag: "email", field: "email"},
		{name: "long student id", req: model.RegisterRequest{Name: "홍길동", StudentID: strings.Repeat("1", 33), Email: "hong@example.com"}, wantTag: "max", field: "student_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateRegister(&tt.req)
			if tt.wantTag == "" {
				assert.NoError(t, err)
				return
			}

			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs))
			assert.True(t, verrs.HasTag(tt.wantTag))
			assert.Equal(t, tt.field, verrs[0].Field)
		})
	}
}

func TestValidateLogin(t *testing.T) {
	v := NewUserValidator()

	assert.NoError(t, v.ValidateLogin(&model.LoginRequest{Name: "홍길동", StudentID: "S1"}))
	assert.Error(t, v.ValidateLogin(&model.LoginRequest{Name: "홍길동"}))
	assert.Error(t, v.ValidateAdminLogin(&model.AdminLoginRequest{Username: "admin"}))
}

func TestValidate_User(t *testing.T) {
	v := NewUserValidator()

	assert.NoError(t, v.Validate(&model.User{StudentID: "S1", Name: "홍길동", Email: "hong@example.com"}))
	assert.Error(t, v.Validate(&model.User{ID: "nope", StudentID: "S1", Name: "홍길동", Email: "hong@example.com"}))
}
