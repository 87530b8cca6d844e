package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/siakad-go-api/internal/dto"
	"github.com/noah-isme/siakad-go-api/internal/repository"
	"github.com/noah-isme/siakad-go-api/internal/validation"
)

func newAuthService(t *testing.T) (AuthService, fixture, *memoryActivityRepo) {
	t.Helper()
	db := setupServiceDB(t)
	f := seedFixture(t, db)
	validate := validation.New()
	activityRepo := &memoryActivityRepo{}

	svc := NewAuthService(repository.NewTeacherRepository(db), NewActivityService(activityRepo, validate, testLogger()), validate, "test-secret", time.Hour, testLogger())
	svc.(*authService).cost = bcrypt.MinCost
	return svc, f, activityRepo
}

func TestAuthRegisterIssuesToken(t *testing.T) {
	svc, f, activity := newAuthService(t)

	resp, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name:            "Pak Budi",
		Email:           "Budi@Sekolah.ID",
		Password:        "rahasia",
		ConfirmPassword: "rahasia",
		SubjectIDs:      []uint{f.math.ID, f.biology.ID},
	})
	require.NoError(t, err)
	require.Equal(t, "Bearer", resp.TokenType)
	require.Equal(t, "budi@sekolah.id", resp.Teacher.Email)
	require.Len(t, resp.Teacher.Subjects, 2)

	claims := &TeacherClaims{}
	token, err := jwt.ParseWithClaims(resp.Token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)
	require.Equal(t, "teacher", claims.Role)
	require.Equal(t, "budi@sekolah.id", claims.Email)
	require.NotEmpty(t, claims.Subject)

	require.Len(t, activity.entries, 1)
	require.Equal(t, ActionTeacherRegistered, activity.entries[0].Action)
	require.Equal(t, "***", activity.entries[0].Metadata["email"])

	_, err = svc.Register(context.Background(), dto.RegisterRequest{
		Name: "Pak Budi", Email: "budi@sekolah.id", Password: "rahasia", ConfirmPassword: "rahasia", SubjectIDs: []uint{f.math.ID},
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthRegisterValidation(t *testing.T) {
	svc, f, _ := newAuthService(t)
	validate := validation.New()

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name: "Bu Ani", Email: "ani@sekolah.id", Password: "12345", ConfirmPassword: "12345", SubjectIDs: []uint{f.math.ID},
	})
	require.Contains(t, validate.Details(err), "password")

	_, err = svc.Register(context.Background(), dto.RegisterRequest{
		Name: "Bu Ani", Email: "ani@sekolah.id", Password: "123456", ConfirmPassword: "654321", SubjectIDs: []uint{f.math.ID},
	})
	require.Contains(t, validate.Details(err), "confirm_password")

	_, err = svc.Register(context.Background(), dto.RegisterRequest{
		Name: "Bu Ani", Email: "ani@sekolah.id", Password: "123456", ConfirmPassword: "123456",
	})
	require.Contains(t, validate.Details(err), "subject_ids")

	_, err = svc.Register(context.Background(), dto.RegisterRequest{
		Name: "Bu Ani", Email: "ani@sekolah.id", Password: "123456", ConfirmPassword: "123456", SubjectIDs: []uint{999},
	})
	require.ErrorIs(t, err, ErrUnknownSubject)
}

func TestAuthLoginAndChangePassword(t *testing.T) {
	svc, f, activity := newAuthService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, dto.RegisterRequest{
		Name: "Bu Ani", Email: "ani@sekolah.id", Password: "123456", ConfirmPassword: "123456", SubjectIDs: []uint{f.math.ID},
	})
	require.NoError(t, err)
	teacherID := registered.Teacher.ID

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "ani@sekolah.id", Password: "salah123"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "tidakada@sekolah.id", Password: "123456"})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	logged, err := svc.Login(ctx, dto.LoginRequest{Email: "ANI@sekolah.id", Password: "123456"})
	require.NoError(t, err)
	require.Equal(t, teacherID, logged.Teacher.ID)

	err = svc.ChangePassword(ctx, teacherID, dto.ChangePasswordRequest{CurrentPassword: "salah", NewPassword: "abcdef", ConfirmPassword: "abcdef"})
	require.ErrorIs(t, err, ErrWrongPassword)

	err = svc.ChangePassword(ctx, teacherID, dto.ChangePasswordRequest{CurrentPassword: "123456", NewPassword: "abcdef", ConfirmPassword: "abcdeg"})
	require.Error(t, err)

	require.NoError(t, svc.ChangePassword(ctx, teacherID, dto.ChangePasswordRequest{CurrentPassword: "123456", NewPassword: "abcdef", ConfirmPassword: "abcdef"}))
	require.Equal(t, ActionPasswordChanged, activity.entries[len(activity.entries)-1].Action)

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "ani@sekolah.id", Password: "123456"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, dto.LoginRequest{Email: "ani@sekolah.id", Password: "abcdef"})
	require.NoError(t, err)

	profile, err := svc.Profile(ctx, teacherID)
	require.NoError(t, err)
	require.Equal(t, "Bu Ani", profile.Name)
	require.Equal(t, "Matematika", profile.Subjects[0].Name)

	_, err = svc.Profile(ctx, 9999)
	require.ErrorIs(t, err, ErrTeacherNotFound)
}
