package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/siakad-go-api/internal/dto"
	"github.com/noah-isme/siakad-go-api/internal/handler"
	"github.com/noah-isme/siakad-go-api/internal/service"
)

type mockSeedService struct {
	err       error
	lastToken string
	lastReq   dto.SeedReferenceRequest
}

func (m *mockSeedService) SeedReference(_ context.Context, token string, req dto.SeedReferenceRequest) (dto.SeedReferenceResponse, error) {
	m.lastToken = token
	m.lastReq = req
	if m.err != nil {
		return dto.SeedReferenceResponse{}, m.err
	}
	return dto.SeedReferenceResponse{Subjects: int64(len(req.Subjects)), Classes: int64(len(req.Classes)), Students: int64(len(req.Students))}, nil
}

func seedRequest(t *testing.T, app *fiber.App, token string) *http.Response {
	t.Helper()
	req := `{"subjects":[{"code":"mtk","name":"Matematika"}],"classes":[{"name":"X IPA 1","grade_level":10}]}`
	httpReq := newJSONRequest(http.MethodPost, "/api/v1/seed/reference", req)
	httpReq.Header.Set(handler.HeaderSeedToken, token)
	resp, err := app.Test(httpReq)
	require.NoError(t, err)
	return resp
}

func TestSeedHandlerPassesToken(t *testing.T) {
	svc := &mockSeedService{}
	app := fiber.New()
	handler.NewSeedHandler(svc, testValidator, testLogger).Register(app.Group("/api/v1/seed"))

	resp := seedRequest(t, app, "secret")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "secret", svc.lastToken)
	require.Len(t, svc.lastReq.Subjects, 1)
	require.Equal(t, "mtk", svc.lastReq.Subjects[0].Code)
}

func TestSeedHandlerErrors(t *testing.T) {
	cases := map[error]int{
		service.ErrSeedDisabled:     fiber.StatusForbidden,
		service.ErrSeedUnauthorized: fiber.StatusUnauthorized,
		service.ErrSeedUnknownClass: fiber.StatusBadRequest,
	}

	for seedErr, status := range cases {
		svc := &mockSeedService{err: seedErr}
		app := fiber.New()
		handler.NewSeedHandler(svc, testValidator, testLogger).Register(app.Group("/api/v1/seed"))

		resp := seedRequest(t, app, "wrong")
		require.Equal(t, status, resp.StatusCode, seedErr.Error())
	}
}
