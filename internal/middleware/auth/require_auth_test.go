package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/Skotchmaster/shop_api/internal/service"
)

type fakeResolver struct {
	users map[string]*models.User
	err   error
}

func (f fakeResolver) CurrentUser(_ context.Context, token string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.users[token]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("unknown token: %w", service.ErrUnauthenticated)
}

func run(t *testing.T, mw *BearerAuth, header string) (*httptest.ResponseRecorder, *models.User, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen *models.User
	err := mw.RequireAuth(func(c echo.Context) error {
		seen, _ = UserFrom(c)
		return c.NoContent(http.StatusOK)
	})(c)
	return rec, seen, err
}

func TestRequireAuth(t *testing.T) {
	alice := &models.User{ID: 7, Username: "alice", Email: "a@x.com"}
	mw := NewBearerAuth(fakeResolver{users: map[string]*models.User{"good": alice}})

	rec, seen, err := run(t, mw, "Bearer good")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, alice, seen)

	for _, header := range []string{"", "Bearer", "Basic good", "Bearer bad"} {
		rec, seen, err := run(t, mw, header)
		var he *echo.HTTPError
		require.True(t, errors.As(err, &he), header)
		assert.Equal(t, http.StatusUnauthorized, he.Code, header)
		assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
		assert.Nil(t, seen)
	}
}

func TestRequireAuth_StoreFailure(t *testing.T) {
	mw := NewBearerAuth(fakeResolver{err: errors.New("db down")})

	_, _, err := run(t, mw, "Bearer good")
	var he *echo.HTTPError
	require.True(t, errors.As(err, &he))
	assert.Equal(t, http.StatusInternalServerError, he.Code)
}
