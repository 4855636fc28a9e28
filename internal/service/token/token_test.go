package token

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/necohost/pos/internal/config"
	"github.com/necohost/pos/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))
	return db
}

func TestValidateRefresh(t *testing.T) {
	db := newTestDB(t)
	secret := []byte("test-refresh-secret")

	raw, err := SignRefreshToken(1, "staff", secret)
	require.NoError(t, err)
	require.NoError(t, SaveRefreshToken(db, raw, 1))

	claims, err := ValidateRefresh(raw, secret, db)
	require.NoError(t, err)
	require.Equal(t, "staff", claims["role"])
	require.Equal(t, float64(1), claims["sub"])
}

func TestValidateRefreshRejectsAccessToken(t *testing.T) {
	db := newTestDB(t)
	secret := []byte("test-secret")

	raw, err := SignAccessToken(1, "staff", secret)
	require.NoError(t, err)

	_, err = ValidateRefresh(raw, secret, db)
	require.Error(t, err)
}

func TestValidateRefreshRejectsRevoked(t *testing.T) {
	db := newTestDB(t)
	secret := []byte("test-refresh-secret")

	raw, err := SignRefreshToken(1, "staff", secret)
	require.NoError(t, err)
	require.NoError(t, SaveRefreshToken(db, raw, 1))
	require.NoError(t, db.Model(&models.RefreshToken{}).
		Where("token = ?", raw).
		Update("revoked", true).Error)

	_, err = ValidateRefresh(raw, secret, db)
	require.ErrorContains(t, err, "revoked")
}

func TestValidateRefreshRejectsUnknownToken(t *testing.T) {
	db := newTestDB(t)
	secret := []byte("test-refresh-secret")

	raw, err := SignRefreshToken(1, "staff", secret)
	require.NoError(t, err)

	_, err = ValidateRefresh(raw, secret, db)
	require.ErrorContains(t, err, "not found")
}

func TestRotateTokenIssuesFreshPair(t *testing.T) {
	db := newTestDB(t)
	svc := &TokenService{
		DB:            db,
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}

	raw, err := SignRefreshToken(7, "admin", svc.RefreshSecret)
	require.NoError(t, err)
	require.NoError(t, SaveRefreshToken(db, raw, 7))

	access, refresh, claims, err := svc.RotateToken(raw)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	require.Equal(t, "admin", claims["role"])

	// the new refresh token is stored and itself valid
	_, err = ValidateRefresh(refresh, svc.RefreshSecret, db)
	require.NoError(t, err)
}

func requestWithAccessCookie(t *testing.T, svc *TokenService, userID uint, role string) (echo.Context, *httptest.ResponseRecorder) {
	access, err := SignAccessToken(userID, role, svc.JWTSecret)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(CreateCookie("accessToken", access, "/", time.Now().Add(AccessTTL)))
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAutoRefreshMiddlewareAdminRejectsStaff(t *testing.T) {
	svc := &TokenService{
		DB:            newTestDB(t),
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	c, _ := requestWithAccessCookie(t, svc, 1, "staff")
	err := svc.AutoRefreshMiddlewareAdmin(next)(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusForbidden, httpErr.Code)

	c, rec := requestWithAccessCookie(t, svc, 2, "admin")
	require.NoError(t, svc.AutoRefreshMiddlewareAdmin(next)(c))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAutoRefreshMiddlewareRequiresCookies(t *testing.T) {
	svc := &TokenService{
		DB:            newTestDB(t),
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := svc.AutoRefreshMiddleware(next)(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusUnauthorized, httpErr.Code)
}
