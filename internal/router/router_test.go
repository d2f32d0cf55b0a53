package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"facility-security-api/internal/config"
	"facility-security-api/internal/handler"
	"facility-security-api/internal/middleware"
	"facility-security-api/internal/model"
	"facility-security-api/internal/repository/repofake"
	"facility-security-api/internal/service"
)

type fixture struct {
	server *httptest.Server
	users  *repofake.Users
	tokens *repofake.Ledger
	hasher *service.PasswordHasher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tokens := repofake.NewLedger()
	users := repofake.NewUsers(tokens)
	resources := repofake.NewResources()
	areas := repofake.NewAreas()
	logs := repofake.NewAccessLogs()

	hasher := service.NewPasswordHasher(bcrypt.MinCost)
	signer := service.NewTokenSigner("test-secret", 15*time.Minute)

	authService := service.NewAuthService(users, tokens, hasher, signer, 7*24*time.Hour)
	require.NoError(t, service.SeedAdmin(context.Background(), users, hasher, "admin123"))

	cfg := &config.Config{
		ServerPort:       "8080",
		RequestTimeout:   30 * time.Second,
		JWTSecret:        "test-secret",
		JWTAccessTTL:     15 * time.Minute,
		RefreshTokenTTL:  7 * 24 * time.Hour,
		BcryptCost:       bcrypt.MinCost,
		CORSOrigins:      []string{"*"},
		RateLimitRPM:     10000,
		AuthRateLimitRPM: 10000,
	}

	guard := middleware.NewAuthMiddleware(authService)
	h := Handlers{
		Auth:      handler.NewAuthHandler(authService),
		User:      handler.NewUserHandler(service.NewUserService(users, areas, hasher)),
		Resource:  handler.NewResourceHandler(service.NewResourceService(resources)),
		Area:      handler.NewAreaHandler(service.NewAreaService(areas, users)),
		AccessLog: handler.NewAccessLogHandler(service.NewAccessLogService(logs, users, areas)),
		Dashboard: handler.NewDashboardHandler(service.NewDashboardService(&repofake.Stats{
			UsersStore:     users,
			ResourcesStore: resources,
			AreasStore:     areas,
			LogsStore:      logs,
		})),
	}

	server := httptest.NewServer(New(cfg, guard, h))
	t.Cleanup(server.Close)

	return &fixture{server: server, users: users, tokens: tokens, hasher: hasher}
}

func (f *fixture) login(t *testing.T, username string, password string) (model.TokenPair, *http.Response) {
	t.Helper()

	form := url.Values{"username": {username}, "password": {password}}
	resp, err := http.Post(f.server.URL+"/token", "application/x-www-form-urlencoded",
		strings.NewReader(form.Encode()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var pair model.TokenPair
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&pair))
	}
	return pair, resp
}

func (f *fixture) do(t *testing.T, method string, path string, body any, accessToken string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, f.server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func (f *fixture) createUser(t *testing.T, adminToken string, username string, role string) model.UserProfile {
	t.Helper()

	resp := f.do(t, http.MethodPost, "/users/", model.CreateUserRequest{
		Username: username,
		Email:    username + "@wayne.com",
		Password: "Password123!",
		Role:     role,
	}, adminToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var profile model.UserProfile
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&profile))
	return profile
}

func TestSeededAdminSessionLifecycle(t *testing.T) {
	f := newFixture(t)

	// Login with the seeded account returns both tokens.
	pair, resp := f.login(t, "admin", "admin123")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.Equal(t, "bearer", pair.TokenType)

	// Refreshing yields a new pair.
	refreshResp := f.do(t, http.MethodPost, "/refresh-token", model.RefreshRequest{RefreshToken: pair.RefreshToken}, "")
	require.Equal(t, http.StatusOK, refreshResp.StatusCode)
	var rotated model.TokenPair
	require.NoError(t, json.NewDecoder(refreshResp.Body).Decode(&rotated))
	require.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// Replaying the consumed refresh token is rejected.
	replayResp := f.do(t, http.MethodPost, "/refresh-token", model.RefreshRequest{RefreshToken: pair.RefreshToken}, "")
	require.Equal(t, http.StatusUnauthorized, replayResp.StatusCode)

	// Logout with the new token succeeds once.
	logoutResp := f.do(t, http.MethodPost, "/logout", model.RefreshRequest{RefreshToken: rotated.RefreshToken}, "")
	require.Equal(t, http.StatusOK, logoutResp.StatusCode)
	var ok model.OKResponse
	require.NoError(t, json.NewDecoder(logoutResp.Body).Decode(&ok))
	require.True(t, ok.OK)

	// The logged-out token cannot be refreshed.
	deadResp := f.do(t, http.MethodPost, "/refresh-token", model.RefreshRequest{RefreshToken: rotated.RefreshToken}, "")
	require.Equal(t, http.StatusUnauthorized, deadResp.StatusCode)
}

func TestLoginRejectsBadCredentialsWithoutMintingTokens(t *testing.T) {
	f := newFixture(t)

	before := f.tokens.Count()
	_, resp := f.login(t, "admin", "wrong-password")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, before, f.tokens.Count())
}

func TestRefreshRequiresTokenField(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, http.MethodPost, "/refresh-token", map[string]string{}, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLogoutUnknownTokenIs404(t *testing.T) {
	f := newFixture(t)

	resp := f.do(t, http.MethodPost, "/logout", model.RefreshRequest{RefreshToken: uuid.NewString()}, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWhoAmI(t *testing.T) {
	f := newFixture(t)
	pair, _ := f.login(t, "admin", "admin123")

	resp := f.do(t, http.MethodGet, "/users/me", nil, pair.AccessToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var profile model.UserProfile
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&profile))
	require.Equal(t, "admin", profile.Username)
	require.Equal(t, model.RoleSecurityAdmin, profile.Role)

	noAuth := f.do(t, http.MethodGet, "/users/me", nil, "")
	require.Equal(t, http.StatusUnauthorized, noAuth.StatusCode)
}

func TestRoleEnforcementIsExact(t *testing.T) {
	f := newFixture(t)
	adminPair, _ := f.login(t, "admin", "admin123")

	f.createUser(t, adminPair.AccessToken, "worker", model.RoleEmployee)
	f.createUser(t, adminPair.AccessToken, "boss", model.RoleManager)

	workerPair, resp := f.login(t, "worker", "Password123!")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	bossPair, resp := f.login(t, "boss", "Password123!")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	newResource := model.CreateResourceRequest{Name: "Batmobile", Type: model.ResourceTypeVehicle}

	// Employee may read but never mutate resources; the failure is 403, not 404.
	readResp := f.do(t, http.MethodGet, "/resources/", nil, workerPair.AccessToken)
	require.Equal(t, http.StatusOK, readResp.StatusCode)
	forbidden := f.do(t, http.MethodPost, "/resources/", newResource, workerPair.AccessToken)
	require.Equal(t, http.StatusForbidden, forbidden.StatusCode)

	// Manager mutates resources but does not inherit admin routes.
	created := f.do(t, http.MethodPost, "/resources/", newResource, bossPair.AccessToken)
	require.Equal(t, http.StatusCreated, created.StatusCode)
	adminOnly := f.do(t, http.MethodGet, "/users/", nil, bossPair.AccessToken)
	require.Equal(t, http.StatusForbidden, adminOnly.StatusCode)

	// security_admin does not inherit the manager-only mutation either.
	adminMutate := f.do(t, http.MethodPost, "/resources/", newResource, adminPair.AccessToken)
	require.Equal(t, http.StatusForbidden, adminMutate.StatusCode)
}

func TestDeactivatedUserIsRejectedDespiteValidToken(t *testing.T) {
	f := newFixture(t)
	adminPair, _ := f.login(t, "admin", "admin123")

	profile := f.createUser(t, adminPair.AccessToken, "gordon", model.RoleEmployee)
	gordonPair, resp := f.login(t, "gordon", "Password123!")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	inactive := false
	updateResp := f.do(t, http.MethodPut, "/users/"+profile.ID, model.UpdateUserRequest{IsActive: &inactive}, adminPair.AccessToken)
	require.Equal(t, http.StatusOK, updateResp.StatusCode)

	// The unexpired signed token no longer gets through the guard.
	meResp := f.do(t, http.MethodGet, "/users/me", nil, gordonPair.AccessToken)
	require.Equal(t, http.StatusUnauthorized, meResp.StatusCode)
}

func TestUserAdministration(t *testing.T) {
	f := newFixture(t)
	adminPair, _ := f.login(t, "admin", "admin123")

	profile := f.createUser(t, adminPair.AccessToken, "selina", model.RoleEmployee)

	// Duplicate username conflicts.
	dup := f.do(t, http.MethodPost, "/users/", model.CreateUserRequest{
		Username: "selina",
		Email:    "other@wayne.com",
		Password: "Password123!",
	}, adminPair.AccessToken)
	require.Equal(t, http.StatusConflict, dup.StatusCode)

	// Unknown role is a validation error.
	badRole := f.do(t, http.MethodPost, "/users/", model.CreateUserRequest{
		Username: "harvey",
		Email:    "harvey@wayne.com",
		Password: "Password123!",
		Role:     "overlord",
	}, adminPair.AccessToken)
	require.Equal(t, http.StatusBadRequest, badRole.StatusCode)

	// Admins cannot delete their own account.
	me := f.do(t, http.MethodGet, "/users/me", nil, adminPair.AccessToken)
	var adminProfile model.UserProfile
	require.NoError(t, json.NewDecoder(me.Body).Decode(&adminProfile))
	selfDelete := f.do(t, http.MethodDelete, "/users/"+adminProfile.ID, nil, adminPair.AccessToken)
	require.Equal(t, http.StatusBadRequest, selfDelete.StatusCode)

	// Deleting another user works and kills their sessions.
	selinaPair, resp := f.login(t, "selina", "Password123!")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	deleteResp := f.do(t, http.MethodDelete, "/users/"+profile.ID, nil, adminPair.AccessToken)
	require.Equal(t, http.StatusOK, deleteResp.StatusCode)

	refreshResp := f.do(t, http.MethodPost, "/refresh-token", model.RefreshRequest{RefreshToken: selinaPair.RefreshToken}, "")
	require.Equal(t, http.StatusUnauthorized, refreshResp.StatusCode)
}

func TestAreaAccessAndLogs(t *testing.T) {
	f := newFixture(t)
	adminPair, _ := f.login(t, "admin", "admin123")

	worker := f.createUser(t, adminPair.AccessToken, "robin", model.RoleEmployee)

	areaResp := f.do(t, http.MethodPost, "/restricted-areas/", model.CreateAreaRequest{
		Name:          "Batcave",
		Description:   "below the manor",
		SecurityLevel: 5,
	}, adminPair.AccessToken)
	require.Equal(t, http.StatusCreated, areaResp.StatusCode)
	var area model.RestrictedArea
	require.NoError(t, json.NewDecoder(areaResp.Body).Decode(&area))

	grant := f.do(t, http.MethodPost, "/restricted-areas/"+area.ID+"/grant-access/"+worker.ID, nil, adminPair.AccessToken)
	require.Equal(t, http.StatusOK, grant.StatusCode)

	areasResp := f.do(t, http.MethodGet, "/users/"+worker.ID+"/areas", nil, adminPair.AccessToken)
	require.Equal(t, http.StatusOK, areasResp.StatusCode)
	var membership map[string][]string
	require.NoError(t, json.NewDecoder(areasResp.Body).Decode(&membership))
	require.Equal(t, []string{area.ID}, membership["area_ids"])

	logResp := f.do(t, http.MethodPost, "/access-logs/", model.CreateAccessLogRequest{
		UserID: worker.ID,
		AreaID: area.ID,
		Status: model.AccessStatusGranted,
	}, adminPair.AccessToken)
	require.Equal(t, http.StatusCreated, logResp.StatusCode)

	badStatus := f.do(t, http.MethodPost, "/access-logs/", model.CreateAccessLogRequest{
		UserID: worker.ID,
		AreaID: area.ID,
		Status: "teleported",
	}, adminPair.AccessToken)
	require.Equal(t, http.StatusBadRequest, badStatus.StatusCode)

	revoke := f.do(t, http.MethodPost, "/restricted-areas/"+area.ID+"/revoke-access/"+worker.ID, nil, adminPair.AccessToken)
	require.Equal(t, http.StatusOK, revoke.StatusCode)

	statsResp := f.do(t, http.MethodGet, "/dashboard/stats", nil, adminPair.AccessToken)
	require.Equal(t, http.StatusOK, statsResp.StatusCode)
	var stats model.DashboardStats
	require.NoError(t, json.NewDecoder(statsResp.Body).Decode(&stats))
	require.Equal(t, 2, stats.TotalUsers)
	require.Equal(t, 1, stats.TotalAreas)
	require.Equal(t, 1, stats.AccessGranted)
	require.Equal(t, 0, stats.AccessDenied)
}

func TestUnknownResourceIs404NotLeakedAs403(t *testing.T) {
	f := newFixture(t)
	adminPair, _ := f.login(t, "admin", "admin123")

	resp := f.do(t, http.MethodGet, "/resources/"+uuid.NewString(), nil, adminPair.AccessToken)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthNeedsNoAuth(t *testing.T) {
	f := newFixture(t)

	resp, err := http.Get(f.server.URL + "/health")
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
