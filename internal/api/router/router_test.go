package router

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splitledger/splitledger/internal/api/handlers"
	"github.com/splitledger/splitledger/internal/api/middleware"
	"github.com/splitledger/splitledger/internal/auth"
	"github.com/splitledger/splitledger/internal/service"
	"github.com/splitledger/splitledger/internal/storage/sqlite"
)

type testServer struct {
	*httptest.Server
	t *testing.T
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store)

	groups := service.NewGroupService(store, logger)
	mux := New(Config{
		Logger:            logger,
		AllowedOrigins:    []string{"http://localhost:3000"},
		AuthHandler:       handlers.NewAuthHandler(authenticator, jwtManager, store),
		GroupHandler:      handlers.NewGroupHandler(groups),
		ExpenseHandler:    handlers.NewExpenseHandler(service.NewExpenseService(store, groups, logger)),
		SettlementHandler: handlers.NewSettlementHandler(service.NewSettlementService(store, groups, logger)),
		BalanceHandler:    handlers.NewBalanceHandler(service.NewBalanceService(store, groups, logger)),
		AuthMiddleware:    middleware.Auth(jwtManager),
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return &testServer{Server: srv, t: t}
}

func (s *testServer) request(method, path, token string, body interface{}) (int, map[string]interface{}) {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.URL+path, &buf)
	require.NoError(s.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	if len(raw) > 0 {
		require.NoError(s.t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp.StatusCode, decoded
}

func (s *testServer) registerUser(email, name string) (token, userID string) {
	s.t.Helper()
	status, body := s.request(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":        email,
		"display_name": name,
		"password":     "correct-horse",
	})
	require.Equal(s.t, http.StatusCreated, status, "register %s: %v", email, body)
	user := body["user"].(map[string]interface{})
	return body["token"].(string), user["id"].(string)
}

func errorCode(body map[string]interface{}) string {
	errObj, _ := body["error"].(map[string]interface{})
	code, _ := errObj["code"].(string)
	return code
}

func TestAuthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	t.Run("register then login", func(t *testing.T) {
		srv.registerUser("alice@example.com", "Alice")

		status, body := srv.request(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "correct-horse",
		})
		require.Equal(t, http.StatusOK, status)
		assert.NotEmpty(t, body["token"])
	})

	t.Run("wrong password is 401", func(t *testing.T) {
		status, body := srv.request(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "wrong-password",
		})
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "UNAUTHORIZED", errorCode(body))
	})

	t.Run("duplicate registration is 409", func(t *testing.T) {
		status, body := srv.request(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
			"email":        "alice@example.com",
			"display_name": "Clone",
			"password":     "correct-horse",
		})
		assert.Equal(t, http.StatusConflict, status)
		assert.Equal(t, "EMAIL_EXISTS", errorCode(body))
	})

	t.Run("protected routes need a token", func(t *testing.T) {
		status, _ := srv.request(http.MethodGet, "/api/v1/groups", "", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("me returns the authenticated user", func(t *testing.T) {
		token, userID := srv.registerUser("dana@example.com", "Dana")
		status, body := srv.request(http.MethodGet, "/api/v1/auth/me", token, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, userID, body["id"])
		assert.Equal(t, "dana@example.com", body["email"])
	})
}

func TestExpenseFlow(t *testing.T) {
	srv := newTestServer(t)

	aliceToken, aliceID := srv.registerUser("alice@example.com", "Alice")
	bobToken, bobID := srv.registerUser("bob@example.com", "Bob")
	_, carolID := srv.registerUser("carol@example.com", "Carol")

	status, body := srv.request(http.MethodPost, "/api/v1/groups", aliceToken, map[string]string{"name": "Ski Trip"})
	require.Equal(t, http.StatusCreated, status)
	groupID := body["id"].(string)

	for _, email := range []string{"bob@example.com", "carol@example.com"} {
		status, _ = srv.request(http.MethodPost, "/api/v1/groups/"+groupID+"/members", aliceToken, map[string]string{"email": email})
		require.Equal(t, http.StatusOK, status)
	}

	t.Run("equal expense splits with remainder to payer", func(t *testing.T) {
		status, body := srv.request(http.MethodPost, "/api/v1/groups/"+groupID+"/expenses", aliceToken, map[string]interface{}{
			"payer_id":    aliceID,
			"description": "Dinner",
			"amount":      "10.00",
			"split_mode":  "equal",
		})
		require.Equal(t, http.StatusCreated, status, "body: %v", body)

		splits := body["splits"].([]interface{})
		require.Len(t, splits, 3)
		shares := map[string]string{}
		for _, raw := range splits {
			sp := raw.(map[string]interface{})
			shares[sp["user_id"].(string)] = sp["amount"].(string)
		}
		assert.Equal(t, "3.34", shares[aliceID])
		assert.Equal(t, "3.33", shares[bobID])
		assert.Equal(t, "3.33", shares[carolID])
	})

	t.Run("split sum mismatch is 422", func(t *testing.T) {
		status, body := srv.request(http.MethodPost, "/api/v1/groups/"+groupID+"/expenses", aliceToken, map[string]interface{}{
			"payer_id":    aliceID,
			"description": "Lunch",
			"amount":      "10.00",
			"split_mode":  "custom",
			"splits": []map[string]string{
				{"user_id": aliceID, "amount": "5.00"},
				{"user_id": bobID, "amount": "5.01"},
			},
		})
		assert.Equal(t, http.StatusUnprocessableEntity, status)
		assert.Equal(t, "SPLIT_SUM_MISMATCH", errorCode(body))
	})

	t.Run("splits sent for equal mode is 400", func(t *testing.T) {
		status, body := srv.request(http.MethodPost, "/api/v1/groups/"+groupID+"/expenses", aliceToken, map[string]interface{}{
			"payer_id":    aliceID,
			"description": "Lunch",
			"amount":      "10.00",
			"split_mode":  "equal",
			"splits": []map[string]string{
				{"user_id": aliceID, "amount": "10.00"},
			},
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "SPLITS_SENT_FOR_EQUAL_MODE", errorCode(body))
	})

	t.Run("non-numeric amount is 400", func(t *testing.T) {
		status, body := srv.request(http.MethodPost, "/api/v1/groups/"+groupID+"/expenses", aliceToken, map[string]interface{}{
			"payer_id":    aliceID,
			"description": "Lunch",
			"amount":      "ten dollars",
			"split_mode":  "equal",
		})
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "VALIDATION_ERROR", errorCode(body))
	})

	t.Run("settlement with overpayment warning", func(t *testing.T) {
		status, body := srv.request(http.MethodPost, "/api/v1/groups/"+groupID+"/settlements", bobToken, map[string]interface{}{
			"payer_id": bobID,
			"payee_id": aliceID,
			"amount":   "50.00",
		})
		require.Equal(t, http.StatusCreated, status, "body: %v", body)

		warnings := body["warnings"].([]interface{})
		require.Len(t, warnings, 1)
		warning := warnings[0].(map[string]interface{})
		assert.Equal(t, "OVERPAYMENT", warning["code"])
	})

	t.Run("balances report", func(t *testing.T) {
		status, body := srv.request(http.MethodGet, "/api/v1/groups/"+groupID+"/balances", bobToken, nil)
		require.Equal(t, http.StatusOK, status)
		assert.Len(t, body["balances"].([]interface{}), 3)
		assert.NotNil(t, body["suggested_transfers"])
	})

	t.Run("outsider is forbidden", func(t *testing.T) {
		eveToken, _ := srv.registerUser("eve@example.com", "Eve")
		status, body := srv.request(http.MethodGet, "/api/v1/groups/"+groupID+"/expenses", eveToken, nil)
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "FORBIDDEN", errorCode(body))
	})

	t.Run("expense list filters by category", func(t *testing.T) {
		status, _ := srv.request(http.MethodPost, "/api/v1/groups/"+groupID+"/expenses", aliceToken, map[string]interface{}{
			"payer_id":    aliceID,
			"description": "Lift tickets",
			"amount":      "90.00",
			"split_mode":  "equal",
			"category":    "activities",
		})
		require.Equal(t, http.StatusCreated, status)

		status, body := srv.request(http.MethodGet, "/api/v1/groups/"+groupID+"/expenses?category=activities", bobToken, nil)
		require.Equal(t, http.StatusOK, status)
		expenses := body["expenses"].([]interface{})
		require.Len(t, expenses, 1)
		assert.Equal(t, "activities", expenses[0].(map[string]interface{})["category"])
	})

	t.Run("member leaves the group", func(t *testing.T) {
		status, _ := srv.request(http.MethodDelete, "/api/v1/groups/"+groupID+"/members/"+bobID, bobToken, nil)
		require.Equal(t, http.StatusNoContent, status)

		status, body := srv.request(http.MethodGet, "/api/v1/groups/"+groupID+"/expenses", bobToken, nil)
		assert.Equal(t, http.StatusForbidden, status)
		assert.Equal(t, "FORBIDDEN", errorCode(body))
	})
}
