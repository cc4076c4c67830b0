package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
	"gorm.io/gorm"

	"spendwise/internal/logger"
	"spendwise/internal/models"
	"spendwise/internal/testutil"
	"spendwise/internal/validator"
)

// testApp holds the full application stack for flow tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test", "error")
	validator.Register()
}

func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	return &testApp{DB: db, Router: NewRouter(db, Options{CORSAllowedOrigin: "*"})}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result), "body: %s", rec.Body.String())
	return result
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	errObj, ok := parseJSON(t, rec)["error"].(map[string]interface{})
	require.True(t, ok, "expected error object, got %s", rec.Body.String())
	code, _ := errObj["code"].(string)
	return code
}

// registerAndLogin creates an account and returns its access and refresh tokens.
func (app *testApp) registerAndLogin(t *testing.T, email, password string) (access, refresh string) {
	t.Helper()

	body := fmt.Sprintf(`{"email_address":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/auth/register/", body, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = app.request("POST", "/auth/login/", body, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	result := parseJSON(t, rec)
	return result["access"].(string), result["refresh"].(string)
}

func TestHealth(t *testing.T) {
	app := setupApp(t)

	rec := app.request("GET", "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSwaggerDocumentMatchesRoutes(t *testing.T) {
	app := setupApp(t)

	raw, err := swag.ReadDoc()
	require.NoError(t, err)

	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	routed := make(map[string]bool)
	for _, route := range app.Router.Routes() {
		if route.Path == "/health" || strings.HasPrefix(route.Path, "/swagger/") {
			continue
		}
		path := strings.ReplaceAll(route.Path, ":id", "{id}")
		method := strings.ToLower(route.Method)
		routed[method+" "+path] = true

		_, ok := doc.Paths[path][method]
		assert.True(t, ok, "route %s %s is not documented", route.Method, route.Path)
	}

	for path, ops := range doc.Paths {
		for method := range ops {
			assert.True(t, routed[method+" "+path], "documented %s %s has no route", method, path)
		}
	}
}

func TestAuthFlow(t *testing.T) {
	t.Run("register does not issue tokens", func(t *testing.T) {
		app := setupApp(t)

		rec := app.request("POST", "/auth/register/", `{"email_address":"a@example.com","password":"pw1"}`, "")
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		result := parseJSON(t, rec)
		assert.Nil(t, result["access"])
		assert.Nil(t, result["refresh"])
		user := result["user"].(map[string]interface{})
		assert.Equal(t, "a", user["username"])
	})

	t.Run("duplicate registration", func(t *testing.T) {
		app := setupApp(t)
		app.registerAndLogin(t, "a@example.com", "pw1")

		rec := app.request("POST", "/auth/register/", `{"email_address":"a@EXAMPLE.com","password":"pw2"}`, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "DUPLICATE_EMAIL", errorCode(t, rec))
	})

	t.Run("login failures are indistinguishable", func(t *testing.T) {
		app := setupApp(t)
		app.registerAndLogin(t, "a@example.com", "pw1")

		unknown := app.request("POST", "/auth/login/", `{"email_address":"nobody@example.com","password":"pw1"}`, "")
		wrong := app.request("POST", "/auth/login/", `{"email_address":"a@example.com","password":"nope"}`, "")

		assert.Equal(t, http.StatusUnauthorized, unknown.Code)
		assert.Equal(t, unknown.Code, wrong.Code)
		assert.Equal(t, unknown.Body.String(), wrong.Body.String())
	})

	t.Run("refresh rotates and revokes", func(t *testing.T) {
		app := setupApp(t)
		_, refresh := app.registerAndLogin(t, "a@example.com", "pw1")

		rec := app.request("POST", "/api/token/refresh/", fmt.Sprintf(`{"refresh":%q}`, refresh), "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		newAccess := parseJSON(t, rec)["access"].(string)

		rec = app.request("POST", "/api/token/refresh/", fmt.Sprintf(`{"refresh":%q}`, refresh), "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = app.request("GET", "/auth/profile/", "", newAccess)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("change password invalidates old credentials", func(t *testing.T) {
		app := setupApp(t)
		access, refresh := app.registerAndLogin(t, "a@example.com", "pw1")

		rec := app.request("PATCH", "/auth/change-password/",
			`{"email_address":"a@example.com","password":"wrong","newPassword":"pw2"}`, access)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = app.request("PATCH", "/auth/change-password/",
			`{"email_address":"a@example.com","password":"pw1","newPassword":"pw2"}`, access)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = app.request("POST", "/auth/login/", `{"email_address":"a@example.com","password":"pw1"}`, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		rec = app.request("POST", "/api/token/", `{"email_address":"a@example.com","password":"pw2"}`, "")
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = app.request("POST", "/api/token/refresh/", fmt.Sprintf(`{"refresh":%q}`, refresh), "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("protected routes need a token", func(t *testing.T) {
		app := setupApp(t)

		rec := app.request("POST", "/records/list/", `{"email_address":"a@example.com"}`, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "UNAUTHORIZED", errorCode(t, rec))
	})
}

func TestRecordFlow(t *testing.T) {
	t.Run("create then list", func(t *testing.T) {
		app := setupApp(t)
		access, _ := app.registerAndLogin(t, "a@example.com", "pw1")

		rec := app.request("POST", "/records/create/",
			`{"email_address":"a@example.com","recordType":"expense","category":"food","note":"lunch","amount":12.5,"time":"12:00","date":"2024-01-01"}`, access)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		rec = app.request("POST", "/records/list/", `{"email_address":"a@example.com"}`, access)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		records := parseJSON(t, rec)["records"].([]interface{})
		require.Len(t, records, 1)
		record := records[0].(map[string]interface{})
		assert.Equal(t, "12.50", record["amount"])
		assert.Equal(t, "12:00:00", record["time"])
		assert.Equal(t, "2024-01-01", record["date"])
	})

	t.Run("missing field persists nothing", func(t *testing.T) {
		app := setupApp(t)
		access, _ := app.registerAndLogin(t, "a@example.com", "pw1")

		rec := app.request("POST", "/records/create/",
			`{"email_address":"a@example.com","recordType":"expense","note":"lunch","amount":"1","time":"12:00","date":"2024-01-01"}`, access)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var count int64
		app.DB.Model(&models.Record{}).Count(&count)
		assert.Zero(t, count)
	})

	t.Run("update only touches supplied fields", func(t *testing.T) {
		app := setupApp(t)
		access, _ := app.registerAndLogin(t, "a@example.com", "pw1")

		rec := app.request("POST", "/records/create/",
			`{"email_address":"a@example.com","recordType":"expense","category":"food","note":"lunch","amount":"12.50","time":"12:00","date":"2024-01-01"}`, access)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		id := parseJSON(t, rec)["record"].(map[string]interface{})["id"].(float64)

		rec = app.request("PATCH", fmt.Sprintf("/records/update/%.0f/", id),
			`{"email_address":"a@example.com","amount":"20"}`, access)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		record := parseJSON(t, rec)["record"].(map[string]interface{})
		assert.Equal(t, "20.00", record["amount"])
		assert.Equal(t, "food", record["category"])
		assert.Equal(t, "lunch", record["note"])
	})

	t.Run("other users cannot touch a record", func(t *testing.T) {
		app := setupApp(t)
		ownerAccess, _ := app.registerAndLogin(t, "owner@example.com", "pw1")
		otherAccess, _ := app.registerAndLogin(t, "other@example.com", "pw1")

		rec := app.request("POST", "/records/create/",
			`{"email_address":"owner@example.com","recordType":"expense","category":"food","note":"n","amount":"5","time":"10:00","date":"2024-01-01"}`, ownerAccess)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		id := parseJSON(t, rec)["record"].(map[string]interface{})["id"].(float64)

		// Acting under another email with one's own token is refused outright.
		rec = app.request("POST", "/records/list/", `{"email_address":"owner@example.com"}`, otherAccess)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = app.request("PATCH", fmt.Sprintf("/records/update/%.0f/", id),
			`{"email_address":"other@example.com","note":"mine now"}`, otherAccess)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = app.request("DELETE", "/records/delete/",
			fmt.Sprintf(`{"id":%.0f,"email_address":"other@example.com"}`, id), otherAccess)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = app.request("GET", fmt.Sprintf("/api/records/%.0f/", id), "", otherAccess)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = app.request("GET", fmt.Sprintf("/api/records/%.0f/", id), "", ownerAccess)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("delete nonexistent record", func(t *testing.T) {
		app := setupApp(t)
		access, _ := app.registerAndLogin(t, "a@example.com", "pw1")

		rec := app.request("DELETE", "/records/delete/", `{"id":999,"email_address":"a@example.com"}`, access)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "RECORD_NOT_FOUND", errorCode(t, rec))
	})

	t.Run("paginated resource", func(t *testing.T) {
		app := setupApp(t)
		access, _ := app.registerAndLogin(t, "a@example.com", "pw1")

		for i := 1; i <= 3; i++ {
			body := fmt.Sprintf(`{"recordType":"expense","category":"food","note":"n","amount":"%d","time":"10:00","date":"2024-01-0%d"}`, i, i)
			rec := app.request("POST", "/api/records/", body, access)
			require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		}

		rec := app.request("GET", "/api/records/?page=1&page_size=2", "", access)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		result := parseJSON(t, rec)
		assert.Equal(t, float64(3), result["total_items"])
		assert.Equal(t, float64(2), result["total_pages"])
		assert.Len(t, result["data"], 2)
	})
}

func TestBudgetFlow(t *testing.T) {
	t.Run("upsert keeps one row per period", func(t *testing.T) {
		app := setupApp(t)
		access, _ := app.registerAndLogin(t, "a@example.com", "pw1")

		rec := app.request("POST", "/budgets/create/",
			`{"email_address":"a@example.com","budget":100,"month":"January","year":"2024"}`, access)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, true, parseJSON(t, rec)["created"])

		rec = app.request("POST", "/budgets/create/",
			`{"email_address":"a@example.com","budget":150,"month":"January","year":"2024"}`, access)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, false, parseJSON(t, rec)["created"])

		rec = app.request("POST", "/budgets/", `{"email_address":"a@example.com","password":"pw1"}`, access)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		budgets := parseJSON(t, rec)["budgets"].([]interface{})
		require.Len(t, budgets, 1)
		assert.Equal(t, "150.00", budgets[0].(map[string]interface{})["budget"])

		rec = app.request("GET", "/budgets/last-update/?email_address=a@example.com", "", access)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "150.00", parseJSON(t, rec)["budget"].(map[string]interface{})["budget"])
	})

	t.Run("password gates", func(t *testing.T) {
		app := setupApp(t)
		access, _ := app.registerAndLogin(t, "a@example.com", "pw1")

		rec := app.request("POST", "/budgets/create/",
			`{"email_address":"a@example.com","budget":"10","month":"May","year":"2024"}`, access)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		id := parseJSON(t, rec)["budget"].(map[string]interface{})["id"].(float64)

		rec = app.request("POST", "/budgets/", `{"email_address":"a@example.com","password":"bad"}`, access)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = app.request("PATCH", fmt.Sprintf("/budgets/update/%.0f/", id),
			`{"email_address":"a@example.com","password":"bad","budget":"20"}`, access)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = app.request("DELETE", "/budgets/delete/",
			fmt.Sprintf(`{"id":%.0f,"email_address":"a@example.com","password":"bad"}`, id), access)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = app.request("DELETE", "/budgets/delete/",
			fmt.Sprintf(`{"id":%.0f,"email_address":"a@example.com","password":"pw1"}`, id), access)
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = app.request("GET", "/budgets/last-update/?email_address=a@example.com", "", access)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("moving onto an occupied period conflicts", func(t *testing.T) {
		app := setupApp(t)
		access, _ := app.registerAndLogin(t, "a@example.com", "pw1")

		rec := app.request("POST", "/api/budgets/", `{"budget":"10","month":"May","year":"2024"}`, access)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		rec = app.request("POST", "/api/budgets/", `{"budget":"10","month":"June","year":"2024"}`, access)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		juneID := parseJSON(t, rec)["id"].(float64)

		rec = app.request("POST", "/api/budgets/", `{"budget":"99","month":"May","year":"2024"}`, access)
		assert.Equal(t, http.StatusConflict, rec.Code)

		rec = app.request("PATCH", fmt.Sprintf("/budgets/update/%.0f/", juneID),
			`{"email_address":"a@example.com","password":"pw1","month":"May"}`, access)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "BUDGET_PERIOD_TAKEN", errorCode(t, rec))
	})
}
