package order

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"furniture-store/core/middleware/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testApp struct {
	app        *fiber.App
	book       *Book
	adminToken string
	userToken  string
}

func setupTestApp(t *testing.T) testApp {
	t.Helper()
	issuer := auth.NewIssuer(auth.Config{Secret: "test"})
	book := NewBook()

	app := fiber.New()
	require.NoError(t, NewFeature(book, nil, zap.NewNop(), auth.New(issuer)).Load(app))

	admin, err := issuer.Issue("admin@store.test", auth.RoleAdmin)
	require.NoError(t, err)
	user, err := issuer.Issue("bob@store.test", auth.RoleClient)
	require.NoError(t, err)
	return testApp{app: app, book: book, adminToken: admin, userToken: user}
}

func (ta testApp) do(t *testing.T, method, path, token string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ta.app.Test(req)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, raw
}

func TestHandleList_RequiresAdmin(t *testing.T) {
	ta := setupTestApp(t)

	status, _ := ta.do(t, "GET", "/admin/orders", "")
	assert.Equal(t, 401, status)
	status, _ = ta.do(t, "GET", "/admin/orders", ta.userToken)
	assert.Equal(t, 403, status)
	status, raw := ta.do(t, "GET", "/admin/orders", ta.adminToken)
	assert.Equal(t, 200, status)
	assert.JSONEq(t, "[]", string(raw))
}

func TestHandleList_Filters(t *testing.T) {
	ta := setupTestApp(t)
	o := newOrder(t, 1)
	ta.book.Place(o)
	ta.book.Place(New(Details{Owner: "ann@store.test"}, nil, o.Total()))

	status, raw := ta.do(t, "GET", "/admin/orders?user=bob@store.test", ta.adminToken)
	require.Equal(t, 200, status)
	var views []map[string]any
	require.NoError(t, json.Unmarshal(raw, &views))
	require.Len(t, views, 1)
	assert.Equal(t, o.ID(), views[0]["order_id"])

	_, raw = ta.do(t, "GET", "/admin/orders?status=Completed", ta.adminToken)
	assert.JSONEq(t, "[]", string(raw))

	_, raw = ta.do(t, "GET", "/admin/orders?user=ann@store.test&status=Pending", ta.adminToken)
	require.NoError(t, json.Unmarshal(raw, &views))
	require.Len(t, views, 1)
	assert.Equal(t, "ann@store.test", views[0]["user_email"])

	_, raw = ta.do(t, "GET", "/admin/orders?user=nobody@store.test", ta.adminToken)
	assert.JSONEq(t, "[]", string(raw))
}

func TestHandleComplete_AndInvalidTransition(t *testing.T) {
	ta := setupTestApp(t)
	o := newOrder(t, 1)
	ta.book.Place(o)

	status, raw := ta.do(t, "POST", "/admin/orders/"+o.ID()+"/complete", ta.adminToken)
	require.Equal(t, 200, status)
	var view map[string]any
	require.NoError(t, json.Unmarshal(raw, &view))
	assert.Equal(t, "Completed", view["status"])

	status, raw = ta.do(t, "POST", "/admin/orders/"+o.ID()+"/cancel", ta.adminToken)
	assert.Equal(t, 409, status)
	assert.Contains(t, string(raw), "INVALID_TRANSITION")
}

func TestHandleGet_NotFound(t *testing.T) {
	ta := setupTestApp(t)
	status, _ := ta.do(t, "GET", "/admin/orders/missing", ta.adminToken)
	assert.Equal(t, 404, status)
}

func TestHandleExport_WithoutStorage(t *testing.T) {
	ta := setupTestApp(t)
	status, _ := ta.do(t, "POST", "/admin/orders/export", ta.adminToken)
	assert.Equal(t, 400, status)
}
