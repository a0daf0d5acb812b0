package cart

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"furniture-store/core/middleware/auth"
	"furniture-store/core/storage/mocks"
	"furniture-store/feature/account"
	"furniture-store/feature/inventory"
	"furniture-store/feature/order"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type testApp struct {
	app    *fiber.App
	inv    *inventory.Inventory
	book   *order.Book
	client *mocks.Client
	token  string
}

func setupTestApp(t *testing.T) testApp {
	t.Helper()
	cfg := auth.Config{Secret: "test", BcryptCost: bcrypt.MinCost}
	issuer := auth.NewIssuer(cfg)
	users := account.NewRegistry(cfg, issuer, zap.NewNop())
	_, err := users.Register(account.Registration{Name: "Bob", Email: "bob@store.test", Password: "s3cret!pass", Address: "1 Main St"})
	require.NoError(t, err)

	inv := inventory.New(zap.NewNop())
	for _, it := range inventory.DemoCatalog() {
		_, err := inv.Add(it)
		require.NoError(t, err)
	}
	book := order.NewBook()
	client := new(mocks.Client)

	svc := NewService(NewCarts(Promotion{}), inv, book, users, NewStore(client, "bucket"), Config{TaxRate: 10}, zap.NewNop())
	app := fiber.New()
	require.NoError(t, NewFeature(svc, auth.New(issuer)).Load(app))

	token, err := issuer.Issue("bob@store.test", auth.RoleClient)
	require.NoError(t, err)
	return testApp{app: app, inv: inv, book: book, client: client, token: token}
}

func (ta testApp) do(t *testing.T, method, path, body string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+ta.token)
	resp, err := ta.app.Test(req)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, raw
}

func TestHandlers_RequireToken(t *testing.T) {
	ta := setupTestApp(t)
	resp, err := ta.app.Test(httptest.NewRequest("GET", "/cart/view", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestHandleUpdateViewRemove(t *testing.T) {
	ta := setupTestApp(t)

	status, raw := ta.do(t, "POST", "/cart/update", `{"type":"Chair","name":"Oak Chair","quantity":3}`)
	require.Equal(t, 200, status, string(raw))

	status, raw = ta.do(t, "GET", "/cart/view", "")
	require.Equal(t, 200, status)
	var v View
	require.NoError(t, json.Unmarshal(raw, &v))
	require.Len(t, v.Lines, 1)
	assert.Equal(t, "360.00", v.Total.StringFixed(2))
	assert.Equal(t, "342.00", v.DiscountedTotal.StringFixed(2))
	assert.Equal(t, "376.20", v.TotalWithTax.StringFixed(2))

	status, _ = ta.do(t, "POST", "/cart/update", `{"type":"Chair","name":"Oak Chair","quantity":50}`)
	assert.Equal(t, 409, status)

	status, _ = ta.do(t, "POST", "/cart/update", `{"type":"Chair","name":"Ghost","quantity":1}`)
	assert.Equal(t, 404, status)

	status, _ = ta.do(t, "POST", "/cart/remove", `{"type":"Sofa","name":"Corner Sofa","quantity":1}`)
	assert.Equal(t, 404, status)

	status, _ = ta.do(t, "POST", "/cart/remove", `{"type":"Chair","name":"Oak Chair","quantity":0}`)
	assert.Equal(t, 400, status)

	status, raw = ta.do(t, "POST", "/cart/remove", `{"type":"Chair","name":"Oak Chair"}`)
	require.Equal(t, 200, status)
	require.NoError(t, json.Unmarshal(raw, &v))
	assert.Equal(t, 2, v.Lines[0].Quantity)
}

func TestHandleUpdate_RejectsQuantityOverflow(t *testing.T) {
	ta := setupTestApp(t)
	status, _ := ta.do(t, "POST", "/cart/update", `{"type":"Chair","name":"Oak Chair","quantity":1}`)
	require.Equal(t, 200, status)

	status, raw := ta.do(t, "POST", "/cart/update", `{"type":"Chair","name":"Oak Chair","quantity":9223372036854775807}`)
	assert.Equal(t, 409, status, string(raw))

	status, raw = ta.do(t, "GET", "/cart/view", "")
	require.Equal(t, 200, status)
	var v View
	require.NoError(t, json.Unmarshal(raw, &v))
	require.Len(t, v.Lines, 1)
	assert.Equal(t, 1, v.Lines[0].Quantity)
}

func TestHandleCheckout(t *testing.T) {
	ta := setupTestApp(t)
	status, _ := ta.do(t, "POST", "/cart/checkout", "")
	assert.Equal(t, 400, status)

	status, _ = ta.do(t, "POST", "/cart/update", `{"type":"Chair","name":"Oak Chair","quantity":3}`)
	require.Equal(t, 200, status)

	status, raw := ta.do(t, "POST", "/cart/checkout", "")
	require.Equal(t, 201, status, string(raw))
	var ov order.View
	require.NoError(t, json.Unmarshal(raw, &ov))
	assert.Equal(t, order.StatusPending, ov.Status)
	assert.Equal(t, "342.00", ov.Total.StringFixed(2))
	assert.Equal(t, "1 Main St", ov.ShippingAddress)
	assert.Len(t, ta.book.All(), 1)
}

func TestHandleCheckout_Shortage(t *testing.T) {
	ta := setupTestApp(t)
	status, _ := ta.do(t, "POST", "/cart/update", `{"type":"Sofa","name":"Corner Sofa","quantity":2}`)
	require.Equal(t, 200, status)
	_, err := ta.inv.SetQuantity("Sofa", "Corner Sofa", 1)
	require.NoError(t, err)

	status, raw := ta.do(t, "POST", "/cart/checkout", "")
	require.Equal(t, 409, status)
	var body struct {
		Code    string `json:"code"`
		Details []struct {
			Name      string `json:"name"`
			Requested int    `json:"requested"`
			Available int    `json:"available"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
	require.Len(t, body.Details, 1)
	assert.Equal(t, 2, body.Details[0].Requested)
	assert.Equal(t, 1, body.Details[0].Available)
	assert.Empty(t, ta.book.All())
}

func TestHandleSaveLoad(t *testing.T) {
	ta := setupTestApp(t)
	var saved []byte
	ta.client.On("PutObject", mock.Anything, "bucket", "carts/bob@store.test.csv", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { saved, _ = io.ReadAll(args.Get(3).(io.Reader)) }).
		Return(minio.UploadInfo{}, nil)
	status, _ := ta.do(t, "POST", "/cart/save", "")
	assert.Equal(t, 400, status)

	status, _ = ta.do(t, "POST", "/cart/update", `{"type":"Bed","name":"Queen Bed","quantity":1}`)
	require.Equal(t, 200, status)
	status, raw := ta.do(t, "POST", "/cart/save", "")
	require.Equal(t, 200, status, string(raw))
	ta.client.On("GetObject", mock.Anything, "bucket", "carts/bob@store.test.csv", mock.Anything).
		Return(io.NopCloser(bytes.NewReader(saved)), nil)

	status, _ = ta.do(t, "POST", "/cart/remove", `{"type":"Bed","name":"Queen Bed","quantity":1}`)
	require.Equal(t, 200, status)

	status, raw = ta.do(t, "POST", "/cart/load", "")
	require.Equal(t, 200, status, string(raw))
	var res LoadResult
	require.NoError(t, json.Unmarshal(raw, &res))
	require.Len(t, res.View.Lines, 1)
	assert.Equal(t, "Queen Bed", res.View.Lines[0].Name)
	assert.Empty(t, res.Missing)
}
