package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berrnk/bdz1/pkg/config"
	"github.com/berrnk/bdz1/pkg/models"
	"github.com/berrnk/bdz1/pkg/service"
	"github.com/berrnk/bdz1/pkg/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *service.Ledger) {
	t.Helper()
	logger := log.New(io.Discard)
	ledger := service.New(store.New(), models.NewFactory(nil), logger)
	srv := httptest.NewServer(New(&config.Config{}, logger, ledger).Handler())
	t.Cleanup(srv.Close)
	return srv, ledger
}

func do(t *testing.T, srv *httptest.Server, method, path, contentType string, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestAccountLifecycle(t *testing.T) {
	srv, ledger := newTestServer(t)

	resp, body := do(t, srv, http.MethodPost, "/api/accounts", "application/json", `{"name":"Checking","balance":1000}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `{"Id":1,"Name":"Checking","Balance":1000}`, string(body))
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	resp, body = do(t, srv, http.MethodPut, "/api/accounts/1", "application/json", `{"name":"Main","balance":"12.5"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"Id":1,"Name":"Main","Balance":12.5}`, string(body))

	resp, body = do(t, srv, http.MethodGet, "/api/accounts", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[{"Id":1,"Name":"Main","Balance":12.5}]`, string(body))

	resp, _ = do(t, srv, http.MethodDelete, "/api/accounts/1", "", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, ledger.Accounts())

	resp, _ = do(t, srv, http.MethodGet, "/api/accounts/1", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestErrors(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, body := do(t, srv, http.MethodPost, "/api/accounts", "application/json", `{"name":"","balance":1}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"error"`)

	resp, _ = do(t, srv, http.MethodPost, "/api/accounts", "application/json", `{`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodGet, "/api/accounts/abc", "", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPut, "/api/operations/4", "application/json", `{"amount":1,"date":"2024-01-01"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodPost, "/api/operations", "application/json", `{"type":"Income","amount":-1,"date":"2024-01-01"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodGet, "/api/export/xml", "", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func seed(t *testing.T, srv *httptest.Server) {
	t.Helper()
	for _, req := range []struct{ path, body string }{
		{"/api/accounts", `{"name":"Checking","balance":1000}`},
		{"/api/categories", `{"type":"Income","name":"Salary"}`},
		{"/api/categories", `{"type":1,"name":"Food"}`},
		{"/api/operations", `{"type":"Income","account_id":1,"amount":2000,"date":"2024-03-01","category_id":1}`},
		{"/api/operations", `{"type":"Expense","account_id":1,"amount":300,"date":"2024-03-02","description":"market","category_id":2}`},
		{"/api/operations", `{"type":"Expense","account_id":1,"amount":200,"date":"2024-04-02","category_id":2}`},
	} {
		resp, body := do(t, srv, http.MethodPost, req.path, "application/json", req.body)
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	}
}

func TestOperationsAndAnalytics(t *testing.T) {
	srv, ledger := newTestServer(t)
	seed(t, srv)
	assert.Equal(t, "2500", ledger.Accounts()[0].Balance.String())

	_, body := do(t, srv, http.MethodGet, "/api/operations?start=2024-03-01&end=2024-03-31", "", "")
	var ops []models.OperationRecord
	require.NoError(t, json.Unmarshal(body, &ops))
	assert.Len(t, ops, 2)

	resp, body := do(t, srv, http.MethodGet, "/api/analytics/difference?start=2024-03-01&end=2024-03-31", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"start":"2024-03-01","end":"2024-03-31","income":2000,"expense":300,"difference":1700}`, string(body))

	_, body = do(t, srv, http.MethodGet, "/api/analytics/categories", "", "")
	assert.JSONEq(t, `{"Salary":{"income":2000,"expense":0},"Food":{"income":0,"expense":500}}`, string(body))

	resp, _ = do(t, srv, http.MethodGet, "/api/analytics/difference?start=soon", "", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodDelete, "/api/operations/3", "", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "2700", ledger.Accounts()[0].Balance.String())

	resp, body = do(t, srv, http.MethodPut, "/api/operations/2", "application/json", `{"amount":"1","date":"2024-03-09","description":"fixed"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"Description":"fixed"`)
	assert.Equal(t, "2700", ledger.Accounts()[0].Balance.String())
}

func TestExportAndImport(t *testing.T) {
	srv, _ := newTestServer(t)
	seed(t, srv)

	resp, body := do(t, srv, http.MethodGet, "/api/export/csv/categories", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Equal(t, "Id,Name,Type\n1,Salary,Income\n2,Food,Expense\n", string(body))

	resp, _ = do(t, srv, http.MethodGet, "/api/export/csv/budgets", "", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, doc := do(t, srv, http.MethodGet, "/api/export/yaml", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, bytes.HasPrefix(doc, []byte("Accounts:\n")))

	other, ledger := newTestServer(t)
	resp, body = do(t, other, http.MethodPost, "/api/import?format=yaml", "application/yaml", string(doc))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.JSONEq(t, `{"source":"request body","accounts":1,"categories":2,"operations":3,"failure":""}`, string(body))
	assert.Equal(t, "2500", ledger.Accounts()[0].Balance.String())

	// the allocator moved past the imported ids
	resp, body = do(t, other, http.MethodPost, "/api/accounts", "application/json", `{"name":"Cash","balance":0}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Contains(t, string(body), `"Id":2`)
}

func TestImportMultipartAndFailure(t *testing.T) {
	srv, ledger := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("document", "ledger.json")
	require.NoError(t, err)
	_, err = fw.Write([]byte(`{"Accounts":[{"Id":4,"Name":"Cash","Balance":3}]}`))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, body := do(t, srv, http.MethodPost, "/api/import", mw.FormDataContentType(), buf.String())
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, string(body), `"source":"ledger.json"`)
	assert.Len(t, ledger.Accounts(), 1)

	resp, body = do(t, srv, http.MethodPost, "/api/import?format=csv", "text/csv", "Id,Name,Balance\n")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, string(body), "expected three sections")
	assert.Len(t, ledger.Accounts(), 1)

	resp, _ = do(t, srv, http.MethodPost, "/api/import", "text/plain", "x")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestImportFormEncodedBody(t *testing.T) {
	srv, _ := newTestServer(t)
	seed(t, srv)
	_, doc := do(t, srv, http.MethodGet, "/api/export/yaml", "", "")

	// curl --data-binary sends this content type by default
	other, ledger := newTestServer(t)
	resp, body := do(t, other, http.MethodPost, "/api/import?format=yaml", "application/x-www-form-urlencoded", string(doc))
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.JSONEq(t, `{"source":"request body","accounts":1,"categories":2,"operations":3,"failure":""}`, string(body))
	assert.Len(t, ledger.Accounts(), 1)

	resp, _ = do(t, other, http.MethodPost, "/api/import", "multipart/form-data; boundary=x", "--x--\r\n")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPlanAndApply(t *testing.T) {
	srv, ledger := newTestServer(t)
	plan := "accounts:\n  - name: Cash\n    balance: 10\ncategories:\n  - name: Food\n    type: Expense\n" +
		"operations:\n  - type: Expense\n    account: Cash\n    category: Food\n    amount: 4\n    date: 2024-05-01\n"

	resp, body := do(t, srv, http.MethodPost, "/api/plan", "application/yaml", plan)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, string(body), `"to_add":3`)
	assert.Empty(t, ledger.Accounts())

	resp, body = do(t, srv, http.MethodPost, "/api/apply", "application/yaml", plan)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, string(body), `"applied":true`)
	require.Len(t, ledger.Accounts(), 1)
	assert.Equal(t, "6", ledger.Accounts()[0].Balance.String())

	resp, _ = do(t, srv, http.MethodPost, "/api/plan", "application/yaml", "accounts: [")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
