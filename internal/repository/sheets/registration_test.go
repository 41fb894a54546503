package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"registrar/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

type appendCall struct {
	path   string
	query  map[string]string
	values [][]interface{}
}

func newTestRepo(t *testing.T, status int, calls *[]appendCall) *RegistrationRepo {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body gsheets.ValueRange
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		query := map[string]string{
			"valueInputOption": r.URL.Query().Get("valueInputOption"),
			"insertDataOption": r.URL.Query().Get("insertDataOption"),
		}
		*calls = append(*calls, appendCall{path: r.URL.Path, query: query, values: body.Values})

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-id","updates":{"updatedRows":1}}`))
	}))
	t.Cleanup(srv.Close)

	service, err := gsheets.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	return NewRegistrationRepo(service, "sheet-id", "Sheet1")
}

func TestRegistrationRepo_Append(t *testing.T) {
	var calls []appendCall
	repo := newTestRepo(t, http.StatusOK, &calls)

	err := repo.Append(context.Background(), domain.Registration{
		Name:    "Acme Travel",
		Contact: "+1-555-0100",
		UserID:  123456,
	})

	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.True(t, strings.HasSuffix(calls[0].path, "/spreadsheets/sheet-id/values/Sheet1:append"), calls[0].path)
	assert.Equal(t, "RAW", calls[0].query["valueInputOption"])
	assert.Equal(t, "INSERT_ROWS", calls[0].query["insertDataOption"])
	// JSON numbers decode as float64
	assert.Equal(t, [][]interface{}{{"Acme Travel", "+1-555-0100", float64(123456)}}, calls[0].values)
}

func TestRegistrationRepo_AppendError(t *testing.T) {
	var calls []appendCall
	repo := newTestRepo(t, http.StatusTooManyRequests, &calls)

	err := repo.Append(context.Background(), domain.Registration{Name: "a", Contact: "b", UserID: 1})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Sheet1")
	assert.Len(t, calls, 1)
}

func TestRegistrationRepo_AppendSendsFormulaTextRaw(t *testing.T) {
	var calls []appendCall
	repo := newTestRepo(t, http.StatusOK, &calls)

	err := repo.Append(context.Background(), domain.Registration{
		Name:    "=SUM(A1:A2)",
		Contact: "+7 999 000-00-00",
		UserID:  5,
	})

	require.NoError(t, err)
	require.Len(t, calls, 1)
	assert.Equal(t, "RAW", calls[0].query["valueInputOption"])
	assert.Equal(t, [][]interface{}{{"=SUM(A1:A2)", "+7 999 000-00-00", float64(5)}}, calls[0].values)
}

func TestNewService_InvalidCredentials(t *testing.T) {
	_, err := NewService(context.Background(), []byte(`{"type":`))

	assert.Error(t, err)
}
