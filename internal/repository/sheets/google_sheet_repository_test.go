package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/mamadbah2/estoque/internal/config"
)

func newTestRepository(t *testing.T, handler http.HandlerFunc) *GoogleSheetRepository {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	repo, err := NewGoogleSheetRepository(context.Background(),
		config.SheetsConfig{SpreadsheetID: "planilha"},
		nil,
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return repo
}

func TestReadRange(t *testing.T) {
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/v4/spreadsheets/planilha/values/Estoque!A:F"), r.URL.Path)
		assert.Equal(t, "UNFORMATTED_VALUE", r.URL.Query().Get("valueRenderOption"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"range":  "Estoque!A1:B2",
			"values": [][]any{{"id", "nome"}, {"A1", "Luva"}},
		})
	})

	rows, err := repo.ReadRange(context.Background(), "Estoque!A:F")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Luva", rows[1][1])

	_, err = repo.ReadRange(context.Background(), "")
	assert.ErrorIs(t, err, errEmptyRange)
}

func TestAppendRows(t *testing.T) {
	calls := 0
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, ":append"), r.URL.Path)
		assert.Equal(t, "USER_ENTERED", r.URL.Query().Get("valueInputOption"))

		var body struct {
			Values [][]any `json:"values"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Len(t, body.Values, 2)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"spreadsheetId": "planilha",
			"updates":       map[string]any{"updatedRows": 2},
		})
	})

	err := repo.AppendRows(context.Background(), "Alertas!A:G", [][]interface{}{{"A1", "EXPIRED"}, {"B2", "NEAR_EXPIRATION"}})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	require.NoError(t, repo.AppendRows(context.Background(), "Alertas!A:G", nil))
	assert.Equal(t, 1, calls)
}

func TestReadRangeAPIError(t *testing.T) {
	repo := newTestRepository(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"permission denied"}}`))
	})

	_, err := repo.ReadRange(context.Background(), "Estoque!A:F")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Estoque!A:F")
}

func TestNewGoogleSheetRepositoryRequiresID(t *testing.T) {
	_, err := NewGoogleSheetRepository(context.Background(), config.SheetsConfig{}, nil, option.WithoutAuthentication())
	assert.Error(t, err)
}
