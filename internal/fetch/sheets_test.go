package fetch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	apperrors "econtab/internal/errors"
	"econtab/internal/shared/testutil"
	"econtab/pkg/tabular"
)

// fakeSheets starts a values-API stand-in serving the given rows and
// returns a fetcher pointed at it.
func fakeSheets(t *testing.T, status int, values [][]any) *SheetsFetcher {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			http.Error(w, "boom", status)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"range":          "Sheet1!A1:B3",
			"majorDimension": "ROWS",
			"values":         values,
		})
	}))
	t.Cleanup(srv.Close)

	logger, _ := testutil.NewCaptureLogger(t)
	svc, err := sheets.NewService(context.Background(),
		option.WithEndpoint(srv.URL),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)
	return &SheetsFetcher{service: svc, logger: logger}
}

func TestSheetsFetchRange(t *testing.T) {
	f := fakeSheets(t, http.StatusOK, [][]any{
		{"country", "gdp"},
		{"Sweden", 635.7},
		{"Norway"},
	})

	got, err := f.FetchRange(context.Background(), "sheet123", "Sheet1!A1:B3")
	require.NoError(t, err)
	assert.Equal(t, []string{"country", "gdp"}, got.ColumnNames())
	require.Equal(t, 2, got.NumRows())
	assert.Equal(t, tabular.String("Sweden"), got.At(0, "country"))
	assert.True(t, tabular.Float(635.7).Equal(got.At(0, "gdp")))
	assert.True(t, got.At(1, "gdp").IsNull(), "short rows pad with nulls")
}

func TestSheetsFetchRangeUniquifiesHeader(t *testing.T) {
	f := fakeSheets(t, http.StatusOK, [][]any{
		{"year", "", "year"},
		{float64(2021), 1.0, 2.0},
	})

	got, err := f.FetchRange(context.Background(), "sheet123", "Sheet1!A1:C2")
	require.NoError(t, err)
	assert.Equal(t, []string{"year", "column_2", "year_2"}, got.ColumnNames())
}

func TestSheetsFetchRangeEmpty(t *testing.T) {
	f := fakeSheets(t, http.StatusOK, nil)

	_, err := f.FetchRange(context.Background(), "sheet123", "Sheet1!A1:B1")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestSheetsFetchRangeAPIError(t *testing.T) {
	f := fakeSheets(t, http.StatusInternalServerError, nil)

	_, err := f.FetchRange(context.Background(), "sheet123", "Sheet1!A1:B1")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNetwork))
}

func TestParseSheetsSource(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		wantID   string
		wantRng  string
		wantIsIt bool
	}{
		{
			name:     "id and range",
			source:   "sheets://abc123/Sheet1!A1:D200",
			wantID:   "abc123",
			wantRng:  "Sheet1!A1:D200",
			wantIsIt: true,
		},
		{
			name:     "missing range",
			source:   "sheets://abc123",
			wantID:   "abc123",
			wantIsIt: true,
		},
		{name: "http url", source: "https://example.org/x.csv"},
		{name: "file path", source: "data/x.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, rng, ok := ParseSheetsSource(tt.source)
			assert.Equal(t, tt.wantIsIt, ok)
			assert.Equal(t, tt.wantID, id)
			assert.Equal(t, tt.wantRng, rng)
		})
	}
}

func TestSheetCell(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want tabular.Value
	}{
		{name: "nil", in: nil, want: tabular.Null()},
		{name: "empty string", in: "", want: tabular.Null()},
		{name: "string", in: "Sweden", want: tabular.String("Sweden")},
		{name: "integral number", in: float64(2021), want: tabular.Int(2021)},
		{name: "fractional number", in: 635.7, want: tabular.Float(635.7)},
		{name: "bool true", in: true, want: tabular.String("true")},
		{name: "bool false", in: false, want: tabular.String("false")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(sheetCell(tt.in)),
				"want %v, got %v", tt.want.Format(), sheetCell(tt.in).Format())
		})
	}
}
