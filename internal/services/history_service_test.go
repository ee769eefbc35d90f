package services_test

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fuelpay-terminal/internal/api"
	"fuelpay-terminal/internal/models"
	"fuelpay-terminal/internal/services"
	"fuelpay-terminal/internal/stubapi"
)

type staticTokens struct {
	tok string
}

func (s *staticTokens) Token() string { return s.tok }

func newHistoryService(t *testing.T, entries int) *services.HistoryService {
	t.Helper()
	stub := stubapi.New()
	for i := 0; i < entries; i++ {
		stub.Reports = append(stub.Reports, models.ReportEntry{
			ID:      fmt.Sprintf("r-%d", i),
			Ref:     fmt.Sprintf("FP-%04d", i),
			Amount:  "100.00",
			Service: "petrol",
		})
	}
	srv := httptest.NewServer(stub.Handler())
	t.Cleanup(srv.Close)

	client := api.New(srv.URL, &staticTokens{tok: stub.IssueToken(time.Hour)}, api.WithTimeout(5*time.Second))
	return services.NewHistoryService(client)
}

func TestGetHistory_pagination(t *testing.T) {
	svc := newHistoryService(t, 25)
	ctx := context.Background()

	page, err := svc.GetHistory(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, page.Transactions, 10)
	assert.Equal(t, 25, page.Meta.TotalCount)
	assert.True(t, page.HasMore)

	last, err := svc.GetHistory(ctx, 3, 10)
	require.NoError(t, err)
	assert.Len(t, last.Transactions, 5)
	assert.False(t, last.HasMore)
}

func TestGetHistory_clampsPageAndLimit(t *testing.T) {
	svc := newHistoryService(t, 5)
	ctx := context.Background()

	// Page 0 is treated as page 1, limit 0 as the default page size
	page, err := svc.GetHistory(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Meta.Page)
	assert.Len(t, page.Transactions, 5)

	// Oversized limits are capped
	page, err = svc.GetHistory(ctx, 1, 10_000)
	require.NoError(t, err)
	assert.Equal(t, 100, page.Meta.Limit)
}

func TestGetMetrics(t *testing.T) {
	svc := newHistoryService(t, 3)

	m, err := svc.GetMetrics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "300.00", m.TotalAmount)
	assert.Equal(t, 3, m.TotalCount)
}
