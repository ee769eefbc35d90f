package services

import (
	"context"

	"fuelpay-terminal/internal/api"
	"fuelpay-terminal/internal/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// HistoryPage is one page of transaction history plus paging info
type HistoryPage struct {
	Meta         models.ReportMeta
	Transactions []models.ReportEntry
	HasMore      bool
}

// HistoryService fetches the attendant's transaction history and the
// station aggregates
type HistoryService struct {
	api *api.Client
}

// NewHistoryService creates a new history service
func NewHistoryService(client *api.Client) *HistoryService {
	return &HistoryService{api: client}
}

// GetHistory fetches one page of transactions. Page numbers start at 1;
// out-of-range values are clamped.
func (s *HistoryService) GetHistory(ctx context.Context, page, limit int) (*HistoryPage, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	resp, err := s.api.Reports(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	return &HistoryPage{
		Meta:         resp.Meta,
		Transactions: resp.Transactions,
		HasMore:      resp.Meta.Page*resp.Meta.Limit < resp.Meta.TotalCount,
	}, nil
}

// GetMetrics fetches the aggregate totals shown on the terminal home screen
func (s *HistoryService) GetMetrics(ctx context.Context) (*models.ReportMetrics, error) {
	return s.api.ReportMetrics(ctx)
}
