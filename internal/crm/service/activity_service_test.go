package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xela07ax/teamcrm/internal/crm/apperr"
	"github.com/xela07ax/teamcrm/internal/domain"
	"go.uber.org/zap"
)

type fakeActivityReader struct {
	lastFilter domain.ActivityFilter
	entries    []domain.ActivityEntry
}

func (r *fakeActivityReader) List(_ context.Context, f domain.ActivityFilter) ([]domain.ActivityEntry, error) {
	r.lastFilter = f
	return r.entries, nil
}

func TestActivityListManagerOnly(t *testing.T) {
	reader := &fakeActivityReader{}
	svc := NewActivityService(reader, zap.NewNop())

	_, err := svc.List(context.Background(), nil, domain.ActivityFilter{})
	require.Error(t, err)
	assert.Equal(t, 401, apperr.Wrap(err).Status)

	_, err = svc.List(context.Background(), repPrincipal, domain.ActivityFilter{})
	require.Error(t, err)
	ae := apperr.Wrap(err)
	assert.Equal(t, 403, ae.Status)
	assert.Equal(t, "Insufficient permissions", ae.Message)

	entries, err := svc.List(context.Background(), mgrPrincipal, domain.ActivityFilter{})
	require.NoError(t, err)
	assert.NotNil(t, entries)
}

// Лимит нормализуется к дефолту при нуле и при запредельных значениях
func TestActivityListLimit(t *testing.T) {
	reader := &fakeActivityReader{}
	svc := NewActivityService(reader, zap.NewNop())

	_, err := svc.List(context.Background(), mgrPrincipal, domain.ActivityFilter{})
	require.NoError(t, err)
	assert.Equal(t, defaultActivityLimit, reader.lastFilter.Limit)

	_, err = svc.List(context.Background(), mgrPrincipal, domain.ActivityFilter{Limit: 5000})
	require.NoError(t, err)
	assert.Equal(t, defaultActivityLimit, reader.lastFilter.Limit)

	_, err = svc.List(context.Background(), mgrPrincipal, domain.ActivityFilter{Limit: 25})
	require.NoError(t, err)
	assert.Equal(t, 25, reader.lastFilter.Limit)
}
