//go:build integration

package flags_test

import (
	"context"
	"testing"

	"github.com/Builder-Lawyers/tenant-onboarding/internal/infra/flags"
	"github.com/Builder-Lawyers/tenant-onboarding/internal/testinfra"
	dbs "github.com/Builder-Lawyers/tenant-onboarding/pkg/db"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestPostgresBackendRoundTrip(t *testing.T) {
	ctx := context.Background()
	namespace := uuid.NewString()
	store := flags.Scope(flags.NewPostgres(dbs.NewUoWFactory(testinfra.Pool)), namespace)
	defer func() {
		_, _ = testinfra.Pool.Exec(ctx, "DELETE FROM builder.onboarding_flags WHERE namespace = $1", namespace)
	}()

	_, ok, err := store.Get(ctx, "tenant_id")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Set(ctx, "tenant_id", "tenant-001"))
	require.NoError(t, store.Set(ctx, "tenant_id", "tenant-002"))

	value, ok, err := store.Get(ctx, "tenant_id")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "tenant-002", value)

	require.NoError(t, store.Remove(ctx, "tenant_id"))
	_, ok, err = store.Get(ctx, "tenant_id")
	require.NoError(t, err)
	require.False(t, ok)
}
