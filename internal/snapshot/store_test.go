// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package snapshot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tim-harding/nvim-sys/internal/apiinfo"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func rootWithFunctions(minor int64, fns ...apiinfo.Function) *apiinfo.Root {
	return &apiinfo.Root{
		Version:   apiinfo.Version{APILevel: 12, Minor: minor},
		Functions: fns,
	}
}

func fn(name string) apiinfo.Function {
	return apiinfo.Function{Name: name, Since: 1}
}

func deprecatedFn(name string) apiinfo.Function {
	since := int64(2)
	return apiinfo.Function{Name: name, Since: 1, DeprecatedSince: &since}
}

func TestSaveAndList(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	id, err := store.Save(ctx, rootWithFunctions(9, fn("nvim_get_mode"), fn("nvim_subscribe")), []byte{0x80})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	id, err = store.Save(ctx, rootWithFunctions(10, fn("nvim_get_mode")), []byte{0x81})
	require.NoError(t, err)
	assert.Equal(t, int64(2), id)

	infos, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)

	assert.Equal(t, int64(1), infos[0].ID)
	assert.Equal(t, "0.9.0", infos[0].Version.String())
	assert.Equal(t, 2, infos[0].Functions)
	assert.False(t, infos[0].CapturedAt.IsZero())

	assert.Equal(t, int64(2), infos[1].ID)
	assert.Equal(t, 1, infos[1].Functions)
}

func TestList_Empty(t *testing.T) {
	store := openStore(t)
	infos, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, infos)
}

func TestList_BadTimestamp(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	_, err := store.db.ExecContext(ctx,
		`INSERT INTO snapshots
			(captured_at, api_level, api_compatible, major, minor, patch, prerelease, payload)
		 VALUES (?, 12, 0, 0, 9, 0, 0, ?)`,
		"not a timestamp", []byte{0x80})
	require.NoError(t, err)

	_, err = store.List(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing captured_at")
}

func TestPayload(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	payload := []byte{0x82, 0x01, 0x02}
	id, err := store.Save(ctx, rootWithFunctions(9), payload)
	require.NoError(t, err)

	got, err := store.Payload(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	_, err = store.Payload(ctx, 99)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestCompareSnapshots(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	older, err := store.Save(ctx,
		rootWithFunctions(9, fn("nvim_get_mode"), fn("buffer_get_line"), fn("nvim_subscribe")),
		[]byte{0x80})
	require.NoError(t, err)

	newer, err := store.Save(ctx,
		rootWithFunctions(10, fn("nvim_get_mode"), deprecatedFn("nvim_subscribe"), fn("nvim_exec2")),
		[]byte{0x80})
	require.NoError(t, err)

	diff, err := store.CompareSnapshots(ctx, older, newer)
	require.NoError(t, err)

	assert.Equal(t, []string{"nvim_exec2"}, diff.Added)
	assert.Equal(t, []string{"buffer_get_line"}, diff.Removed)
	assert.Equal(t, []string{"nvim_subscribe"}, diff.Deprecated)
	assert.False(t, diff.Empty())
}

func TestCompareSnapshots_NoChanges(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	a, err := store.Save(ctx, rootWithFunctions(9, fn("nvim_get_mode")), []byte{0x80})
	require.NoError(t, err)
	b, err := store.Save(ctx, rootWithFunctions(9, fn("nvim_get_mode")), []byte{0x80})
	require.NoError(t, err)

	diff, err := store.CompareSnapshots(ctx, a, b)
	require.NoError(t, err)
	assert.True(t, diff.Empty())
}

func TestCompareSnapshots_MissingSnapshot(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	id, err := store.Save(ctx, rootWithFunctions(9), []byte{0x80})
	require.NoError(t, err)

	_, err = store.CompareSnapshots(ctx, id, 42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snapshot 42 not found")
}

func TestOpen_Reopen(t *testing.T) {
	dir := t.TempDir()

	store, err := Open(dir)
	require.NoError(t, err)
	_, err = store.Save(context.Background(), rootWithFunctions(9, fn("nvim_get_mode")), []byte{0x80})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := Open(dir)
	require.NoError(t, err)
	defer reopened.Close()

	infos, err := reopened.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, infos, 1)
}
