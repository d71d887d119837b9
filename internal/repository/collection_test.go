package repository

import (
	"context"
	"testing"
	"time"

	"seedbreed/internal/domain"
	"seedbreed/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestKVCollection_MissingIsEmpty(t *testing.T) {
	repos := NewRepositories(store.NewMemoryKV(), zap.NewNop())

	list, err := repos.Sowings.ReadAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Len(t, list, 0)
}

func TestKVCollection_MalformedFailsSoft(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	require.NoError(t, kv.Set(ctx, KeyPrefix+TestCollection, `{"not":"a list"`))

	repos := NewRepositories(kv, zap.NewNop())
	list, err := repos.TestRecords.ReadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 0)
}

func TestKVCollection_ReplaceAllOverwrites(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	repos := NewRepositories(kv, zap.NewNop())

	first := []domain.IntroductionRecord{
		{Key: 1, Descriptor: domain.Descriptor{Code: "YZ001"}},
		{Key: 2, Descriptor: domain.Descriptor{Code: "YZ002"}},
	}
	require.NoError(t, repos.Introductions.ReplaceAll(ctx, first))
	require.NoError(t, repos.Introductions.ReplaceAll(ctx, first[1:]))

	list, err := repos.Introductions.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "YZ002", list[0].Code)

	raw, err := kv.Get(ctx, KeyPrefix+IntroductionCollection)
	require.NoError(t, err)
	assert.Contains(t, raw, `"code":"YZ002"`)
}

func TestKVCollection_NilSavedAsEmptyArray(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	repos := NewRepositories(kv, zap.NewNop())

	require.NoError(t, repos.SavedSeeds.ReplaceAll(ctx, nil))
	raw, err := kv.Get(ctx, KeyPrefix+SavedSeedCollection)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestKeySeq_AboveExistingMax(t *testing.T) {
	now := time.UnixMilli(1000)
	existing := []domain.SowingRecord{{Key: 5000}, {Key: 12}}

	seq := NewKeySeq(now, existing)
	assert.Equal(t, int64(5001), seq.Next())
	assert.Equal(t, int64(5002), seq.Next())

	seq = NewKeySeq[domain.SowingRecord](now, nil)
	assert.Equal(t, int64(1000), seq.Next())
}

func TestIndexOfKeyAndRemoveKeys(t *testing.T) {
	list := []domain.SavedSeedRecord{{Key: 1}, {Key: 2}, {Key: 3}}
	assert.Equal(t, 1, IndexOfKey(list, 2))
	assert.Equal(t, -1, IndexOfKey(list, 9))

	out, n := RemoveKeys(list, []int64{1, 3, 9})
	assert.Equal(t, 2, n)
	require.Len(t, out, 1)
	assert.Equal(t, int64(2), out[0].Key)
	// 原列表不被修改
	assert.Len(t, list, 3)
}
