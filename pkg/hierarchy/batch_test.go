package hierarchy_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/dicomstd/pkg/errors"
	"github.com/agentstation/dicomstd/pkg/hierarchy"
	"github.com/agentstation/dicomstd/pkg/logging"
	"github.com/agentstation/dicomstd/pkg/modules"
)

func batch(n int) []*modules.Module {
	mods := make([]*modules.Module, n)
	for i := range mods {
		mods[i] = moduleWithDepths(fmt.Sprintf("m%d", i), 0, 1, 2, 1, 0)
	}
	return mods
}

func TestBuildAllPreservesOrder(t *testing.T) {
	mods := batch(40)
	b := hierarchy.New(hierarchy.WithLogger(logging.NewNopLogger()))

	res, err := b.BuildAll(context.Background(), mods, hierarchy.BatchOptions{Concurrency: 4})
	require.NoError(t, err)
	require.Len(t, res.Modules, len(mods))
	assert.Empty(t, res.Failures)
	assert.NoError(t, res.Err())

	for i, m := range res.Modules {
		assert.Equal(t, fmt.Sprintf("m%d", i), m.ID)
		assert.Equal(t, fmt.Sprintf("m%d:t0:t1:t2", i), m.Attributes[2].ID)
	}
}

func TestBuildAllFailFast(t *testing.T) {
	mods := batch(10)
	mods[3].Attributes[1].Tag = ""

	res, err := hierarchy.New(hierarchy.WithLogger(logging.NewNopLogger())).
		BuildAll(context.Background(), mods, hierarchy.BatchOptions{Concurrency: 1})
	require.Error(t, err)

	var batchErr *errors.BatchError
	require.True(t, errors.As(err, &batchErr))
	require.Len(t, batchErr.Failures, 1)
	assert.Equal(t, "m3", batchErr.Failures[0].Module)

	var tagErr *errors.MalformedTagError
	require.True(t, errors.As(err, &tagErr))
	assert.Equal(t, 1, tagErr.Index)
	assert.Empty(t, res.Modules)
}

func TestBuildAllKeepGoing(t *testing.T) {
	mods := batch(6)
	mods[1].Attributes[0].Tag = ">"
	mods[4].Attributes[3].Tag = "()"

	res, err := hierarchy.New(hierarchy.WithLogger(logging.NewNopLogger())).
		BuildAll(context.Background(), mods, hierarchy.BatchOptions{KeepGoing: true})
	require.NoError(t, err)

	got := make([]string, len(res.Modules))
	for i, m := range res.Modules {
		got[i] = m.ID
	}
	assert.Equal(t, []string{"m0", "m2", "m3", "m5"}, got)

	require.Len(t, res.Failures, 2)
	assert.Equal(t, "m1", res.Failures[0].Module)
	assert.Equal(t, "m4", res.Failures[1].Module)
	assert.True(t, errors.IsMalformedTag(res.Err()))
}

func TestBuildAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := hierarchy.New(hierarchy.WithLogger(logging.NewNopLogger())).
		BuildAll(ctx, batch(5), hierarchy.BatchOptions{KeepGoing: true})
	assert.True(t, errors.IsCanceled(err))
	assert.Empty(t, res.Failures)
}

func TestBuildAllEmpty(t *testing.T) {
	res, err := hierarchy.New().BuildAll(context.Background(), nil, hierarchy.BatchOptions{})
	require.NoError(t, err)
	assert.Empty(t, res.Modules)
}
