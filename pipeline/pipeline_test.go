package pipeline

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/transit-ingest/domain"
)

type fakeTarget struct {
	name   string
	err    error
	puts   atomic.Int64
	ctxErr error
}

func (f *fakeTarget) Name() string { return f.name }

func (f *fakeTarget) Put(ctx context.Context, namespace, key string, records ...domain.Record) (bool, error) {
	f.puts.Add(1)
	f.ctxErr = ctx.Err()
	if f.err != nil {
		return false, f.err
	}
	return len(records) > 0, nil
}

func TestWriteHandleCollectsAllTargetResults(t *testing.T) {
	okTarget := &fakeTarget{name: "objectstore"}
	badTarget := &fakeTarget{name: "warehouse", err: errors.New("insert rejected")}

	p := New(nil, nil, []BoundTarget{
		{Target: okTarget, Namespace: "transit"},
		{Target: badTarget, Namespace: "dataset"},
	}, zerolog.Nop(), nil)

	h := p.write(context.Background(), "positions-1", domain.AsRecords([]domain.Path{{ID: 1}}))
	results := h.Wait()
	require.Len(t, results, 2)

	byTarget := map[string]WriteResult{}
	for _, r := range results {
		byTarget[r.Target] = r
	}
	assert.NoError(t, byTarget["objectstore"].Err)
	assert.ErrorContains(t, byTarget["warehouse"].Err, "insert rejected")
	assert.Equal(t, "dataset", byTarget["warehouse"].Namespace)
	assert.Equal(t, "positions-1", byTarget["warehouse"].Key)
}

func TestBackgroundWritesOutliveCallerContext(t *testing.T) {
	target := &fakeTarget{name: "objectstore"}
	p := New(nil, nil, []BoundTarget{{Target: target, Namespace: "transit"}}, zerolog.Nop(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h := p.write(ctx, "k", domain.AsRecords([]domain.Path{{ID: 1}}))
	results := h.Wait()
	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
	// The write context must not inherit the caller's cancellation.
	assert.NoError(t, target.ctxErr)
}

func TestWriteHandleNilWait(t *testing.T) {
	var h *WriteHandle
	assert.Nil(t, h.Wait())
}

func TestLogReporterOnlyReportsFailures(t *testing.T) {
	r := LogReporter{Log: zerolog.Nop(), Sink: "ops-alerts"}
	r.Report(WriteResult{Target: "objectstore"})
	r.Report(WriteResult{Target: "warehouse", Err: errors.New("boom")})
}
