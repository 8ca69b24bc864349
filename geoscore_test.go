package geoscore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashita-ai/geoscore"
)

type fakeProvider struct {
	snapshot geoscore.Snapshot
	err      error
}

func (f fakeProvider) FetchAll(ctx context.Context) (geoscore.Snapshot, error) {
	return f.snapshot, f.err
}

type fakeWriter struct {
	entities []geoscore.Entity
	spaces   []geoscore.Space
	err      error
}

func (f *fakeWriter) WriteResults(ctx context.Context, entities []geoscore.Entity, spaces []geoscore.Space) error {
	f.entities = entities
	f.spaces = spaces
	return f.err
}

func TestNewRequiresProviderAndWriter(t *testing.T) {
	cfg, err := geoscore.NewRankingConfig()
	require.NoError(t, err)

	_, err = geoscore.New(cfg)
	assert.Error(t, err)

	_, err = geoscore.New(cfg, geoscore.WithProvider(fakeProvider{}))
	assert.Error(t, err)

	writer := &fakeWriter{}
	_, err = geoscore.New(cfg, geoscore.WithProvider(fakeProvider{}), geoscore.WithWriter(writer))
	assert.NoError(t, err)
}

func TestNewRejectsNilMetrics(t *testing.T) {
	cfg, err := geoscore.NewRankingConfig()
	require.NoError(t, err)

	_, err = geoscore.New(cfg,
		geoscore.WithProvider(fakeProvider{}),
		geoscore.WithWriter(&fakeWriter{}),
		geoscore.WithMetrics(nil),
	)
	assert.Error(t, err)
}

func TestRunEndToEndWritesRankedOutput(t *testing.T) {
	root := geoscore.Space{ID: "root"}
	child := geoscore.Space{ID: "child", ParentSpaceID: strPtr("root")}
	snapshot := geoscore.Snapshot{
		Spaces: []geoscore.Space{root, child},
		Users:  []geoscore.User{{ID: "u1", MemberSpaces: map[string]struct{}{"root": {}}}},
		Entities: []geoscore.Entity{
			{ID: "e1", Perspectives: []geoscore.Perspective{{ID: "e1_root", EntityID: "e1", SpaceID: "root"}}},
		},
		Votes: []geoscore.Vote{{UserID: "u1", EntityID: "e1", SpaceID: "root", VoteType: geoscore.Upvote, Weight: 1}},
	}

	cfg, err := geoscore.NewRankingConfig()
	require.NoError(t, err)

	writer := &fakeWriter{}
	p, err := geoscore.New(cfg, geoscore.WithProvider(fakeProvider{snapshot: snapshot}), geoscore.WithWriter(writer))
	require.NoError(t, err)

	require.NoError(t, p.Run(context.Background()))

	require.Len(t, writer.entities, 1)
	require.Len(t, writer.spaces, 2)
	assert.Equal(t, "e1", writer.entities[0].ID)
}

func TestRunPropagatesProviderError(t *testing.T) {
	cfg, err := geoscore.NewRankingConfig()
	require.NoError(t, err)

	p, err := geoscore.New(cfg,
		geoscore.WithProvider(fakeProvider{err: assertErr{"boom"}}),
		geoscore.WithWriter(&fakeWriter{}),
	)
	require.NoError(t, err)

	err = p.Run(context.Background())
	assert.Error(t, err)
}

type assertErr struct{ msg string }

func (e assertErr) Error() string { return e.msg }

func strPtr(s string) *string { return &s }
