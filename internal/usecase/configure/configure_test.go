package configure

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/meetingtool/mt/internal/adapter/configfile"
	"github.com/meetingtool/mt/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockPrompter struct {
	answer    bool
	questions []string
}

func (m *mockPrompter) Confirm(question string) (bool, error) {
	m.questions = append(m.questions, question)
	return m.answer, nil
}

type mockEditor struct {
	edited []string
}

func (m *mockEditor) Edit(ctx context.Context, path string) error {
	m.edited = append(m.edited, path)
	return nil
}

func newTestService(t *testing.T, answer bool) (*Service, *configfile.Repository, *mockPrompter, *mockEditor) {
	t.Helper()
	repo := configfile.New(filepath.Join(t.TempDir(), "mt", "config_v2.toml"))
	p := &mockPrompter{answer: answer}
	e := &mockEditor{}
	return New(repo, p, e, zap.NewNop()), repo, p, e
}

func TestWriteDefault_NewFile(t *testing.T) {
	svc, repo, p, _ := newTestService(t, false)
	ctx := context.Background()

	written, err := svc.WriteDefault(ctx)
	require.NoError(t, err)
	assert.True(t, written)
	assert.Empty(t, p.questions)

	cfg, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(), *cfg)
}

func TestWriteDefault_Existing(t *testing.T) {
	for _, answer := range []bool{false, true} {
		svc, repo, p, _ := newTestService(t, answer)
		ctx := context.Background()

		custom := domain.DefaultConfig()
		custom.Settings.Tolerance = 42
		require.NoError(t, repo.Save(ctx, custom))

		written, err := svc.WriteDefault(ctx)
		require.NoError(t, err)
		assert.Equal(t, answer, written)
		require.Len(t, p.questions, 1)
		assert.Contains(t, p.questions[0], repo.Path())

		cfg, err := repo.Load(ctx)
		require.NoError(t, err)
		if answer {
			assert.Equal(t, domain.DefaultTolerance, cfg.Settings.Tolerance)
		} else {
			assert.Equal(t, 42, cfg.Settings.Tolerance)
		}
	}
}

func TestEdit_CreatesMissingFile(t *testing.T) {
	svc, repo, p, e := newTestService(t, false)
	ctx := context.Background()

	require.NoError(t, svc.Edit(ctx))
	assert.Equal(t, []string{repo.Path()}, e.edited)
	assert.Empty(t, p.questions)

	ok, err := repo.Exists(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, svc.Edit(ctx))
	assert.Len(t, e.edited, 2)
	assert.Empty(t, p.questions)
}
