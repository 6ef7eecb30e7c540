package main

import (
	"os"
	"path/filepath"
	"testing"

	"letluckdecide/enricher/internal/domain"
	"letluckdecide/enricher/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Subcommands(t *testing.T) {
	root := newRootCommand()

	for _, name := range []string{"extract", "enrich", "run"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}

	enrich, _, err := root.Find([]string{"enrich"})
	require.NoError(t, err)
	for _, flag := range []string{"keywords", "store", "backend", "force", "limit"} {
		assert.NotNil(t, enrich.Flags().Lookup(flag), flag)
	}
}

func TestExtractCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	source := filepath.Join(dir, "data.js")
	keywords := filepath.Join(dir, "out", "keywords.json")
	require.NoError(t, os.WriteFile(source, []byte(`fun: { pool: [{ label: "Bowling" }, { label: "Arcade" }] }`), 0o644))

	root := newRootCommand()
	root.SetArgs([]string{"extract", "--source", source, "--keywords", keywords, "--log-level", "warn"})
	require.NoError(t, root.Execute())

	labels, err := repository.ReadLabels(keywords)
	require.NoError(t, err)
	assert.Equal(t, []string{"Arcade", "Bowling"}, labels[domain.CategoryFun])
	assert.Empty(t, labels[domain.CategoryTravel])
}

func TestEnrichCommand_MissingKeywords(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	root := newRootCommand()
	root.SetArgs([]string{"enrich", "--keywords", filepath.Join(dir, "keywords.json"), "--store", filepath.Join(dir, "enrich.json")})
	assert.ErrorIs(t, root.Execute(), repository.ErrNotFound)
}

func TestEnrichCommand_InvalidBackend(t *testing.T) {
	t.Chdir(t.TempDir())

	root := newRootCommand()
	root.SetArgs([]string{"enrich", "--backend", "sqlite"})
	assert.Error(t, root.Execute())
}
