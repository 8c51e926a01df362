package tools_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/agentsync/pkg/config"
	"github.com/arthur-debert/agentsync/pkg/errors"
	"github.com/arthur-debert/agentsync/pkg/paths"
	"github.com/arthur-debert/agentsync/pkg/tools"
	"github.com/arthur-debert/agentsync/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable() *tools.Table {
	return tools.NewTable(map[string]map[string]string{
		"claude": {
			config.KindCommands: "~/.claude/commands",
			config.KindSkills:   "~/.claude/skills",
		},
		"codebuddy": {
			config.KindCommands: "~/.codebuddy/commands",
			config.KindSkills:   "~/.codebuddy/skills",
		},
		"cursor": {
			config.KindSkills: "/opt/cursor/skills",
		},
	})
}

func homeExpander(home string) tools.Expander {
	return func(p string) (string, error) {
		return paths.ExpandHome(p, home), nil
	}
}

func TestParseSelection(t *testing.T) {
	for _, in := range []string{"commands", "skills", "both", " Both "} {
		sel, err := tools.ParseSelection(in)
		require.NoError(t, err, in)
		assert.Equal(t, strings.ToLower(strings.TrimSpace(in)), string(sel))
	}

	_, err := tools.ParseSelection("agents")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidSelection))
}

func TestSelection_Kinds(t *testing.T) {
	assert.Equal(t, []string{"commands"}, tools.SelectCommands.Kinds())
	assert.Equal(t, []string{"skills"}, tools.SelectSkills.Kinds())
	assert.Equal(t, []string{"commands", "skills"}, tools.SelectBoth.Kinds())
	assert.Nil(t, tools.Selection("x").Kinds())
}

func TestParseTargets(t *testing.T) {
	assert.Equal(t, []string{"claude"}, tools.ParseTargets("claude"))
	assert.Equal(t, []string{"claude", "codebuddy"}, tools.ParseTargets(" claude , codebuddy,claude"))
	assert.Equal(t, []string{"claude", ""}, tools.ParseTargets("claude,"))
}

func TestTable_FromConfig(t *testing.T) {
	cfg, err := config.Load(config.LoadOptions{})
	require.NoError(t, err)

	table := tools.FromConfig(cfg)
	assert.Equal(t, []string{"claude", "codebuddy"}, table.Names())

	dir, ok := table.Dir("claude", config.KindSkills)
	assert.True(t, ok)
	assert.Equal(t, "~/.claude/skills", dir)

	// The table is a copy
	cfg.Tools["claude"][config.KindSkills] = "/elsewhere"
	dir, _ = table.Dir("claude", config.KindSkills)
	assert.Equal(t, "~/.claude/skills", dir)
}

func TestBuildJobs(t *testing.T) {
	expand := homeExpander("/home/u")

	t.Run("both kinds for several tools", func(t *testing.T) {
		jobs, err := tools.BuildJobs(testTable(), "~/.agents", []string{"codebuddy", "claude"}, tools.SelectBoth, expand)
		require.NoError(t, err)

		assert.Equal(t, []types.Job{
			{Label: "codebuddy/commands", SourceDir: "/home/u/.agents/commands", TargetDir: "/home/u/.codebuddy/commands"},
			{Label: "codebuddy/skills", SourceDir: "/home/u/.agents/skills", TargetDir: "/home/u/.codebuddy/skills"},
			{Label: "claude/commands", SourceDir: "/home/u/.agents/commands", TargetDir: "/home/u/.claude/commands"},
			{Label: "claude/skills", SourceDir: "/home/u/.agents/skills", TargetDir: "/home/u/.claude/skills"},
		}, jobs)
	})

	t.Run("single kind", func(t *testing.T) {
		jobs, err := tools.BuildJobs(testTable(), "/srv/agents", []string{"claude"}, tools.SelectSkills, expand)
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		assert.Equal(t, filepath.Join("/srv/agents", "skills"), jobs[0].SourceDir)
	})

	t.Run("tool missing a kind", func(t *testing.T) {
		jobs, err := tools.BuildJobs(testTable(), "~/.agents", []string{"cursor"}, tools.SelectBoth, expand)
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		assert.Equal(t, "cursor/skills", jobs[0].Label)
	})

	t.Run("unknown tool aborts before any job", func(t *testing.T) {
		jobs, err := tools.BuildJobs(testTable(), "~/.agents", []string{"claude", "vim"}, tools.SelectBoth, expand)
		require.Error(t, err)
		assert.Nil(t, jobs)
		assert.True(t, errors.IsErrorCode(err, errors.ErrUnknownTool))
		assert.Contains(t, err.Error(), `"vim"`)
		assert.Contains(t, err.Error(), "claude, codebuddy, cursor")
		assert.Equal(t, "vim", errors.GetErrorDetails(err)["tool"])
	})

	t.Run("empty name is unknown", func(t *testing.T) {
		_, err := tools.BuildJobs(testTable(), "~/.agents", tools.ParseTargets("claude,"), tools.SelectBoth, expand)
		assert.True(t, errors.IsErrorCode(err, errors.ErrUnknownTool))
	})

	t.Run("no names", func(t *testing.T) {
		_, err := tools.BuildJobs(testTable(), "~/.agents", nil, tools.SelectBoth, expand)
		assert.True(t, errors.IsErrorCode(err, errors.ErrUnknownTool))
	})

	t.Run("shared target directory is rejected", func(t *testing.T) {
		table := tools.NewTable(map[string]map[string]string{
			"claude": {config.KindSkills: "~/.claude/skills"},
			"alias":  {config.KindSkills: "~/.claude/skills/"},
		})
		jobs, err := tools.BuildJobs(table, "~/.agents", []string{"claude", "alias"}, tools.SelectBoth, expand)
		require.Error(t, err)
		assert.Nil(t, jobs)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
		assert.Contains(t, err.Error(), "claude/skills and alias/skills")
	})

	t.Run("same directory for two kinds of one tool", func(t *testing.T) {
		table := tools.NewTable(map[string]map[string]string{
			"flat": {config.KindCommands: "/opt/flat", config.KindSkills: "/opt/flat"},
		})
		_, err := tools.BuildJobs(table, "~/.agents", []string{"flat"}, tools.SelectBoth, expand)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))

		jobs, err := tools.BuildJobs(table, "~/.agents", []string{"flat"}, tools.SelectSkills, expand)
		require.NoError(t, err)
		assert.Len(t, jobs, 1)
	})

	t.Run("expander error", func(t *testing.T) {
		failing := func(p string) (string, error) {
			return "", errors.New(errors.ErrInvalidInput, "boom")
		}
		_, err := tools.BuildJobs(testTable(), "~/.agents", []string{"claude"}, tools.SelectBoth, failing)
		assert.Error(t, err)
	})
}
