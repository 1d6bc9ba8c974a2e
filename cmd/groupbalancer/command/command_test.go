package command

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRoster(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRoster(t *testing.T) {
	path := writeRoster(t, strings.Join([]string{
		"Name,Score",
		"alice*,85",
		"bob,42",
		"carol*,77",
		"dave,60",
	}, "\n"))

	cli := &CLI{Roster: path, Marker: "*", Groups: 2}
	require.NoError(t, cli.loadRoster())

	require.Len(t, cli.participants, 4)
	stars := 0
	for _, p := range cli.participants {
		if p.Advantaged {
			stars++
		}
	}
	assert.Equal(t, 2, stars)
}

func TestLoadRoster_MissingFile(t *testing.T) {
	cli := &CLI{Roster: filepath.Join(t.TempDir(), "nope.csv"), Marker: "*"}
	assert.Error(t, cli.loadRoster())
}

func TestLoadTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.tmpl")
	require.NoError(t, os.WriteFile(path, []byte("{{.GroupCount}}"), 0o644))

	cli := &CLI{Template: path}
	require.NoError(t, cli.loadTemplate())
	assert.Equal(t, "{{.GroupCount}}", cli.template)

	empty := &CLI{}
	require.NoError(t, empty.loadTemplate())
	assert.Empty(t, empty.template)
}

func TestRun(t *testing.T) {
	path := writeRoster(t, strings.Join([]string{
		"Name,Score",
		"alice*,10",
		"bob,20",
		"carol*,30",
		"dave,40",
		"erin,50",
		"frank,60",
	}, "\n"))

	outDir := filepath.Join(t.TempDir(), "out")
	cli := &CLI{
		Roster:    path,
		Groups:    2,
		Budget:    300 * time.Millisecond,
		OutputDir: outDir,
		Marker:    "*",
		Seed:      1,
		Workers:   2,
	}
	require.NoError(t, cli.Run())

	for _, name := range []string{"with_star_constraint.csv", "no_constraints.csv", "summary.txt"} {
		assert.FileExists(t, filepath.Join(outDir, name))
	}

	b, err := os.ReadFile(filepath.Join(outDir, "summary.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "Group Balancer Results")
	assert.Contains(t, string(b), "6 participants, 2 advantaged")
}

func TestRun_InvalidGroupCount(t *testing.T) {
	path := writeRoster(t, "Name,Score\nalice,1\n")
	cli := &CLI{
		Roster:    path,
		Groups:    5,
		Budget:    100 * time.Millisecond,
		OutputDir: t.TempDir(),
		Marker:    "*",
		Workers:   2,
	}
	assert.Error(t, cli.Run(), "more groups than participants must fail before searching")
}

func TestFormatBest(t *testing.T) {
	assert.Equal(t, "Init...", formatBest(math.Inf(1)))
	assert.Equal(t, "1.2346", formatBest(1.23456))
}
