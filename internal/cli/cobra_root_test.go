package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs one sundial invocation against the database in dir
func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.Command().SetOut(&out)
	root.Command().SetErr(&errOut)
	root.Command().SetArgs(append(args, "--db-dir", dir))
	err := root.Execute()
	return out.String(), err
}

func lineContaining(output, needle string) string {
	for _, line := range strings.Split(output, "\n") {
		if strings.Contains(line, needle) {
			return line
		}
	}
	return ""
}

func TestRootCommand_Categories(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, dir, "setup")
	require.NoError(t, err)
	assert.Contains(t, out, "Uncategorized")

	out, err = execute(t, dir, "category", "add", "Work", "--color", "3366ff")
	require.NoError(t, err)
	assert.Contains(t, out, "Added")
	assert.Contains(t, out, "Work")
	assert.Contains(t, out, "#2")

	out, err = execute(t, dir, "category", "add", "Code review", "--parent", "Work", "--task", "--rating", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "[task open]")
	assert.Contains(t, out, "**")

	out, err = execute(t, dir, "category", "tree")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(lineContaining(out, "Code review"), "  "), out)
	assert.False(t, strings.HasPrefix(lineContaining(out, "Work"), " "), out)

	_, err = execute(t, dir, "category", "update", "2", "Work", "--parent", "3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parentRef")

	_, err = execute(t, dir, "category", "add", "Work")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")

	out, err = execute(t, dir, "category", "show", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "parent: #2")

	out, err = execute(t, dir, "category", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Code review")
	assert.Contains(t, out, "Uncategorized")

	_, err = execute(t, dir, "category", "show", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid category id")

	out, err = execute(t, dir, "category", "list", "--user", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "No categories found")
}

func TestRootCommand_Entries(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, dir, "category", "add", "Work")
	require.NoError(t, err)

	out, err := execute(t, dir, "entry", "add",
		"--start", "2024-01-01 10:00", "--end", "2024-01-02 13:45",
		"--category", "1", "--notes", "release")
	require.NoError(t, err)
	assert.Contains(t, out, "1d 3h 45m")
	assert.Contains(t, out, "Work")

	out, err = execute(t, dir, "entry", "add", "--start", "2024-01-03 09:00", "--end", "2024-01-03 09:20")
	require.NoError(t, err)
	assert.Contains(t, out, "Uncategorized")
	assert.Contains(t, out, "20m")

	out, err = execute(t, dir, "entry", "update", "2",
		"--start", "2024-01-03 09:00", "--end", "2024-01-03 10:00", "--new-category", "Reading")
	require.NoError(t, err)
	assert.Contains(t, out, "Reading")
	assert.Contains(t, out, "1h 0m")

	out, err = execute(t, dir, "entry", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "2 entries")
	assert.Contains(t, out, "1d 4h 45m")

	out, err = execute(t, dir, "entry", "list", "--category", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "1 entries")

	out, err = execute(t, dir, "entry", "list", "--from", "2030-01-01")
	require.NoError(t, err)
	assert.Contains(t, out, "No entries found")

	out, err = execute(t, dir, "entry", "show", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "release")

	_, err = execute(t, dir, "entry", "show", "99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	_, err = execute(t, dir, "entry", "add", "--start", "yesterday", "--end", "2024-01-03 10:00")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "startDateTime")

	_, err = execute(t, dir, "entry", "add", "--start", "2024-01-03 10:00", "--end", "2024-01-03 10:00")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "endDateTime")
}

func TestParseTimeShorthand(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"30m", 30 * time.Minute},
		{"2h", 2 * time.Hour},
		{"1d", 24 * time.Hour},
		{"2w", 14 * 24 * time.Hour},
		{"1mo", 30 * 24 * time.Hour},
		{"1y", 365 * 24 * time.Hour},
	}
	for _, tt := range tests {
		got, err := parseTimeShorthand(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}

	for _, bad := range []string{"", "m", "5", "5s", "-1d"} {
		_, err := parseTimeShorthand(bad)
		assert.Error(t, err, bad)
	}
}

func TestEntryListOptions(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return now }
	defer func() { timeNow = time.Now }()

	search, err := EntryListOptions{Since: "2d", From: "2020-01-01", Category: 4, Limit: 10}.searchOptions()
	require.NoError(t, err)
	require.NotNil(t, search.StartTime)
	assert.True(t, search.StartTime.Equal(now.Add(-48*time.Hour)))
	require.NotNil(t, search.CategoryID)
	assert.Equal(t, int64(4), *search.CategoryID)
	assert.Equal(t, 10, search.Limit)
	assert.Nil(t, search.EndTime)

	search, err = EntryListOptions{From: "2024-01-01", To: "2024-02-01 00:00"}.searchOptions()
	require.NoError(t, err)
	assert.True(t, search.StartTime.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, search.EndTime.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))

	_, err = EntryListOptions{Since: "soon"}.searchOptions()
	assert.Error(t, err)
	_, err = EntryListOptions{To: "later"}.searchOptions()
	assert.Error(t, err)
	_, err = EntryListOptions{Limit: -1}.searchOptions()
	assert.Error(t, err)
}
