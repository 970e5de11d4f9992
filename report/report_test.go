package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/cookbook-status/compare"
	"github.com/input-output-hk/cookbook-status/diff"
	"github.com/input-output-hk/cookbook-status/errors"
	"github.com/input-output-hk/cookbook-status/search"
)

func sampleDiff() diff.Result {
	return diff.Result{
		"recipes/default.rb": {A: diff.Side{Checksum: "aaa", Present: true}, B: diff.Side{Checksum: "bbb", Present: true}},
		"metadata.rb":        {A: diff.Side{Checksum: "ccc", Present: true}},
	}
}

func TestWriteDiffTable(t *testing.T) {
	var buf bytes.Buffer
	err := WriteDiffTable(&buf, sampleDiff(), TableOptions{ServerHeader: "Server", SourceHeader: "Local"})
	require.NoError(t, err)

	want := strings.Join([]string{
		"Filename            Server  Local",
		"metadata.rb         ccc     NONE",
		"recipes/default.rb  aaa     bbb",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestWriteDiffTable_WithURI(t *testing.T) {
	var buf bytes.Buffer
	err := WriteDiffTable(&buf, sampleDiff(), TableOptions{
		WithURI: true,
		URLs:    map[string]string{"recipes/default.rb": "https://s3/default.rb"},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"Filename", "Chef", "server", "checksum", "Source", "checksum", "URI"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"metadata.rb", "ccc", "NONE", "NONE"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"recipes/default.rb", "aaa", "bbb", "https://s3/default.rb"}, strings.Fields(lines[2]))
}

func TestWriteDiffTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDiffTable(&buf, diff.Result{}, TableOptions{}))
	assert.Equal(t, "Filename  Chef server checksum  Source checksum\n", buf.String())
}

func TestFormatOutcome(t *testing.T) {
	tests := []struct {
		name string
		in   search.Outcome
		want string
	}{
		{
			name: "match",
			in:   search.Outcome{Revision: "abc123", Matched: true, Examined: 4},
			want: "exact match at revision abc123",
		},
		{
			name: "one file",
			in:   search.Outcome{Revision: "def456", Remaining: 1},
			want: "no exact match; closest revision def456 differs in 1 file",
		},
		{
			name: "several files",
			in:   search.Outcome{Revision: "def456", Remaining: 3},
			want: "no exact match; closest revision def456 differs in 3 files",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatOutcome(tt.in))
		})
	}
}

func TestWriter(t *testing.T) {
	results := []compare.Result{
		{Source: "remote", Origin: "https://git.example.com/apache2.git", Matched: true},
		{
			Source: "local",
			Origin: "/srv/chef",
			Diff:   sampleDiff(),
			Search: &search.Outcome{Revision: "abc123", Matched: true, Examined: 2},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf, false, TableOptions{}).Write("apache2", "1.2.0", results))

	want := strings.Join([]string{
		"Remote apache2 cookbook and server version (1.2.0) match.",
		"Local apache2 cookbook and server version (1.2.0) have a mismatch (2 files).",
		"Found matching revision abc123 in /srv/chef.",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestWriter_TableAndClosest(t *testing.T) {
	results := []compare.Result{{
		Source: "local",
		Origin: "/srv/chef",
		Diff:   sampleDiff(),
		Search: &search.Outcome{Revision: "def456", Remaining: 1, Examined: 7},
	}}

	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf, true, TableOptions{}).Write("apache2", "1.2.0", results))

	out := buf.String()
	assert.Contains(t, out, "Filename")
	assert.Contains(t, out, "metadata.rb")
	assert.Contains(t, out, "No matching revision in /srv/chef; no exact match; closest revision def456 differs in 1 file.")
}

func TestWriter_Errors(t *testing.T) {
	results := []compare.Result{
		{Source: "remote", Origin: "https://x", Err: errors.New(errors.CodeSnapshotUnavailable, "clone failed")},
		{
			Source: "local",
			Origin: "/srv/chef",
			Diff:   sampleDiff(),
			Search: &search.Outcome{Revision: "r1", Remaining: 2, Examined: 1},
			Err:    errors.New(errors.CodeSnapshotUnavailable, "history broken"),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf, false, TableOptions{}).Write("apache2", "_latest", results))

	out := buf.String()
	assert.Contains(t, out, "Could not compare remote apache2 cookbook: clone failed")
	assert.Contains(t, out, "have a mismatch (2 files)")
	assert.Contains(t, out, "closest revision r1 differs in 2 files")
	assert.Contains(t, out, "Revision search in /srv/chef failed: history broken")
}
