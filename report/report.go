// Package report renders comparison results for a terminal.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/input-output-hk/cookbook-status/compare"
	"github.com/input-output-hk/cookbook-status/diff"
	"github.com/input-output-hk/cookbook-status/search"
)

// Default column headers.
const (
	DefaultServerHeader = "Chef server checksum"
	DefaultSourceHeader = "Source checksum"
)

// TableOptions configures WriteDiffTable.
type TableOptions struct {
	// ServerHeader and SourceHeader name the checksum columns.
	ServerHeader string
	SourceHeader string

	// WithURI adds a column with the server URL of each file.
	WithURI bool

	// URLs maps relative paths to server URLs. Missing entries print as
	// diff.None.
	URLs map[string]string
}

func (o TableOptions) headers() (string, string) {
	server, source := o.ServerHeader, o.SourceHeader
	if server == "" {
		server = DefaultServerHeader
	}
	if source == "" {
		source = DefaultSourceHeader
	}
	return server, source
}

// WriteDiffTable writes one row per differing path in sorted order. Side A
// of r is the server, side B the source.
func WriteDiffTable(w io.Writer, r diff.Result, opts TableOptions) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	server, source := opts.headers()
	if opts.WithURI {
		fmt.Fprintf(tw, "Filename\t%s\t%s\tURI\n", server, source)
	} else {
		fmt.Fprintf(tw, "Filename\t%s\t%s\n", server, source)
	}

	for _, p := range r.Paths() {
		pair := r[p]
		if !opts.WithURI {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", p, pair.A, pair.B)
			continue
		}
		uri, ok := opts.URLs[p]
		if !ok || uri == "" {
			uri = diff.None
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p, pair.A, pair.B, uri)
	}

	return tw.Flush()
}

// FormatOutcome describes a revision search outcome in one line.
func FormatOutcome(o search.Outcome) string {
	if o.Matched {
		return fmt.Sprintf("exact match at revision %s", o.Revision)
	}
	return fmt.Sprintf("no exact match; closest revision %s differs in %d %s",
		o.Revision, o.Remaining, plural(o.Remaining, "file", "files"))
}

// Writer prints compare results.
type Writer struct {
	out     io.Writer
	table   bool
	options TableOptions
}

// NewWriter returns a Writer printing to out. With table set, mismatches
// are followed by their diff table.
func NewWriter(out io.Writer, table bool, opts TableOptions) *Writer {
	return &Writer{out: out, table: table, options: opts}
}

// Write prints the results of comparing cookbook at version against each
// snapshot. It returns the first write error.
func (w *Writer) Write(cookbook, version string, results []compare.Result) error {
	for _, r := range results {
		if err := w.writeOne(cookbook, version, r); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeOne(cookbook, version string, r compare.Result) error {
	switch {
	case r.Err != nil && r.Diff == nil:
		_, err := fmt.Fprintf(w.out, "Could not compare %s %s cookbook: %v\n", r.Source, cookbook, r.Err)
		return err
	case r.Matched:
		_, err := fmt.Fprintf(w.out, "%s %s cookbook and server version (%s) match.\n",
			title(r.Source), cookbook, version)
		return err
	}

	if _, err := fmt.Fprintf(w.out, "%s %s cookbook and server version (%s) have a mismatch (%d %s).\n",
		title(r.Source), cookbook, version, r.Diff.Count(), plural(r.Diff.Count(), "file", "files")); err != nil {
		return err
	}
	if w.table {
		if err := WriteDiffTable(w.out, r.Diff, w.options); err != nil {
			return err
		}
	}
	if r.Search != nil {
		line := FormatOutcome(*r.Search)
		if r.Search.Matched {
			line = fmt.Sprintf("Found matching revision %s in %s.", r.Search.Revision, r.Origin)
		} else if r.Search.Revision != "" {
			line = "No matching revision in " + r.Origin + "; " + line + "."
		}
		if _, err := fmt.Fprintln(w.out, line); err != nil {
			return err
		}
	}
	if r.Err != nil {
		_, err := fmt.Fprintf(w.out, "Revision search in %s failed: %v\n", r.Origin, r.Err)
		return err
	}
	return nil
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
