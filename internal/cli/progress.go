package cli

import (
	"fmt"
	"io"

	"github.com/cheggaaa/pb/v3"
)

const (
	boundedTemplate   = `{{string . "label"}} {{counters . }} {{bar . }} {{string . "status"}}`
	unboundedTemplate = `{{string . "label"}} {{counters . }} {{cycle . "|" "/" "-" "\\" }} {{string . "status"}}`
)

// barProgress shows a revision search on a progress bar. total is the
// revision limit, 0 when the history length is unknown.
type barProgress struct {
	bar *pb.ProgressBar
}

func newBarProgress(w io.Writer, label string, total int) *barProgress {
	tmpl := unboundedTemplate
	if total > 0 {
		tmpl = boundedTemplate
	}
	bar := pb.New(total)
	bar.SetWriter(w)
	bar.SetTemplateString(tmpl)
	bar.Set("label", "searching "+label+" history")
	bar.Start()
	return &barProgress{bar: bar}
}

func (p *barProgress) Step(revision string, remaining int) {
	p.bar.Set("status", fmt.Sprintf("%s (%d differing)", shortRevision(revision), remaining))
	p.bar.Increment()
}

func (p *barProgress) Done() {
	p.bar.Finish()
}

func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}
