package ui

import (
	"io"
	"strings"

	"github.com/valyala/quicktemplate"
)

// Dump writes the tree rooted at b as indented plain text, one element per
// line.
func Dump(w io.Writer, b *Box) {
	qw := quicktemplate.AcquireWriter(w)
	defer quicktemplate.ReleaseWriter(qw)
	dump(qw.N(), b, 0)
}

func DumpString(b *Box) string {
	var sb strings.Builder
	Dump(&sb, b)
	return sb.String()
}

func dump(q *quicktemplate.QWriter, b *Box, indent int) {
	q.S(strings.Repeat("  ", indent))
	q.S(b.Kind.String())
	if b.Name != "" {
		q.S(" #")
		q.S(b.Name)
	}
	if b.Text != "" {
		q.S(" ")
		q.Q(b.Text)
	}
	if b.Key != "" {
		q.S(" [")
		q.S(b.Key)
		q.S("]")
	}
	q.S("\n")
	for _, c := range b.children {
		dump(q, c, indent+1)
	}
}
