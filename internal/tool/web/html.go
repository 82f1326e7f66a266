package web

import (
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var skipped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Svg:      true,
	atom.Iframe:   true,
}

var blocks = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Br: true, atom.Li: true, atom.Tr: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Pre: true, atom.Blockquote: true, atom.Section: true, atom.Article: true,
	atom.Header: true, atom.Footer: true, atom.Title: true, atom.Table: true,
	atom.Ul: true, atom.Ol: true, atom.Dt: true, atom.Dd: true, atom.Hr: true,
}

// htmlToText extracts the readable text of a document. Block elements start
// new lines, whitespace outside <pre> collapses, and blank lines are dropped.
func htmlToText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	var w textWriter
	var walk func(n *html.Node, pre bool)
	walk = func(n *html.Node, pre bool) {
		switch n.Type {
		case html.ElementNode:
			if skipped[n.DataAtom] {
				return
			}
			if n.DataAtom == atom.Pre {
				pre = true
			}
			if blocks[n.DataAtom] {
				w.newline()
			}
			if n.DataAtom == atom.Li {
				w.write("- ")
			}
		case html.TextNode:
			if pre {
				w.write(n.Data)
				break
			}
			words := strings.Fields(n.Data)
			if len(words) == 0 {
				w.space()
				break
			}
			if startsWithSpace(n.Data) {
				w.space()
			}
			w.write(strings.Join(words, " "))
			if endsWithSpace(n.Data) {
				w.space()
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, pre)
		}
		if n.Type == html.ElementNode && blocks[n.DataAtom] {
			w.newline()
		}
	}
	walk(doc, false)

	var lines []string
	for line := range strings.Lines(w.String()) {
		if line = strings.TrimRight(line, " \t\r\n"); strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}

// textWriter remembers the last byte written so separators are never doubled.
type textWriter struct {
	strings.Builder
	last byte
}

func (w *textWriter) write(s string) {
	if s == "" {
		return
	}
	w.WriteString(s)
	w.last = s[len(s)-1]
}

func (w *textWriter) space() {
	if w.Len() > 0 && w.last != ' ' && w.last != '\n' {
		w.write(" ")
	}
}

func (w *textWriter) newline() {
	if w.Len() > 0 && w.last != '\n' {
		w.write("\n")
	}
}

func startsWithSpace(s string) bool {
	return s != "" && strings.ContainsRune(" \t\r\n\f", rune(s[0]))
}

func endsWithSpace(s string) bool {
	return s != "" && strings.ContainsRune(" \t\r\n\f", rune(s[len(s)-1]))
}
