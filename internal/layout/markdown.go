package layout

import (
	"strconv"
	"strings"
)

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"|", `\|`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
)

// ToMarkdown renders classified, reading-ordered blocks as a Commonmark-
// compatible subset: ATX headings, bold runs (FontWeight >= SemiBold)
// in **…**, italics in *…*, bullet/ordered lists, blockquotes, and pipe
// tables with a separator row (spec.md section 4.5 step 7, section 6's
// Markdown dialect).
func ToMarkdown(blocks []*Block) string {
	var sb strings.Builder
	for i, b := range blocks {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		renderBlock(&sb, b)
	}
	return sb.String()
}

func renderBlock(sb *strings.Builder, b *Block) {
	switch b.Kind {
	case KindHeading:
		sb.WriteString(strings.Repeat("#", b.HeadingLevel))
		sb.WriteString(" ")
		sb.WriteString(renderLine(b.Lines[0]))
	case KindTable:
		renderTable(sb, b.Table)
	case KindList:
		renderList(sb, b)
	case KindBlockquote:
		for i, l := range b.Lines {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString("> ")
			sb.WriteString(renderLine(l))
		}
	default:
		for i, l := range b.Lines {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(renderLine(l))
		}
	}
}

// renderLine escapes and emphasizes a line's words, collapsing runs of
// words sharing the same bold/italic styling into one **…**/*…* span.
func renderLine(l *Line) string {
	var sb strings.Builder
	words := splitPreservingStyle(l)
	for i, run := range words {
		if i > 0 {
			sb.WriteString(" ")
		}
		escaped := markdownEscaper.Replace(run.text)
		switch {
		case run.bold && run.italic:
			sb.WriteString("***" + escaped + "***")
		case run.bold:
			sb.WriteString("**" + escaped + "**")
		case run.italic:
			sb.WriteString("*" + escaped + "*")
		default:
			sb.WriteString(escaped)
		}
	}
	return sb.String()
}

type styledRun struct {
	text         string
	bold, italic bool
}

// splitPreservingStyle groups a line's words into runs of consistent
// bold/italic styling, joined by the same 0.3x-median-advance space
// rule Line.Text applies.
func splitPreservingStyle(l *Line) []styledRun {
	if len(l.Words) == 0 {
		return nil
	}
	threshold := 0.3 * medianAdvances(l.Words)

	var runs []styledRun
	cur := styledRun{
		text:   l.Words[0].Text,
		bold:   isAtLeastSemiBold(l.Words[0].FontWeight),
		italic: l.Words[0].Italic,
	}
	for i := 1; i < len(l.Words); i++ {
		w := l.Words[i]
		bold, italic := isAtLeastSemiBold(w.FontWeight), w.Italic
		gap := w.X - l.Words[i-1].Right()
		sep := ""
		if gap > threshold {
			sep = " "
		}
		if bold == cur.bold && italic == cur.italic {
			cur.text += sep + w.Text
			continue
		}
		runs = append(runs, cur)
		cur = styledRun{text: w.Text, bold: bold, italic: italic}
	}
	runs = append(runs, cur)
	return runs
}

func renderTable(sb *strings.Builder, t *Table) {
	if t == nil || len(t.Rows) == 0 {
		return
	}
	cols := len(t.Rows[0])
	writeRow := func(cells []string) {
		sb.WriteString("|")
		for _, c := range cells {
			sb.WriteString(" ")
			sb.WriteString(markdownEscaper.Replace(c))
			sb.WriteString(" |")
		}
	}
	writeRow(t.Rows[0])
	sb.WriteString("\n|")
	for i := 0; i < cols; i++ {
		sb.WriteString(" --- |")
	}
	for _, row := range t.Rows[1:] {
		sb.WriteString("\n")
		writeRow(row)
	}
}

func renderList(sb *strings.Builder, b *Block) {
	for i, l := range b.Lines {
		if i > 0 {
			sb.WriteString("\n")
		}
		text := l.Text()
		body := bulletPrefix.ReplaceAllString(text, "")
		body = orderedPrefix.ReplaceAllString(body, "")
		if b.ListOrdered {
			sb.WriteString(strconv.Itoa(i+1) + ". " + markdownEscaper.Replace(body))
		} else {
			sb.WriteString("- " + markdownEscaper.Replace(body))
		}
	}
}
