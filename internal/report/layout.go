// Package report renders a validated question set as a printable quiz:
// numbered questions with lettered choices, followed by an answer key on
// its own page.
package report

import (
	"fmt"
	"strings"

	"github.com/pavelanni/studybuddy/internal/model"
)

// Page geometry in millimetres (A4 portrait).
const (
	PageWidth  = 210.0
	Margin     = 20.0
	Top        = 20.0
	LineHeight = 7.0
	// BreakY starts a new page when the next question would begin below it.
	BreakY = 250.0
	// Bottom is the lowest baseline any line may use.
	Bottom = 297.0 - Margin

	titleSize = 16.0
	keySize   = 14.0
	bodySize  = 12.0

	maxLineRunes = 80
	choiceIndent = 10.0
)

// Align is the horizontal anchor of a line's X coordinate.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Line is one positioned run of text.
type Line struct {
	Text  string
	X, Y  float64
	Size  float64
	Bold  bool
	Align Align
}

// Page is the ordered set of lines placed on one sheet.
type Page struct {
	Lines []Line
}

// Document is the computed layout of a quiz handout.
type Document struct {
	Pages []Page
	// QuestionPages is the number of leading pages holding questions;
	// the remainder hold the answer key.
	QuestionPages int
}

// Labels are the fixed strings printed on the handout.
type Labels struct {
	DefaultTitle string
	Name         string
	Date         string
	AnswerKey    string
}

// DefaultLabels returns the English labels.
func DefaultLabels() Labels {
	return Labels{
		DefaultTitle: "Quiz",
		Name:         "Name",
		Date:         "Date",
		AnswerKey:    "Answer Key",
	}
}

type builder struct {
	doc  Document
	page *Page
	y    float64
}

func (b *builder) newPage() {
	b.doc.Pages = append(b.doc.Pages, Page{})
	b.page = &b.doc.Pages[len(b.doc.Pages)-1]
	b.y = Top
}

func (b *builder) add(l Line) {
	l.Y = b.y
	b.page.Lines = append(b.page.Lines, l)
}

// fresh reports whether nothing has been placed below the page top yet.
func (b *builder) fresh() bool {
	return b.y == Top
}

// text places pre-wrapped parts at x. A block taller than a whole page
// continues on the next one.
func (b *builder) text(parts []string, x float64) {
	for _, part := range parts {
		if b.y > Bottom {
			b.newPage()
		}
		b.add(Line{Text: part, X: x, Size: bodySize})
		b.y += LineHeight
	}
}

// Layout computes page placement for set without rendering anything.
func Layout(set model.QuestionSet, title string, labels Labels) Document {
	if strings.TrimSpace(title) == "" {
		title = labels.DefaultTitle
	}

	b := &builder{}
	b.newPage()

	b.add(Line{Text: title, X: PageWidth / 2, Size: titleSize, Bold: true, Align: AlignCenter})
	b.y += LineHeight * 2
	b.add(Line{Text: labels.Name + ": _______________________", X: Margin, Size: bodySize})
	b.add(Line{Text: labels.Date + ": ________________________", X: PageWidth - Margin, Size: bodySize, Align: AlignRight})
	b.y += LineHeight * 2

	for i, q := range set.Questions {
		stem := wrap(fmt.Sprintf("%d. %s", i+1, q.Text), maxLineRunes)
		choices := make([][]string, len(q.Options))
		height := len(stem)
		for j, opt := range q.Options {
			choices[j] = wrap(fmt.Sprintf("%s) %s", model.Letter(j), opt), maxLineRunes)
			height += len(choices[j])
		}

		// Keep a question with its choices unless it cannot fit any page.
		lastY := b.y + float64(height-1)*LineHeight
		if !b.fresh() && (b.y > BreakY || lastY > Bottom) {
			b.newPage()
		}
		b.text(stem, Margin)
		for _, c := range choices {
			b.text(c, Margin+choiceIndent)
		}
		b.y += LineHeight
	}
	b.doc.QuestionPages = len(b.doc.Pages)

	b.newPage()
	b.add(Line{Text: labels.AnswerKey, X: PageWidth / 2, Size: keySize, Bold: true, Align: AlignCenter})
	b.y += LineHeight * 2
	for i, q := range set.Questions {
		if b.y > BreakY {
			b.newPage()
		}
		b.add(Line{Text: fmt.Sprintf("%d. %s", i+1, model.Letter(q.CorrectIndex)), X: Margin, Size: bodySize})
		b.y += LineHeight
	}

	return b.doc
}

// wrap splits s on word boundaries into lines of at most width runes.
// A single word longer than width is hard-split.
func wrap(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}

	var (
		lines []string
		cur   []rune
	)
	for _, w := range words {
		r := []rune(w)
		for len(r) > width {
			if len(cur) > 0 {
				lines = append(lines, string(cur))
				cur = nil
			}
			lines = append(lines, string(r[:width]))
			r = r[width:]
		}
		switch {
		case len(cur) == 0:
			cur = r
		case len(cur)+1+len(r) <= width:
			cur = append(append(cur, ' '), r...)
		default:
			lines = append(lines, string(cur))
			cur = r
		}
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	return lines
}
