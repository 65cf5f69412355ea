package report

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavelanni/studybuddy/internal/i18n"
	"github.com/pavelanni/studybuddy/internal/model"
)

func makeSet(n int) model.QuestionSet {
	set := model.QuestionSet{Requested: n}
	for i := range n {
		set.Questions = append(set.Questions, model.Question{
			Text:         "What is question number " + string(rune('A'+i%26)) + "?",
			Options:      [4]string{"first", "second", "third", "fourth"},
			CorrectIndex: i % 4,
		})
	}
	return set
}

func pageText(p Page) []string {
	var out []string
	for _, l := range p.Lines {
		out = append(out, l.Text)
	}
	return out
}

func TestLayoutSinglePage(t *testing.T) {
	doc := Layout(makeSet(4), "Biology Quiz", DefaultLabels())

	require.Len(t, doc.Pages, 2)
	assert.Equal(t, 1, doc.QuestionPages)

	first := doc.Pages[0].Lines
	assert.Equal(t, "Biology Quiz", first[0].Text)
	assert.Equal(t, AlignCenter, first[0].Align)
	assert.Equal(t, Top, first[0].Y)
	assert.Equal(t, "Name: _______________________", first[1].Text)
	assert.Equal(t, AlignRight, first[2].Align)

	text := pageText(doc.Pages[0])
	assert.Contains(t, text, "1. What is question number A?")
	assert.Contains(t, text, "a) first")
	assert.Contains(t, text, "d) fourth")

	key := pageText(doc.Pages[1])
	assert.Equal(t, []string{"Answer Key", "1. a", "2. b", "3. c", "4. d"}, key)
}

func TestLayoutLineSpacing(t *testing.T) {
	doc := Layout(makeSet(1), "T", DefaultLabels())
	lines := doc.Pages[0].Lines

	// title, name, date, question, four choices
	require.Len(t, lines, 8)
	assert.Equal(t, Top+4*LineHeight, lines[3].Y)
	for i := 4; i < 8; i++ {
		assert.Equal(t, lines[i-1].Y+LineHeight, lines[i].Y)
		assert.Equal(t, Margin+choiceIndent, lines[i].X)
	}
}

func TestLayoutPaginates(t *testing.T) {
	// Each question takes six lines; the sixth starts past BreakY.
	doc := Layout(makeSet(5), "T", DefaultLabels())
	assert.Equal(t, 1, doc.QuestionPages)

	doc = Layout(makeSet(6), "T", DefaultLabels())
	require.Equal(t, 2, doc.QuestionPages)
	second := doc.Pages[1].Lines
	assert.Equal(t, "6. What is question number F?", second[0].Text)
	assert.Equal(t, Top, second[0].Y)

	doc = Layout(makeSet(40), "T", DefaultLabels())
	for _, p := range doc.Pages {
		for _, l := range p.Lines {
			assert.LessOrEqual(t, l.Y, BreakY+6*LineHeight, "line %q overflows the page", l.Text)
		}
	}
	keyPages := doc.Pages[doc.QuestionPages:]
	var keys int
	for _, p := range keyPages {
		for _, l := range p.Lines {
			if l.Text != "Answer Key" {
				keys++
			}
		}
	}
	assert.Equal(t, 40, keys)
	assert.Greater(t, len(keyPages), 1, "a long answer key paginates too")
}

func TestLayoutDefaultTitle(t *testing.T) {
	doc := Layout(makeSet(1), "  ", DefaultLabels())
	assert.Equal(t, "Quiz", doc.Pages[0].Lines[0].Text)
}

func TestLayoutWrapsLongText(t *testing.T) {
	set := makeSet(1)
	set.Questions[0].Text = strings.Repeat("photosynthesis ", 12)
	doc := Layout(set, "T", DefaultLabels())

	lines := doc.Pages[0].Lines
	assert.True(t, strings.HasPrefix(lines[3].Text, "1. photosynthesis"))
	assert.Equal(t, lines[3].Y+LineHeight, lines[4].Y)
	assert.Equal(t, "a) first", lines[len(lines)-4].Text)
}

func TestWrap(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  []string
	}{
		{"", 10, []string{""}},
		{"short", 10, []string{"short"}},
		{"one two three", 7, []string{"one two", "three"}},
		{"abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"ab  cd", 10, []string{"ab cd"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, wrap(tt.in, tt.width), "wrap(%q, %d)", tt.in, tt.width)
	}
}

func TestExport(t *testing.T) {
	data, err := Export(makeSet(12), "Cells – Unit 1", DefaultLabels())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.Contains(t, string(data[len(data)-16:]), "%%EOF")
}

func TestExportEmpty(t *testing.T) {
	_, err := Export(model.QuestionSet{}, "T", DefaultLabels())
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestLocalizedLabels(t *testing.T) {
	require.NoError(t, i18n.Init("en"))

	en := LocalizedLabels(context.Background())
	assert.Equal(t, DefaultLabels(), en)

	ctx := i18n.WithLocalizer(context.Background(), i18n.NewLocalizer("ru"))
	ru := LocalizedLabels(ctx)
	assert.Equal(t, "Ключ ответов", ru.AnswerKey)
}

func assertWithinPage(t *testing.T, doc Document) {
	t.Helper()
	for i, p := range doc.Pages {
		for _, l := range p.Lines {
			assert.LessOrEqual(t, l.Y, Bottom, "page %d: line %q runs off the sheet", i+1, l.Text)
		}
	}
}

func TestLayoutKeepsTallQuestionTogether(t *testing.T) {
	set := makeSet(5)
	// Question 5 starts above BreakY but its wrapped stem cannot fit below it.
	set.Questions[4].Text = strings.Repeat("photosynthesis ", 60)
	doc := Layout(set, "T", DefaultLabels())

	assertWithinPage(t, doc)
	require.Equal(t, 2, doc.QuestionPages)
	second := doc.Pages[1].Lines
	assert.True(t, strings.HasPrefix(second[0].Text, "5. photosynthesis"))
	assert.Equal(t, Top, second[0].Y)
	assert.Equal(t, "d) fourth", second[len(second)-1].Text)
}

func TestLayoutSplitsQuestionTallerThanPage(t *testing.T) {
	set := makeSet(1)
	set.Questions[0].Text = strings.Repeat("chlorophyll ", 400)
	doc := Layout(set, "T", DefaultLabels())

	assertWithinPage(t, doc)
	assert.Greater(t, doc.QuestionPages, 1)
	last := doc.Pages[doc.QuestionPages-1].Lines
	assert.Equal(t, "d) fourth", last[len(last)-1].Text)
}
