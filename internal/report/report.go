package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/pavelanni/studybuddy/internal/i18n"
	"github.com/pavelanni/studybuddy/internal/model"
)

// ErrEmpty is returned when there are no questions to print.
var ErrEmpty = errors.New("report: question set is empty")

const fontFamily = "Helvetica"

// LocalizedLabels returns the handout labels for the language in ctx.
func LocalizedLabels(ctx context.Context) Labels {
	return Labels{
		DefaultTitle: i18n.T(ctx, "ReportDefaultTitle"),
		Name:         i18n.T(ctx, "ReportName"),
		Date:         i18n.T(ctx, "ReportDate"),
		AnswerKey:    i18n.T(ctx, "ReportAnswerKey"),
	}
}

// Export renders set as an A4 PDF and returns the document bytes.
// Text is encoded as cp1252 for the core fonts.
func Export(set model.QuestionSet, title string, labels Labels) ([]byte, error) {
	if set.Len() == 0 {
		return nil, ErrEmpty
	}
	doc := Layout(set, title, labels)

	pdf := fpdf.New("P", "mm", "A4", "")
	if title == "" {
		title = labels.DefaultTitle
	}
	pdf.SetTitle(title, true)
	pdf.SetCreator("studybuddy", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, page := range doc.Pages {
		pdf.AddPage()
		for _, l := range page.Lines {
			style := ""
			if l.Bold {
				style = "B"
			}
			pdf.SetFont(fontFamily, style, l.Size)

			text := tr(l.Text)
			x := l.X
			switch l.Align {
			case AlignCenter:
				x -= pdf.GetStringWidth(text) / 2
			case AlignRight:
				x -= pdf.GetStringWidth(text)
			}
			pdf.Text(x, l.Y, text)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
