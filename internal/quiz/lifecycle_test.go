package quiz_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavelanni/studybuddy/internal/llm"
	"github.com/pavelanni/studybuddy/internal/quiz"
	"github.com/pavelanni/studybuddy/internal/quizgen"
	"github.com/pavelanni/studybuddy/internal/quizparse"
)

const photosynthesisFour = `{"questions":[
	{"question":"Where does photosynthesis take place?","options":["Mitochondria","Chloroplast","Nucleus","Vacuole"],"correctAnswer":1},
	{"question":"Which pigment absorbs light?","options":["Chlorophyll","Keratin","Hemoglobin","Melanin"],"correctAnswer":0},
	{"question":"Which gas is consumed?","options":["O2","N2","CO2","He"],"correctAnswer":"2"},
	{"question":"What sugar is produced?","options":["Sucrose","Lactose","Maltose","Glucose"],"correctAnswer":3}
]}`

// noTicks never fires; these tests submit manually.
func noTicks(time.Duration, func()) func() { return func() {} }

func TestPhotosynthesisEndToEnd(t *testing.T) {
	gen := quizgen.New(llm.NewMock(llm.MockResponse{Text: "```json\n" + photosynthesisFour + "\n```"}))
	s := quiz.NewSession(gen, quiz.WithTicker(noTicks))
	defer s.Close()

	require.NoError(t, s.Start(context.Background(), "Photosynthesis", 5))

	snap := s.Snapshot()
	require.Len(t, snap.Questions, 4)
	assert.Equal(t, 5, snap.Requested)

	for i, answer := range []int{1, 0, 2, 3} {
		require.NoError(t, s.SelectAnswer(i, answer))
	}
	r, err := s.Submit()
	require.NoError(t, err)

	assert.Equal(t, "Photosynthesis", r.Topic)
	assert.Equal(t, 4, r.TotalQuestions, "total is the presented count, not the requested count")
	assert.Equal(t, 4, r.CorrectCount)
	assert.Equal(t, 100, r.Grade)

	last, ok := s.History().Last()
	require.True(t, ok)
	assert.Equal(t, r, last)
}

func TestMalformedUpstreamLeavesSessionIdle(t *testing.T) {
	gen := quizgen.New(llm.NewMock(llm.MockResponse{Text: "Sure! Here's your quiz: {not json"}))
	s := quiz.NewSession(gen, quiz.WithTicker(noTicks))
	defer s.Close()

	err := s.Start(context.Background(), "Photosynthesis", 5)
	require.ErrorIs(t, err, quiz.ErrGenerationFailed)
	var pe *quizparse.ParseError
	assert.True(t, errors.As(err, &pe))
	assert.Equal(t, quiz.Idle, s.State())
	assert.Zero(t, s.History().Len())
}

func TestNetworkErrorLeavesSessionIdle(t *testing.T) {
	gen := quizgen.New(llm.NewMock(llm.MockResponse{Err: &llm.NetworkError{StatusCode: 502}}))
	s := quiz.NewSession(gen, quiz.WithTicker(noTicks))
	defer s.Close()

	err := s.Start(context.Background(), "Photosynthesis", 5)
	var ne *llm.NetworkError
	require.True(t, errors.As(err, &ne))
	assert.Equal(t, quiz.Idle, s.State())
}

func TestManager(t *testing.T) {
	m := quiz.NewManager(quizgen.New(llm.NewMock()), quiz.WithTicker(noTicks))
	defer m.Close()

	id, s := m.Create()
	require.NotEmpty(t, id)

	got, ok := m.Get(id)
	require.True(t, ok)
	assert.Same(t, s, got)

	id2, s2 := m.Create()
	assert.NotEqual(t, id, id2)
	assert.NotSame(t, s.History(), s2.History(), "each session owns its history")
	assert.Equal(t, 2, m.Len())

	assert.True(t, m.Delete(id))
	assert.False(t, m.Delete(id))
	_, ok = m.Get(id)
	assert.False(t, ok)
	assert.ErrorIs(t, s.Start(context.Background(), "x", 1), quiz.ErrClosed)
}
