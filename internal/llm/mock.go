package llm

import (
	"context"
	"errors"
	"sync"

	"github.com/pavelanni/studybuddy/internal/model"
)

// MockResponse is a canned response for the Mock gateway.
type MockResponse struct {
	Text string
	Err  error
}

// MockCall records one Generate invocation.
type MockCall struct {
	Prompt      string
	ContentType model.ContentType
}

// Mock is a deterministic Gateway for tests and offline runs.
// It returns canned responses in FIFO order and records all calls.
type Mock struct {
	mu        sync.Mutex
	responses []MockResponse
	calls     []MockCall
	// replay answers once the queue is empty; nil means fail.
	replay func(ct model.ContentType) MockResponse
}

// NewMock creates a Mock with the given canned responses.
func NewMock(responses ...MockResponse) *Mock {
	return &Mock{responses: responses}
}

// NewDemoMock creates a Mock for running without a completion service.
// Quiz requests always get the same valid five-question quiz; every other
// content type gets a fixed note.
func NewDemoMock() *Mock {
	return &Mock{replay: demoResponse}
}

// Generate returns the next canned response. Once the queue is empty it
// replays the demo content, or fails with a NetworkError.
func (m *Mock) Generate(_ context.Context, prompt string, ct model.ContentType) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, MockCall{Prompt: prompt, ContentType: ct})

	var resp MockResponse
	switch {
	case len(m.responses) > 0:
		resp = m.responses[0]
		m.responses = m.responses[1:]
	case m.replay != nil:
		resp = m.replay(ct)
	default:
		return "", &NetworkError{Err: errors.New("mock: no responses queued")}
	}

	if resp.Err != nil {
		return "", resp.Err
	}
	if resp.Text == "" {
		return "", &UpstreamError{Reason: "empty completion"}
	}
	return resp.Text, nil
}

func demoResponse(ct model.ContentType) MockResponse {
	if ct == model.ContentQuiz {
		return MockResponse{Text: demoQuiz}
	}
	return MockResponse{Text: "This is an offline demo response. Start the server with a real --llm-provider for live answers."}
}

const demoQuiz = `{"questions":[
  {"question":"Which planet is closest to the Sun?","options":["Venus","Mercury","Mars","Earth"],"correctAnswer":1},
  {"question":"What is the chemical symbol for water?","options":["H2O","CO2","O2","NaCl"],"correctAnswer":0},
  {"question":"How many sides does a hexagon have?","options":["Five","Seven","Six","Eight"],"correctAnswer":2},
  {"question":"Which organelle produces most of a cell's energy?","options":["Nucleus","Ribosome","Golgi body","Mitochondrion"],"correctAnswer":3},
  {"question":"What is 7 multiplied by 8?","options":["54","56","58","64"],"correctAnswer":1}
]}`

// ModelID returns "mock".
func (m *Mock) ModelID() string {
	return "mock"
}

// AddResponse appends a canned response to the queue.
func (m *Mock) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// Calls returns a copy of the recorded calls.
func (m *Mock) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}
