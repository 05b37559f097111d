package interview

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nara/giftinator/internal/analytics"
	"github.com/nara/giftinator/internal/oracle"
	"github.com/nara/giftinator/internal/parse"
	"github.com/nara/giftinator/internal/prompts"
	"github.com/nara/giftinator/internal/resolve"
	"github.com/nara/giftinator/internal/session"
	"github.com/nara/giftinator/internal/types"
	"github.com/nara/giftinator/internal/validate"
)

// fakeOracle returns one canned response per call, in order.
type fakeOracle struct {
	responses []string
	calls     int
	lastMode  oracle.Mode
}

func (f *fakeOracle) CompleteJSON(_ context.Context, _, _ string, mode oracle.Mode) (string, error) {
	f.lastMode = mode
	resp := f.responses[f.calls]
	f.calls++
	return resp, nil
}

func (f *fakeOracle) Close() error { return nil }

// chanRecorder signals each write so tests can await the fire-and-forget
// goroutine.
type chanRecorder struct {
	sessions chan analytics.SessionFact
}

func newChanRecorder() *chanRecorder {
	return &chanRecorder{sessions: make(chan analytics.SessionFact, 1)}
}

func (r *chanRecorder) RecordSession(_ context.Context, fact analytics.SessionFact) error {
	r.sessions <- fact
	return nil
}

func (r *chanRecorder) RecordClick(context.Context, analytics.Click) error { return nil }

func (r *chanRecorder) RecordFeedback(context.Context, analytics.Feedback) error { return nil }

func turnJSON(step int) string {
	return fmt.Sprintf(`{
		"reveal": false,
		"questionNumber": %d,
		"phase": "foundation",
		"question": "What do they do to recharge?",
		"options": ["Read", "Run", "Cook", "None of these"],
		"confidenceScore": 50
	}`, step)
}

const revealJSON = `{
	"reveal": true,
	"archetype": "The Cozy Curator",
	"archetypeTagline": "Comfort, curated.",
	"personaSnapshot": "A homebody with strong opinions about blankets.",
	"gifts": [
		{
			"giftName": "Weighted blanket",
			"whyItsPerfect": "They rank comfort above all.",
			"whatItConnectsTo": "Their recharge answer.",
			"experienceItCreates": "Sunday mornings that stretch to noon.",
			"amazonSearch": "weighted blanket 15 lb",
			"presentationIdea": "Roll it with a ribbon."
		},
		{
			"giftName": "Tea sampler",
			"whyItsPerfect": "They mentioned tea twice.",
			"whatItConnectsTo": "Their kitchen ritual answer.",
			"experienceItCreates": "A new flavor every evening.",
			"amazonSearch": "loose leaf tea sampler",
			"presentationIdea": "Stack the tins in a basket."
		},
		{
			"giftName": "Reading lamp",
			"whyItsPerfect": "They read late and hate overhead light.",
			"whatItConnectsTo": "Their evening answer.",
			"experienceItCreates": "One warm pool of light after dark.",
			"amazonSearch": "warm reading lamp adjustable",
			"presentationIdea": "Gift it with a bookmark."
		}
	]
}`

func answers(n int) []types.Answer {
	out := make([]types.Answer, n)
	for i := range out {
		out[i] = types.Answer{Question: fmt.Sprintf("q%d", i+1), Answer: fmt.Sprintf("a%d", i+1)}
	}
	return out
}

func newEngine(t *testing.T, o oracle.Client, opts ...func(*Config)) *Engine {
	t.Helper()
	cfg := Config{Oracle: o, Resolver: resolve.New(nil, "giftinator-20")}
	for _, opt := range opts {
		opt(&cfg)
	}
	e, err := New(cfg)
	require.NoError(t, err)
	return e
}

func TestNextQuestion_FirstStep(t *testing.T) {
	fake := &fakeOracle{responses: []string{turnJSON(1)}}
	e := newEngine(t, fake)

	turn, err := e.NextQuestion(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, turn.QuestionNumber)
	assert.Equal(t, types.PhaseFoundation, turn.Phase)
	assert.Equal(t, types.EscapeOption, turn.Options[3])
	assert.Equal(t, oracle.ModeQuestion, fake.lastMode)
	// Confidence clamped to the opening band.
	assert.Equal(t, 35, turn.ConfidenceScore)
}

func TestNextQuestion_CorrectsOracleDrift(t *testing.T) {
	// The oracle claims step 9 in the wrong phase; the engine pins both to
	// the machine's expectation for the actual answer count.
	fake := &fakeOracle{responses: []string{turnJSON(9)}}
	e := newEngine(t, fake)

	turn, err := e.NextQuestion(context.Background(), answers(4))
	require.NoError(t, err)
	assert.Equal(t, 5, turn.QuestionNumber)
	assert.Equal(t, types.PhaseIdentity, turn.Phase)
}

func TestNextQuestion_BudgetExhausted(t *testing.T) {
	fake := &fakeOracle{}
	e := newEngine(t, fake)

	_, err := e.NextQuestion(context.Background(), answers(session.StepLimit))
	var oos *session.OutOfSequenceError
	require.ErrorAs(t, err, &oos)
	assert.Zero(t, fake.calls, "no oracle call once the budget is exhausted")
}

func TestNextQuestion_RevealDuringInterview(t *testing.T) {
	fake := &fakeOracle{responses: []string{revealJSON}}
	e := newEngine(t, fake)

	_, err := e.NextQuestion(context.Background(), answers(3))
	var mismatch *validate.ModeMismatchError
	require.ErrorAs(t, err, &mismatch)
}

func TestNextQuestion_UnparseableOutput(t *testing.T) {
	fake := &fakeOracle{responses: []string{"I'm sorry, I can't do that"}}
	e := newEngine(t, fake)

	_, err := e.NextQuestion(context.Background(), answers(3))
	var unparseable *parse.UnparseableError
	require.ErrorAs(t, err, &unparseable)
}

func TestReveal_Incomplete(t *testing.T) {
	fake := &fakeOracle{}
	e := newEngine(t, fake)

	_, err := e.Reveal(context.Background(), answers(session.StepLimit-1))
	var incomplete *session.IncompleteError
	require.ErrorAs(t, err, &incomplete)
	assert.Zero(t, fake.calls)
}

func TestReveal_EnrichesAndRecords(t *testing.T) {
	fake := &fakeOracle{responses: []string{revealJSON}}
	recorder := newChanRecorder()
	e := newEngine(t, fake, func(cfg *Config) { cfg.Recorder = recorder })

	reveal, err := e.Reveal(context.Background(), answers(session.StepLimit))
	require.NoError(t, err)
	assert.Equal(t, oracle.ModeReveal, fake.lastMode)
	assert.Equal(t, "The Cozy Curator", reveal.Archetype)
	assert.NotEmpty(t, reveal.SessionID)
	assert.False(t, reveal.IsRefinement)

	// No searcher configured, so every gift gets a tagged fallback link.
	for _, gift := range reveal.Gifts {
		assert.Contains(t, gift.AmazonURL, "amazon.com")
		assert.Contains(t, gift.AmazonURL, "tag=giftinator-20")
		assert.False(t, gift.IsDirectLink)
	}

	select {
	case fact := <-recorder.sessions:
		assert.Equal(t, reveal.SessionID, fact.SessionID)
		assert.Equal(t, "The Cozy Curator", fact.Archetype)
		assert.Equal(t, session.StepLimit, fact.AnswerCount)
	case <-time.After(2 * time.Second):
		t.Fatal("analytics write never arrived")
	}
}

func TestReveal_DirectLinkEnrichment(t *testing.T) {
	searcher := &stubSearcher{items: []resolve.SearchItem{
		{Link: "https://www.amazon.com/dp/B0TESTASIN", Title: "Weighted Blanket 15lb"},
	}}
	fake := &fakeOracle{responses: []string{revealJSON}}
	e := newEngine(t, fake, func(cfg *Config) {
		cfg.Resolver = resolve.New(searcher, "giftinator-20")
	})

	reveal, err := e.Reveal(context.Background(), answers(session.StepLimit))
	require.NoError(t, err)
	for _, gift := range reveal.Gifts {
		assert.True(t, gift.IsDirectLink)
		assert.Contains(t, gift.AmazonURL, "/dp/B0TESTASIN")
		assert.Equal(t, "Weighted Blanket 15lb", gift.AmazonTitle)
	}
}

type stubSearcher struct {
	items []resolve.SearchItem
}

func (s *stubSearcher) Search(context.Context, string, int64) ([]resolve.SearchItem, error) {
	return s.items, nil
}

func TestRevealForSession_ClosesSession(t *testing.T) {
	fake := &fakeOracle{responses: []string{revealJSON}}
	repo := session.NewMemoryRepository()
	e := newEngine(t, fake, func(cfg *Config) { cfg.Sessions = repo })

	s, err := e.StartSession()
	require.NoError(t, err)
	for i, a := range answers(session.StepLimit) {
		_, err := repo.Append(s.ID, i+1, a)
		require.NoError(t, err)
	}

	reveal, err := e.RevealForSession(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.ID.String(), reveal.SessionID)

	// The reveal is terminal: a second one is refused.
	_, err = e.RevealForSession(context.Background(), s.ID)
	var closed *session.SessionClosedError
	require.ErrorAs(t, err, &closed)
}

func TestNextQuestionForSession_AppendsAnswer(t *testing.T) {
	fake := &fakeOracle{responses: []string{turnJSON(1), turnJSON(2)}}
	repo := session.NewMemoryRepository()
	e := newEngine(t, fake, func(cfg *Config) { cfg.Sessions = repo })

	s, err := e.StartSession()
	require.NoError(t, err)

	turn, err := e.NextQuestionForSession(context.Background(), s.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, turn.QuestionNumber)

	turn, err = e.NextQuestionForSession(context.Background(), s.ID, &types.Answer{Answer: "Morgan"})
	require.NoError(t, err)
	assert.Equal(t, 2, turn.QuestionNumber)

	stored, err := repo.Get(s.ID)
	require.NoError(t, err)
	require.Len(t, stored.Answers, 1)
	assert.Equal(t, "Morgan", stored.Answers[0].Answer)
}

func TestRefineQuestion(t *testing.T) {
	fake := &fakeOracle{responses: []string{turnJSON(1)}}
	e := newEngine(t, fake)

	rc := prompts.RefinementContext{
		Answers:        answers(session.StepLimit),
		PreviousReveal: &types.RevealDocument{Archetype: "The Maker", Gifts: []types.Gift{{GiftName: "3D pen"}}},
		Feedback:       "not their style",
	}

	turn, err := e.RefineQuestion(context.Background(), rc)
	require.NoError(t, err)
	assert.True(t, turn.IsRefinementQuestion)
	assert.Equal(t, types.PhaseRefinement, turn.Phase)
	assert.Equal(t, 1, turn.QuestionNumber)
	assert.Equal(t, oracle.ModeRefineQuestion, fake.lastMode)
}

func TestRefineQuestion_BatchExhausted(t *testing.T) {
	fake := &fakeOracle{}
	e := newEngine(t, fake)

	rc := prompts.RefinementContext{
		Answers:           answers(session.StepLimit),
		RefinementAnswers: answers(session.RefinementLimit),
	}

	_, err := e.RefineQuestion(context.Background(), rc)
	var oos *session.OutOfSequenceError
	require.ErrorAs(t, err, &oos)
	assert.Zero(t, fake.calls)
}

func TestRefineReveal(t *testing.T) {
	fake := &fakeOracle{responses: []string{revealJSON}}
	e := newEngine(t, fake)

	rc := prompts.RefinementContext{
		Answers:           answers(session.StepLimit),
		PreviousReveal:    &types.RevealDocument{Archetype: "The Maker"},
		Feedback:          "too expensive",
		RefinementAnswers: answers(session.RefinementLimit),
	}

	reveal, err := e.RefineReveal(context.Background(), rc)
	require.NoError(t, err)
	assert.True(t, reveal.IsRefinement)
	assert.Equal(t, oracle.ModeRefineReveal, fake.lastMode)
}

func TestRefineReveal_TooEarly(t *testing.T) {
	fake := &fakeOracle{}
	e := newEngine(t, fake)

	rc := prompts.RefinementContext{
		Answers:           answers(session.StepLimit),
		RefinementAnswers: answers(2),
	}

	_, err := e.RefineReveal(context.Background(), rc)
	var incomplete *session.IncompleteError
	require.ErrorAs(t, err, &incomplete)
}
