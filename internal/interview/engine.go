// Package interview orchestrates one turn of the questionnaire: state
// machine gate, oracle call, parse, contract validation, and (for reveals)
// concurrent link enrichment plus the analytics side channel.
package interview

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nara/giftinator/internal/analytics"
	"github.com/nara/giftinator/internal/oracle"
	"github.com/nara/giftinator/internal/parse"
	"github.com/nara/giftinator/internal/prompts"
	"github.com/nara/giftinator/internal/resolve"
	"github.com/nara/giftinator/internal/session"
	"github.com/nara/giftinator/internal/types"
	"github.com/nara/giftinator/internal/validate"
)

// recordTimeout bounds one fire-and-forget analytics write.
const recordTimeout = 5 * time.Second

// Config wires the engine's collaborators. Oracle and Resolver are
// required; the rest default to in-process implementations.
type Config struct {
	Oracle       oracle.Client
	OracleConfig *oracle.Config
	Resolver     *resolve.Resolver
	Validator    *validate.Validator
	Sessions     session.Repository
	Recorder     analytics.Recorder
	Policy       string
}

// Engine drives the interview against the oracle.
type Engine struct {
	oracle    oracle.Client
	oracleCfg *oracle.Config
	resolver  *resolve.Resolver
	validator *validate.Validator
	sessions  session.Repository
	recorder  analytics.Recorder
	policy    string
}

// New creates an Engine, filling in defaults for optional collaborators.
func New(cfg Config) (*Engine, error) {
	if cfg.OracleConfig == nil {
		cfg.OracleConfig = oracle.DefaultConfig()
	}
	if cfg.Validator == nil {
		v, err := validate.New(validate.DefaultConfig())
		if err != nil {
			return nil, err
		}
		cfg.Validator = v
	}
	if cfg.Sessions == nil {
		cfg.Sessions = session.NewMemoryRepository()
	}
	if cfg.Recorder == nil {
		cfg.Recorder = analytics.Noop{}
	}
	if cfg.Policy == "" {
		cfg.Policy = prompts.Policy
	}

	return &Engine{
		oracle:    cfg.Oracle,
		oracleCfg: cfg.OracleConfig,
		resolver:  cfg.Resolver,
		validator: cfg.Validator,
		sessions:  cfg.Sessions,
		recorder:  cfg.Recorder,
		policy:    cfg.Policy,
	}, nil
}

// NextQuestion produces the next interview question for the accumulated
// answers. No oracle call is made if the step budget is exhausted.
func (e *Engine) NextQuestion(ctx context.Context, answers []types.Answer) (*types.TurnDocument, error) {
	machine := session.Interview()
	if err := machine.CheckTurn(len(answers)); err != nil {
		return nil, err
	}
	exp := machine.Expect(len(answers))

	instruction := prompts.QuestionInstruction(answers, session.StepLimit)
	raw, err := oracle.Call(ctx, e.oracle, e.oracleCfg, e.policy, instruction, oracle.ModeQuestion)
	if err != nil {
		return nil, err
	}

	doc, err := parse.Parse(raw)
	if err != nil {
		return nil, err
	}

	return e.validator.ValidateTurn(doc, exp)
}

// NextQuestionForSession appends the newest answer to a stored session,
// then produces the next question from its accumulated answers. A concurrent
// duplicate submission loses the per-key append race and is rejected rather
// than reordered.
func (e *Engine) NextQuestionForSession(ctx context.Context, id uuid.UUID, newest *types.Answer) (*types.TurnDocument, error) {
	s, err := e.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	if newest != nil {
		if s, err = e.sessions.Append(id, len(s.Answers)+1, *newest); err != nil {
			return nil, err
		}
	}
	return e.NextQuestion(ctx, s.Answers)
}

// StartSession registers a new session for callers that want server-side
// answer tracking.
func (e *Engine) StartSession() (*session.Session, error) {
	return e.sessions.Create()
}

// Reveal produces the terminal document for a complete interview: archetype,
// persona, and enriched gift recommendations. The session record is created,
// closed, and reported to analytics as a side effect.
func (e *Engine) Reveal(ctx context.Context, answers []types.Answer) (*types.RevealDocument, error) {
	machine := session.Interview()
	if err := machine.CheckReveal(len(answers)); err != nil {
		return nil, err
	}

	reveal, err := e.generateReveal(ctx, prompts.RevealInstruction(answers), oracle.ModeReveal)
	if err != nil {
		return nil, err
	}

	s, err := e.sessions.Create()
	if err != nil {
		return nil, err
	}
	reveal.SessionID = s.ID.String()
	if err := e.sessions.CloseWithReveal(s.ID, reveal); err != nil {
		return nil, err
	}

	e.recordSession(reveal, len(answers))
	return reveal, nil
}

// RevealForSession runs the reveal against a stored session's answers and
// closes that session. Operating on an already-revealed session fails with
// SessionClosed.
func (e *Engine) RevealForSession(ctx context.Context, id uuid.UUID) (*types.RevealDocument, error) {
	s, err := e.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	if s.Closed() {
		return nil, &session.SessionClosedError{ID: id}
	}

	machine := session.Interview()
	if err := machine.CheckReveal(len(s.Answers)); err != nil {
		return nil, err
	}

	reveal, err := e.generateReveal(ctx, prompts.RevealInstruction(s.Answers), oracle.ModeReveal)
	if err != nil {
		return nil, err
	}

	reveal.SessionID = id.String()
	if err := e.sessions.CloseWithReveal(id, reveal); err != nil {
		return nil, err
	}

	e.recordSession(reveal, len(s.Answers))
	return reveal, nil
}

// RefineQuestion produces one post-reveal follow-up question. The refinement
// batch is the same machine as the interview with a smaller limit; its turns
// all carry the refinement phase.
func (e *Engine) RefineQuestion(ctx context.Context, rc prompts.RefinementContext) (*types.TurnDocument, error) {
	machine := session.Refine()
	if err := machine.CheckTurn(len(rc.RefinementAnswers)); err != nil {
		return nil, err
	}
	exp := machine.Expect(len(rc.RefinementAnswers))

	instruction := prompts.RefineQuestionInstruction(rc, session.RefinementLimit)
	raw, err := oracle.Call(ctx, e.oracle, e.oracleCfg, e.policy, instruction, oracle.ModeRefineQuestion)
	if err != nil {
		return nil, err
	}

	doc, err := parse.Parse(raw)
	if err != nil {
		return nil, err
	}

	turn, err := e.validator.ValidateTurn(doc, exp)
	if err != nil {
		return nil, err
	}
	turn.IsRefinementQuestion = true
	return turn, nil
}

// RefineReveal produces the second reveal once the follow-up batch is
// exhausted, using the original answers, the rejected gifts, and the
// feedback as context.
func (e *Engine) RefineReveal(ctx context.Context, rc prompts.RefinementContext) (*types.RevealDocument, error) {
	machine := session.Refine()
	if err := machine.CheckReveal(len(rc.RefinementAnswers)); err != nil {
		return nil, err
	}

	reveal, err := e.generateReveal(ctx, prompts.RefineRevealInstruction(rc), oracle.ModeRefineReveal)
	if err != nil {
		return nil, err
	}

	reveal.IsRefinement = true
	return reveal, nil
}

// generateReveal runs the oracle-parse-validate-enrich pipeline shared by
// both reveal paths.
func (e *Engine) generateReveal(ctx context.Context, instruction string, mode oracle.Mode) (*types.RevealDocument, error) {
	raw, err := oracle.Call(ctx, e.oracle, e.oracleCfg, e.policy, instruction, mode)
	if err != nil {
		return nil, err
	}

	doc, err := parse.Parse(raw)
	if err != nil {
		return nil, err
	}

	reveal, err := e.validator.ValidateReveal(doc)
	if err != nil {
		return nil, err
	}

	e.enrich(ctx, reveal)
	return reveal, nil
}

// enrich resolves every gift's search label concurrently. Resolution
// degrades per entry and never fails, so the fan-in cannot error; a slow
// entry is bounded by the resolver's own timeout.
func (e *Engine) enrich(ctx context.Context, reveal *types.RevealDocument) {
	if e.resolver == nil {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := range reveal.Gifts {
		gift := &reveal.Gifts[i]
		g.Go(func() error {
			result := e.resolver.Resolve(gctx, gift.AmazonSearch)
			gift.AmazonURL = result.URL
			gift.AmazonTitle = result.Title
			gift.IsDirectLink = !result.Fallback
			return nil
		})
	}
	_ = g.Wait()
}

// recordSession fires the terminal session fact at the analytics channel.
// The write is isolated from the caller: it runs on its own context and a
// failure is logged, never returned.
func (e *Engine) recordSession(reveal *types.RevealDocument, answerCount int) {
	fact := analytics.SessionFact{
		SessionID:   reveal.SessionID,
		Archetype:   reveal.Archetype,
		AnswerCount: answerCount,
		Timestamp:   time.Now().UTC(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		if err := e.recorder.RecordSession(ctx, fact); err != nil {
			log.Printf("analytics: failed to record session %s: %v", fact.SessionID, err)
		}
	}()
}
