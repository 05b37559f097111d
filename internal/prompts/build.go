package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nara/giftinator/internal/types"
)

// QuestionInstruction builds the turn instruction for the next interview
// question given the answers collected so far.
func QuestionInstruction(answers []types.Answer, stepLimit int) string {
	step := len(answers) + 1
	guide := GuideForStep(step)

	var sb strings.Builder
	sb.WriteString("MODE: QUESTION\n\n")
	writeHistory(&sb, answers)
	fmt.Fprintf(&sb, "This is question %d of %d.\n\n", step, stepLimit)
	fmt.Fprintf(&sb, "This question targets: %s.\n%s\n", guide.Focus, guide.Direction)
	if len(guide.Options) > 0 {
		fmt.Fprintf(&sb, "Suggested concrete options: %s. The fourth option must be exactly %q.\n",
			strings.Join(guide.Options, "; "), types.EscapeOption)
	}
	sb.WriteString("\nBuild on previous answers: reference contradictions or interesting details.\n")
	sb.WriteString("Return the QUESTION MODE JSON schema only.")
	return sb.String()
}

// RevealInstruction builds the turn instruction for the terminal reveal.
func RevealInstruction(answers []types.Answer) string {
	var sb strings.Builder
	sb.WriteString("MODE: REVEAL\n\n")
	fmt.Fprintf(&sb, "All answers collected: %s\n\n", marshalAnswers(answers))
	writeHistory(&sb, answers)
	sb.WriteString(`Now generate the complete reveal:
1. Assign an archetype from the 12 families
2. Write the persona snapshot
3. Map the key insights
4. Recommend 3-7 hyper-personalized physical products

Every gift must connect to at least three specific details from the answers,
match the stated aesthetic and budget, and no two gifts may share a category.

Return the REVEAL MODE JSON schema only.`)
	return sb.String()
}

// RefinementContext carries what a refinement turn knows beyond the original
// interview: the prior reveal, the giver's dissatisfaction, and the follow-up
// batch so far.
type RefinementContext struct {
	Answers           []types.Answer
	PreviousReveal    *types.RevealDocument
	Feedback          string
	RefinementAnswers []types.Answer
}

// RefineQuestionInstruction builds the instruction for one follow-up
// question after a rejected reveal.
func RefineQuestionInstruction(rc RefinementContext, refinementLimit int) string {
	var sb strings.Builder
	sb.WriteString("MODE: REFINEMENT QUESTION\n\n")
	writeRefinementContext(&sb, rc)
	fmt.Fprintf(&sb, "This is refinement question %d of %d.\n\n", len(rc.RefinementAnswers)+1, refinementLimit)
	sb.WriteString(`Based on the feedback, ask ONE specific follow-up question to understand
what the giver actually wants. If they said "too expensive", ask about
budget; "already has that", ask what categories to avoid; "not their
style", dig into aesthetics; "not practical", ask about daily routine.

Return the QUESTION MODE JSON schema (reveal: false).`)
	return sb.String()
}

// RefineRevealInstruction builds the instruction for the second reveal after
// the follow-up batch is exhausted.
func RefineRevealInstruction(rc RefinementContext) string {
	var sb strings.Builder
	sb.WriteString("MODE: REFINEMENT REVEAL\n\n")
	writeRefinementContext(&sb, rc)
	fmt.Fprintf(&sb, "Follow-up answers: %s\n\n", marshalAnswers(rc.RefinementAnswers))
	sb.WriteString(`Generate completely new gift recommendations based on the original
answers, why the previous gifts didn't work, and the follow-up answers.
Make the new gifts very different from the previous ones.

Return the REVEAL MODE JSON schema with updated gifts.`)
	return sb.String()
}

func writeRefinementContext(sb *strings.Builder, rc RefinementContext) {
	fmt.Fprintf(sb, "Original answers: %s\n\n", marshalAnswers(rc.Answers))
	if rc.PreviousReveal != nil {
		fmt.Fprintf(sb, "Previous archetype: %s\n", rc.PreviousReveal.Archetype)
		fmt.Fprintf(sb, "Previous gifts that didn't work: %s\n", marshalJSON(rc.PreviousReveal.GiftNames()))
	}
	fmt.Fprintf(sb, "Giver's feedback: %q\n\n", rc.Feedback)
	if len(rc.RefinementAnswers) > 0 {
		fmt.Fprintf(sb, "Refinement answers so far: %s\n\n", marshalAnswers(rc.RefinementAnswers))
	}
}

// writeHistory serializes prior question/answer pairs for the oracle.
func writeHistory(sb *strings.Builder, answers []types.Answer) {
	if len(answers) == 0 {
		return
	}
	sb.WriteString("PREVIOUS QUESTIONS & ANSWERS:\n")
	for i, a := range answers {
		if a.Question != "" {
			fmt.Fprintf(sb, "Q%d: %s\n", i+1, a.Question)
		}
		fmt.Fprintf(sb, "A%d: %s", i+1, a.Answer)
		if a.Custom {
			sb.WriteString(" (their own words, not a listed option)")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

func marshalAnswers(answers []types.Answer) string {
	return marshalJSON(answers)
}

func marshalJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	return string(b)
}
