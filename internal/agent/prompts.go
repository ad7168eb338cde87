package agent

import (
	"fmt"
	"strings"
)

// SystemSeed is the first transcript message of every session.
const SystemSeed = "You are an agentic technical interviewer. Plan the interview, ask one question at a time, and evaluate answers fairly."

const (
	planPrefix     = "PLAN:"
	followUpPrefix = "FOLLOW-UPS:"
)

func startAnnouncement(profile string) string {
	return "Start agentic interview for candidate: " + profile
}

func planPrompt(profile string) string {
	return fmt.Sprintf(`You are designing a structured technical interview.
Candidate profile:
%s

Produce an interview plan with:
1. Three to five focus areas tailored to the profile.
2. For each area, one opening question and what a strong answer covers.
3. A short list of follow-up questions to probe depth.
Keep it concise and use numbered lists.`, profile)
}

func followUpPrompt(plan string) string {
	return fmt.Sprintf(`Below is an interview plan. Extract exactly the follow-up questions it contains,
one per line, numbered, with no other text.

%s`, plan)
}

func nextQuestionPrompt(rendered string) string {
	return fmt.Sprintf(`Transcript so far:
%s

Ask the next interview question. Reply with either a single plain question, or a question
followed by a section labeled "RUBRIC:" listing what a strong answer should cover.`, rendered)
}

func evaluationPrompt(rendered, answer string) string {
	return fmt.Sprintf(`Transcript so far:
%s

Candidate answer:
%s

Evaluate the answer. Reply with:
SCORE: an integer from 1 to 10
FEEDBACK: two or three short sentences
FOLLOW-UP: an optional probing question, or "none"`, rendered, strings.TrimSpace(answer))
}
