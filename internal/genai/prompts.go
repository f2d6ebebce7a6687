package genai

import (
	"fmt"
	"strings"
)

const tagSystem = `You are a law school content classifier. You respond with a single JSON object and nothing else.`

func tagPrompt(subject, content string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Classify this law school study material. The course subject is %q.\n\n", subject)
	b.WriteString("Return JSON with exactly these fields:\n")
	b.WriteString(`{
  "subject": "snake_case subject key",
  "topic": "snake_case topic key",
  "subtopic": "short free text or empty",
  "difficulty": 1-5,
  "content_type": "rule|case|hypo|policy|procedure",
  "case_name": "case name if this discusses a case, else empty",
  "key_terms": ["up to 6 terms of art"],
  "summary": "one sentence"
}`)
	b.WriteString("\n\nMaterial:\n")
	b.WriteString(content)
	return b.String()
}

const questionSystem = `You are a law professor writing practice exam questions. You respond with a single JSON array and nothing else.`

func questionPrompt(req QuestionRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write %d %s practice exam questions for a law school course in %s.\n\n", req.Count, req.QuestionType, req.SubjectName)
	b.WriteString("Weight coverage toward the listed topics; lower mastery means the student needs more questions there:\n")
	for _, t := range req.Topics {
		fmt.Fprintf(&b, "- %s (exam weight %.2f, student mastery %.0f%%)\n", t.Name, t.Weight, t.Mastery)
	}
	if req.FormatNotes != "" {
		fmt.Fprintf(&b, "\nMatch this professor's question format: %s\n", req.FormatNotes)
	}
	if len(req.Patterns) > 0 {
		b.WriteString("\nThis professor's known patterns:\n")
		for _, p := range req.Patterns {
			fmt.Fprintf(&b, "- %s\n", p)
		}
	}
	if req.HighYield != "" {
		fmt.Fprintf(&b, "\nHigh-yield summary of this professor's testing:\n%s\n", req.HighYield)
	}
	if req.Context != "" {
		b.WriteString("\nDraw facts and rules from this course material where possible:\n")
		b.WriteString(req.Context)
		b.WriteString("\n")
	}
	b.WriteString(`
Return a JSON array where each element is:
{
  "question_type": "multiple_choice|essay|issue_spot",
  "question_text": "...",
  "options": ["A) ...", "B) ...", "C) ...", "D) ..."],
  "correct_answer": "letter for multiple choice, model answer otherwise",
  "explanation": "why the answer is right",
  "topic": "snake_case topic key",
  "difficulty": 1-5
}
Omit "options" for essay and issue_spot questions.`)
	return b.String()
}

const cardSystem = `You are a law school flashcard author. You respond with a single JSON array and nothing else.`

func cardPrompt(subject, topic, content string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write 3-5 flashcards from this %s material on %s.\n\n", subject, topic)
	b.WriteString(`Each card tests one retrievable fact: a rule statement, a case holding, an element list, or a concept definition.

Return a JSON array where each element is:
{
  "front": "the prompt side",
  "back": "the answer side",
  "card_type": "concept|rule|case_holding|element_list"
}

Material:
`)
	b.WriteString(content)
	return b.String()
}

const essayGradeSystem = `You are a law professor grading exam answers with a strict IRAC rubric. You respond with a single JSON object and nothing else.`

func essayGradePrompt(req GradeRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Grade this %s essay answer on the topic of %s.\n\n", req.Subject, req.Topic)
	fmt.Fprintf(&b, "Question:\n%s\n\n", req.QuestionText)
	if req.ModelAnswer != "" {
		fmt.Fprintf(&b, "Model answer:\n%s\n\n", req.ModelAnswer)
	}
	fmt.Fprintf(&b, "Student answer:\n%s\n\n", req.StudentAnswer)
	b.WriteString(`Score each IRAC dimension 0-100 and return JSON:
{
  "overall_score": 0-100,
  "issue_spotting": 0-100,
  "rule_accuracy": 0-100,
  "application_depth": 0-100,
  "conclusion_support": 0-100,
  "feedback": "2-4 sentences of concrete feedback",
  "strengths": ["..."],
  "weaknesses": ["..."]
}`)
	return b.String()
}

func issueSpotGradePrompt(req GradeRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Grade this %s issue-spotting answer on the topic of %s.\n\n", req.Subject, req.Topic)
	fmt.Fprintf(&b, "Fact pattern:\n%s\n\n", req.QuestionText)
	if req.ModelAnswer != "" {
		fmt.Fprintf(&b, "Issues the fact pattern raises:\n%s\n\n", req.ModelAnswer)
	}
	fmt.Fprintf(&b, "Student answer:\n%s\n\n", req.StudentAnswer)
	b.WriteString(`Return JSON:
{
  "score": 0-100,
  "issues_spotted": ["issues the student correctly identified"],
  "issues_missed": ["issues the student missed"],
  "false_positives": ["issues the student raised that the facts do not support"],
  "feedback": "2-3 sentences"
}`)
	return b.String()
}

const examAnalysisSystem = `You are a law school exam analyst extracting testing patterns from past exams. You respond with a single JSON object and nothing else.`

func examAnalysisPrompt(subject, text string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze this past %s exam and extract what it tests.\n\n", subject)
	b.WriteString(`Return JSON:
{
  "exam_title": "title or course name from the exam, else empty",
  "topics_tested": [
    {
      "topic": "snake_case topic key",
      "weight": 0.0-1.0 fraction of the exam,
      "question_format": "essay|multiple_choice|issue_spot|short_answer",
      "difficulty": "low|medium|high",
      "notes": "how this professor tests the topic"
    }
  ],
  "total_questions": number or null,
  "time_limit_minutes": number or null,
  "question_formats": ["formats seen on the exam"],
  "professor_patterns": ["recurring habits worth exploiting"],
  "high_yield_summary": "2-3 sentences on what to study hardest for this professor"
}
Weights should sum to roughly 1.0.

Exam text:
`)
	b.WriteString(text)
	return b.String()
}
