package llm

import "strings"

const (
	// SummaryFailedText replaces the summary whenever generation fails.
	SummaryFailedText = "Summary generation failed"

	summaryPromptPrefix = "Summarize this document in 200 words: "

	// SummaryInputBytes is how much of an upload is sent for summarization.
	SummaryInputBytes = 1000
)

// SummaryPrompt builds the fixed summarization prompt from the first
// SummaryInputBytes of content, dropping invalid UTF-8 sequences.
func SummaryPrompt(content []byte) string {
	if len(content) > SummaryInputBytes {
		content = content[:SummaryInputBytes]
	}
	return summaryPromptPrefix + strings.ToValidUTF8(string(content), "")
}
