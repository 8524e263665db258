package insight

import (
	"strings"
	"time"

	"github.com/sandymist/pfinance/internal/domain"
)

// classifierSystemPrompt instructs the model to answer with exactly one
// category name from the closed set.
func classifierSystemPrompt() string {
	names := make([]string, len(domain.Categories))
	for i, c := range domain.Categories {
		names[i] = string(c)
	}

	var b strings.Builder
	b.WriteString("You are a financial transaction categorizer. Given the merchant from which ")
	b.WriteString("the transaction was made, categorize it into one of these categories: ")
	b.WriteString(strings.Join(names[:len(names)-1], ", "))
	b.WriteString(", or ")
	b.WriteString(names[len(names)-1])
	b.WriteString(".\nRespond with ONLY the category name, nothing else.")
	return b.String()
}

func classifierUserPrompt(merchant string) string {
	return "Categorize this transaction: " + merchant
}

// windowSystemPrompt asks for a strict JSON date range, defaulting vague
// queries to the trailing 30 days on the model side.
func windowSystemPrompt(today time.Time) string {
	var b strings.Builder
	b.WriteString("You translate a question about personal spending into a date range.\n")
	b.WriteString("Today's date is ")
	b.WriteString(today.Format(domain.ISODate))
	b.WriteString(".\n")
	b.WriteString("Return STRICT JSON only, of exactly this shape:\n")
	b.WriteString("{\"start_date\": \"YYYY-MM-DD\", \"end_date\": \"YYYY-MM-DD\"}\n")
	b.WriteString("No other keys, no comments, no Markdown, no code fences.\n")
	b.WriteString("If the question does not mention a time period, default to the last 30 days.")
	return b.String()
}

func windowUserPrompt(query string) string {
	return "Question: " + query
}

// insightsSystemPrompt asks for a JSON-object analysis of the supplied
// records.
func insightsSystemPrompt() string {
	var b strings.Builder
	b.WriteString("You are a personal finance analyst. You are given a question and a JSON ")
	b.WriteString("array of the user's transactions within the relevant time period.\n")
	b.WriteString("Answer the question using only those transactions.\n")
	b.WriteString("Return a single JSON object containing your analysis. ")
	b.WriteString("Return ONLY raw JSON: no Markdown, no code fences, no extra text.")
	return b.String()
}

func insightsUserPrompt(query, recordsJSON string) string {
	var b strings.Builder
	b.WriteString("Question: ")
	b.WriteString(query)
	b.WriteString("\n\nTransactions:\n")
	b.WriteString(recordsJSON)
	return b.String()
}
