package chat

import "strings"

// Intent is what a user message asks the assistant to do.
type Intent string

const (
	IntentCompanyInfo   Intent = "company_info"
	IntentSelectStock   Intent = "select_stock"
	IntentStockAnalysis Intent = "stock_analysis"
	IntentGeneralQuery  Intent = "general_query"
)

type intentRule struct {
	intent  Intent
	phrases []string
}

// Evaluated in order; the first rule with a matching phrase wins, so
// "tell me about AAPL and analyze it" is company_info.
var intentRules = []intentRule{
	{IntentCompanyInfo, []string{"about", "tell me about", "info on", "information on", "know about"}},
	{IntentSelectStock, []string{"select", "choose", "pick", "use", "get data for"}},
	{IntentStockAnalysis, []string{"analyze", "analysis", "how is", "performance of", "stock price"}},
}

// Classify maps free text to an Intent with case-insensitive substring
// matching. Text matching no rule is a general query.
func Classify(text string) Intent {
	lower := strings.ToLower(text)

	for _, rule := range intentRules {
		for _, phrase := range rule.phrases {
			if strings.Contains(lower, phrase) {
				return rule.intent
			}
		}
	}

	return IntentGeneralQuery
}
