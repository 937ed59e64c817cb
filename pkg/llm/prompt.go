package llm

import "fmt"

const stockExplanationPrompt = `Please analyze the following stock data and provide a clear explanation:

%s

Include insights about:
1. Recent price movements and trends
2. Volume analysis and how it relates to price action
3. Notable patterns or potential support/resistance levels
4. Key indicators for this stock based on the data
5. A balanced perspective on potential risks and opportunities

Format your response in a way that would be helpful for an investor to understand the current state of this stock.`

func buildStockPrompt(data string) string {
	return fmt.Sprintf(stockExplanationPrompt, data)
}
