package chat

import (
	"encoding/json"

	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/corpusai/corpuschat/llm"
)

// ToolName is the single retrieval capability declared to the model.
const ToolName = "fetch_article_chunks_for_rag"

// retrievalTool declares the evidence-fetching function. The articles
// parameter is constrained to the closed roster enumeration; the "top 3"
// cap in the description is advisory, enforcement happens engine-side by
// truncation.
func retrievalTool(titles []string) llm.Tool {
	return llm.Tool{
		Name: ToolName,
		Description: "This function provides chunks of article text that are relevant to the query. " +
			"ONLY use this function if the existing information in your message history is not enough.",
		Parameters: jsonschema.Definition{
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"articles": {
					Type: jsonschema.Array,
					Items: &jsonschema.Definition{
						Type: jsonschema.String,
						Enum: titles,
					},
					Description: "A list of articles you think is most relevant to the given query " +
						"from your system message. Provide no more than the top 3 most likely and recent.",
				},
			},
			Required: []string{"articles"},
		},
	}
}

// retrievalCall returns the first retrieval tool call in the message, if any.
func retrievalCall(msg llm.Message) (llm.ToolCall, bool) {
	for _, tc := range msg.ToolCalls {
		if tc.Name == ToolName {
			return tc, true
		}
	}
	return llm.ToolCall{}, false
}

// parseToolTitles decodes the articles argument. Malformed arguments mean
// zero titles requested, never an error.
func parseToolTitles(arguments string) []string {
	var args struct {
		Articles []string `json:"articles"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return nil
	}
	return args.Articles
}
