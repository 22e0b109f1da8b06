package llm

import "strings"

// CleanJSONResponse strips markdown fences and any prose surrounding the JSON
// object a model returned. Models occasionally wrap the payload despite the
// instructions; we salvage the first balanced-looking object rather than
// failing outright, and leave validation to the schema check.
func CleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)

	if i := strings.Index(content, "```json"); i != -1 {
		rest := content[i+len("```json"):]
		if j := strings.Index(rest, "```"); j != -1 {
			content = strings.TrimSpace(rest[:j])
		}
	} else if i := strings.Index(content, "```"); i != -1 {
		rest := content[i+3:]
		if j := strings.Index(rest, "```"); j != -1 {
			content = strings.TrimSpace(rest[:j])
		}
	}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start != -1 && end > start {
		content = content[start : end+1]
	}
	return content
}
