package actions

import "strings"

// TopicPlaceholder is replaced by the file topic in a content prompt.
const TopicPlaceholder = "{topic}"

// PythonPrompt asks for a runnable Python program.
const PythonPrompt = "Generate complete, executable Python code for '{topic}'. " +
	"Include all necessary imports (e.g., torch for PyTorch, numpy, etc.) and ensure the code is functional and ready to run. " +
	"Do not include explanations, markdown, or code fences (```); return only the raw Python code."

// WebsitePrompt asks for a single self-contained HTML page.
const WebsitePrompt = "Generate complete HTML code for a '{topic}' website. " +
	"Include basic styling within <style> tags and a clear structure. " +
	"Do not include explanations or markdown; return only the raw HTML code."

func renderTopic(template, topic string) string {
	return strings.ReplaceAll(template, TopicPlaceholder, topic)
}
