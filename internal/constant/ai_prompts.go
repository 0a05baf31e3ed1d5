package constant

// Prompt templates for the AI-assist passthrough. %s is the user's text;
// translate additionally takes the target language first.
const (
	PromptSummarize = "Summarize the following text in a concise way while retaining all key information: %s"
	PromptImprove   = "Improve the following text by enhancing clarity, fixing grammar, improving word choice, and making it more engaging: %s"
	PromptDefine    = "Provide a dictionary-style definition for the word: %s. Include: 1) part of speech, 2) pronunciation if relevant, 3) definition(s), 4) example usage in a sentence, 5) synonyms if applicable."
	PromptTranslate = "Translate the following text into %s: %s"
)
