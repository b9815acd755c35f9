package scanning

import "strings"

// transcribePrompt is the shared prompt used by the vision model backends.
// They stand in for OCR, so the answer must be the receipt text itself and
// not an interpretation of it.
const transcribePrompt = `You are an OCR engine reading a shop receipt, usually from Albania with prices in Lek (L).

Transcribe ALL text on the receipt exactly as printed, top to bottom:
- Keep one receipt line per output line, with the item name and its price on the same line
- Keep numbers exactly as printed, including dots and commas (e.g. "1.200,50 L")
- Keep dates, totals and store details as printed
- Do not translate, summarize, reorder or correct anything
- Do not add commentary, headings or markdown code blocks

If the image contains several pages, transcribe them in order.`

// cleanTranscript strips wrapping a model may add around the transcript
func cleanTranscript(text string) string {
	text = strings.TrimSpace(text)

	// Remove markdown code fences if present
	if strings.HasPrefix(text, "```") {
		if i := strings.Index(text, "\n"); i >= 0 {
			text = text[i+1:]
		} else {
			text = strings.TrimPrefix(text, "```")
		}
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.TrimSpace(text)
}

// finishTranscript cleans a model response and maps blank answers to ErrNoText
func finishTranscript(text string) (string, error) {
	text = cleanTranscript(text)
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}
