package sitecorpus

// ExtractRequest is the input for extracting text from a single page.
type ExtractRequest struct {
	// HTML is the raw page markup. It is parsed leniently.
	HTML string

	// Include lists CSS selectors for the subtrees to render, in order.
	Include []string

	// Exclude lists CSS selectors for subtrees pruned before rendering.
	Exclude []string

	// FlattenTables renders tables as "header: value" lines.
	FlattenTables bool
}

// TextExtractor turns HTML into clean, LLM-friendly text.
type TextExtractor interface {
	// ExtractText renders the subtrees matched by the request's inclusion
	// selectors. It returns ok == false when no text was found, which is a
	// normal outcome and not an error. Malformed selectors are skipped.
	ExtractText(req *ExtractRequest) (text string, ok bool, err error)
}
