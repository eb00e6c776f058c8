package animals

// Converter converts HTML fragments to Markdown.
type Converter interface {
	// Convert transforms an HTML fragment into Markdown text.
	Convert(html string) (string, error)
}
