package methodology

import (
	_ "embed"
	"html/template"

	"github.com/russross/blackfriday"
)

//go:embed methodology.md
var methodology []byte

// Load renders the methodology notes shown on the about page.
func Load() template.HTML {
	return template.HTML(blackfriday.Run(methodology))
}

// Markdown is the unrendered methodology notes.
func Markdown() []byte {
	return methodology
}
