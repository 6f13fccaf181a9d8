package formstate

import (
	"embed"
	"io/fs"
)

//go:embed definitions/*.yaml
var embeddedDefinitions embed.FS

// DefinitionsFS exposes the bundled sample definitions (signup.yaml and
// contact.yaml) so they can be loaded with LoadDefinitions or served as
// starting points.
//
// Typical use:
//
//	store, err := formstate.LoadDefinitions(formstate.DefinitionsFS())
//	def, _ := store.Definition("signup")
func DefinitionsFS() fs.FS {
	sub, err := fs.Sub(embeddedDefinitions, "definitions")
	if err != nil {
		return embeddedDefinitions
	}
	return sub
}
