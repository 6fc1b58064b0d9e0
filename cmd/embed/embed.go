package embed

import (
	"embed"

	"github.com/olimci/cordova-dev/pkg/scaffold"
)

//go:embed web
var Web embed.FS

// WebTemplate is the template new web projects are created from when the
// configuration names no template directory.
func WebTemplate() scaffold.Source {
	return scaffold.Bundled{FS: Web, Dir: "web"}
}
