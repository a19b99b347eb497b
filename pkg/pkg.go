//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version is the semantic version of lom embedded at build time.
var Version = strings.TrimSpace(version)

const (
	// Name is the command name and the base name of the configuration and
	// cache directories.
	Name = "lom"
	// Description is the one-line summary shown in help output.
	Description = "Parser-combinator grammar runner"
	// PathEnv names the environment variable holding the grammar search path.
	PathEnv = "LOM_PATH"
)

// AuthorInfo identifies one author of the project.
type AuthorInfo struct {
	Name  string
	Email string
}

// Author lists the primary author(s) of the project.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}
