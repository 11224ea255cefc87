//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

// Version is the semantic version of hotmark.
//
//go:embed VERSION
var Version string

const (
	// Name identifies hotmark in help text, configuration paths and
	// environment variables.
	Name = "hotmark"
	// Description summarizes hotmark in help text.
	Description = "HTML markup compiler with source hot-reload"
)

// AuthorInfo is the name and email address of an author.
type AuthorInfo struct {
	Name  string
	Email string
}

func (a AuthorInfo) String() string { return a.Name + " <" + a.Email + ">" }

// Author lists the authors of hotmark.
var Author = []AuthorInfo{
	{"ardnew", "andrew@ardnew.com"},
}

// About returns the name, version and authors of hotmark on one line.
func About() string {
	authors := make([]string, len(Author))
	for i, a := range Author {
		authors[i] = a.String()
	}

	return Name + " " + strings.TrimSpace(Version) + " by " + strings.Join(authors, ", ")
}
