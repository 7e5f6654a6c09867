package model

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/m-mizutani/freshness/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// RepositoryRef identifies a GitHub repository by owner and name
type RepositoryRef struct {
	Owner string
	Name  string
}

// ParseRepositoryRef splits path on the first "/". The first token is the
// owner and the remainder is the name; both must be non-empty. "." and ".."
// segments, escaped or not, are rejected because they would be resolved
// when the upstream URL is built.
func ParseRepositoryRef(path string) (RepositoryRef, error) {
	owner, name, found := strings.Cut(path, "/")
	if !found || owner == "" || name == "" {
		return RepositoryRef{}, goerr.Wrap(types.ErrMalformed, "path must be owner/name", goerr.V("path", path))
	}

	for _, seg := range strings.Split(path, "/") {
		if isDotSegment(seg) {
			return RepositoryRef{}, goerr.Wrap(types.ErrMalformed, "path must not contain dot segments", goerr.V("path", path))
		}
	}

	return RepositoryRef{Owner: owner, Name: name}, nil
}

func isDotSegment(seg string) bool {
	if unescaped, err := url.PathUnescape(seg); err == nil {
		seg = unescaped
	}
	return seg == "." || seg == ".."
}

func (x RepositoryRef) String() string {
	return x.Owner + "/" + x.Name
}

func (x RepositoryRef) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("owner", x.Owner),
		slog.String("name", x.Name),
	)
}
