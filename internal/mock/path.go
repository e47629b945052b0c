package mock

import (
	"fmt"
	"strings"

	"github.com/iamtinsae/mockify/internal/model"
)

// MalformedRequestError reports a request path that cannot be split into
// project slug, resource name and route.
type MalformedRequestError struct {
	Path   string
	Reason string
}

func (e *MalformedRequestError) Error() string {
	return fmt.Sprintf("malformed mock path %q: %s", e.Path, e.Reason)
}

// ParseRequest decomposes a request path of the form
// /{projectSlug}/{resourceName}/{route...} and pairs it with method. The
// route is "/" followed by the rest of the path, or "/" when there is no
// rest. Trailing slashes are kept, so /demo/users/all and /demo/users/all/
// name different routes.
func ParseRequest(method, path string) (Key, error) {
	trimmed := strings.TrimPrefix(path, "/")
	parts := strings.SplitN(trimmed, "/", 3)

	if len(parts) < 2 {
		return Key{}, &MalformedRequestError{Path: path, Reason: "expected /{project}/{resource}"}
	}
	if parts[0] == "" {
		return Key{}, &MalformedRequestError{Path: path, Reason: "missing project slug"}
	}
	if parts[1] == "" {
		return Key{}, &MalformedRequestError{Path: path, Reason: "missing resource name"}
	}

	route := "/"
	if len(parts) == 3 {
		route = "/" + parts[2]
	}

	return Key{
		ProjectSlug:  parts[0],
		ResourceName: parts[1],
		Route:        route,
		Method:       model.HTTPMethod(method),
	}, nil
}
