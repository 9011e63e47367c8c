package reporef

import (
	"fmt"
	"net/url"
	"strings"

	"readmegen/internal/failure"
)

const (
	msgRequired      = "Repository URL is required"
	msgInvalidFormat = "Invalid repository URL format"
)

// Reference identifies a hosted repository by owner and name.
type Reference struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}

// Parse splits rawURL on "/" and takes the last two segments verbatim.
// Anything shorter than two segments is rejected as a validation failure.
func Parse(rawURL string) (Reference, error) {
	if rawURL == "" {
		return Reference{}, failure.Newf(failure.Validation, "", msgRequired)
	}
	parts := strings.Split(rawURL, "/")
	if len(parts) < 2 {
		return Reference{}, failure.Newf(failure.Validation, "", msgInvalidFormat)
	}
	return Reference{
		Owner: parts[len(parts)-2],
		Name:  parts[len(parts)-1],
	}, nil
}

func (r Reference) String() string { return r.Owner + "/" + r.Name }

// ArchiveURL returns the zipball endpoint for ref under apiBase,
// e.g. https://api.github.com/repos/{owner}/{repo}/zipball/main.
func (r Reference) ArchiveURL(apiBase, ref string) string {
	apiBase = strings.TrimRight(strings.TrimSpace(apiBase), "/")
	if apiBase == "" {
		apiBase = "https://api.github.com"
	}
	if ref == "" {
		ref = "main"
	}
	return fmt.Sprintf("%s/repos/%s/%s/zipball/%s",
		apiBase, url.PathEscape(r.Owner), url.PathEscape(r.Name), url.PathEscape(ref))
}
