package storage

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"unicode"

	"go-society-manager/pkg/apierror"
)

// PathValidator maps client supplied relative paths onto a root directory and
// rejects anything that would land outside it.
type PathValidator struct {
	rootAbs string
}

func NewPathValidator(root string) (*PathValidator, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("root path cannot be empty")
	}

	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}

	return &PathValidator{rootAbs: rootAbs}, nil
}

func (v *PathValidator) RootAbs() string {
	return v.rootAbs
}

func (v *PathValidator) ResolvePath(clientPath string) (string, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(clientPath), `\`, "/")
	if err := checkSegments(normalized, clientPath); err != nil {
		return "", err
	}

	cleanRel := filepath.Clean(strings.TrimPrefix(normalized, "/"))
	if cleanRel == "." || cleanRel == "" {
		return v.rootAbs, nil
	}

	resolvedAbs, err := filepath.Abs(filepath.Join(v.rootAbs, cleanRel))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}

	if !isWithinRoot(v.rootAbs, resolvedAbs) {
		return "", traversal(clientPath, "resolved path is outside storage root")
	}

	return resolvedAbs, nil
}

func checkSegments(normalized string, original string) error {
	for _, char := range normalized {
		if char == 0 || unicode.IsControl(char) {
			return apierror.New("INVALID_PATH", "path contains invalid characters", original, http.StatusBadRequest)
		}
	}

	for _, segment := range strings.Split(normalized, "/") {
		if segment == ".." {
			return traversal(original, "path traversal attempt detected")
		}
	}
	return nil
}

func traversal(path string, message string) error {
	return apierror.New("PATH_TRAVERSAL", message, path, http.StatusForbidden)
}

func isWithinRoot(rootAbs string, candidateAbs string) bool {
	if candidateAbs == rootAbs {
		return true
	}
	return strings.HasPrefix(candidateAbs, rootAbs+string(filepath.Separator))
}
