package archive

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/toaaa/apparatus-dl/pkg/domain/types"
)

// SanitizeName turns a stored entry name into a relative slash-separated path that
// cannot leave the extraction root. Leading slashes and ".", ".." components are
// dropped. It returns "" when nothing is left.
func SanitizeName(name string) string {
	var parts []string
	for _, part := range strings.Split(name, "/") {
		switch part {
		case "", ".", "..":
			continue
		}
		parts = append(parts, part)
	}
	return path.Join(parts...)
}

// resolvePath joins the sanitized entry name onto root and checks the result stays inside it
func resolvePath(root, name string) (string, string, error) {
	rel := SanitizeName(name)
	dest := filepath.Join(root, filepath.FromSlash(rel))

	if !within(root, dest) {
		return "", "", goerr.New("entry escapes target directory",
			goerr.V("entry", name),
			goerr.V("dest", dest),
			goerr.T(types.ErrTagPath))
	}

	return dest, rel, nil
}

func within(root, target string) bool {
	root = filepath.Clean(root)
	if target == root {
		return true
	}
	prefix := root
	if !strings.HasSuffix(prefix, string(os.PathSeparator)) {
		prefix += string(os.PathSeparator)
	}
	return strings.HasPrefix(target, prefix)
}
