package sharefile

import (
	gopath "path"
	"strings"
)

// normalizePath trims redundant slashes and maps the "." and "" spellings
// of the root to the empty string.
func normalizePath(path string) string {
	path = strings.Trim(path, "/")
	if path == "." {
		return ""
	}

	return path
}

// joinPath joins the given segments with single slashes, skipping empty ones.
func joinPath(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, segment := range segments {
		segment = normalizePath(segment)
		if segment != "" {
			parts = append(parts, segment)
		}
	}

	return strings.Join(parts, "/")
}

// pathInfo carries the split components of a normalized virtual path.
// Basename is the extension-stripped stem, Filename the full final segment.
type pathInfo struct {
	Dirname   string
	Filename  string
	Extension string
	Basename  string
}

// splitPath breaks a normalized virtual path into its components.
func splitPath(path string) pathInfo {
	dir := gopath.Dir(path)
	if dir == "." || dir == "/" {
		dir = ""
	}

	file := gopath.Base(path)
	if file == "." || file == "/" {
		file = ""
	}

	ext := gopath.Ext(file)

	return pathInfo{
		Dirname:   dir,
		Filename:  file,
		Extension: strings.TrimPrefix(ext, "."),
		Basename:  strings.TrimSuffix(file, ext),
	}
}
