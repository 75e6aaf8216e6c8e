package symtab

import (
	"strings"
)

// SourceNew registers a source file and returns its identifier.  Relative
// file names are composed with their directory.  Identifiers are 1-based;
// 0 means no source.  Registering the same path twice returns the same
// identifier.
func (module *Module) SourceNew(dir string, name string) int {
	full := name
	if dir != "" && !strings.HasPrefix(name, "/") {
		if strings.HasSuffix(dir, "/") {
			full = dir + name
		} else {
			full = dir + "/" + name
		}
	}

	id, ok := module.sourceIndex[full]
	if ok {
		return id
	}

	module.sources = append(module.sources, full)
	id = len(module.sources)
	module.sourceIndex[full] = id
	return id
}

// SourceGet returns the path registered under the identifier, or "" when
// the identifier is unknown.
func (module *Module) SourceGet(id int) string {
	if id <= 0 || id > len(module.sources) {
		return ""
	}
	return module.sources[id-1]
}

// SourceCount returns the number of registered source files.
func (module *Module) SourceCount() int {
	return len(module.sources)
}
