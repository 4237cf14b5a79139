// Package names demangles C++ symbol names found in compiler output.
package names

import (
	"regexp"
	"sync"

	"github.com/ianlancetaylor/demangle"
)

// Itanium mangled names as emitted by LLVM based backends
var mangledRe = regexp.MustCompile(`_Z[A-Za-z0-9_$.]+`)

// Demangler caches demangled names. The zero value is ready to use and safe
// for concurrent use.
type Demangler struct {
	mu    sync.RWMutex
	cache map[string]string
	hits  int
}

// Default is the process-wide demangler.
var Default = &Demangler{}

// Name demangles one symbol, returning it unchanged when it is not mangled.
func (d *Demangler) Name(mangled string) string {
	d.mu.RLock()
	cached, ok := d.cache[mangled]
	d.mu.RUnlock()
	if ok {
		d.mu.Lock()
		d.hits++
		d.mu.Unlock()
		return cached
	}

	demangled := demangle.Filter(mangled, demangle.NoClones)

	d.mu.Lock()
	if d.cache == nil {
		d.cache = make(map[string]string)
	}
	d.cache[mangled] = demangled
	d.mu.Unlock()
	return demangled
}

// Line demangles every mangled name embedded in line.
func (d *Demangler) Line(line string) string {
	return mangledRe.ReplaceAllStringFunc(line, d.Name)
}

// Stats returns the number of cached names and cache hits.
func (d *Demangler) Stats() (entries, hits int) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.cache), d.hits
}

// Line demangles line with the Default demangler.
func Line(line string) string {
	return Default.Line(line)
}
