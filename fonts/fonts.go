// Package fonts resolves font files into faces at pixel sizes. Faces are
// loaded once per (file, size) and shared for the life of the Resolver.
package fonts

import (
	"log/slog"
	"os"
	"slices"
	"strconv"
	"sync"

	"golang.org/x/image/font/opentype"
	"golang.org/x/sync/singleflight"
)

// Role names the typographic use of a face. Each role scales a base size.
type Role int

const (
	Summary Role = iota
	Title
	Headline
	Meta
)

var roleNames = [...]string{
	Summary:  "summary",
	Title:    "title",
	Headline: "headline",
	Meta:     "meta",
}

func (r Role) String() string {
	if r < 0 || int(r) >= len(roleNames) {
		return "role(" + strconv.Itoa(int(r)) + ")"
	}
	return roleNames[r]
}

// ParseRole maps a role name to its Role. Unknown names map to Summary,
// which keeps the base size.
func ParseRole(name string) (Role, bool) {
	for i, n := range roleNames {
		if n == name {
			return Role(i), true
		}
	}
	return Summary, false
}

// Scale returns the size used for the role at base size, truncated toward
// zero.
func (r Role) Scale(base int) int {
	switch r {
	case Title:
		return int(float64(base) * 1.2)
	case Headline:
		return int(float64(base) * 1.1)
	case Meta:
		return int(float64(base) * 0.8)
	}
	return base
}

type cacheKey struct {
	path string
	size int
}

func (k cacheKey) String() string {
	return k.path + "@" + strconv.Itoa(k.size)
}

// Resolver loads faces from a primary and a fallback font file. It is safe
// for concurrent use.
type Resolver struct {
	primary  string
	fallback string
	log      *slog.Logger

	loads singleflight.Group

	mu     sync.RWMutex
	faces  map[cacheKey]*Handle
	parsed map[string]*opentype.Font
}

// NewResolver returns a resolver for the given font files. Missing files
// are reported but not fatal; faces degrade to the fallback file and then
// to a built-in bitmap font. A nil logger discards messages.
func NewResolver(primary, fallback string, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	r := &Resolver{
		primary:  primary,
		fallback: fallback,
		log:      logger,
		faces:    make(map[cacheKey]*Handle),
		parsed:   make(map[string]*opentype.Font),
	}
	for _, f := range []struct{ kind, path string }{{"primary", primary}, {"fallback", fallback}} {
		if f.path == "" {
			continue
		}
		if _, err := os.Stat(f.path); err != nil {
			logger.Warn("fonts: font file unavailable", "kind", f.kind, "path", f.path, "err", err)
		}
	}
	return r
}

// Resolve returns the face for size pixels from the primary file, or from
// the fallback file when preferFallback is set. Sizes below 1 are raised
// to 1. Resolve never fails; inspect [Handle.Status] for degradation.
func (r *Resolver) Resolve(size int, preferFallback bool) *Handle {
	size = max(size, 1)
	path := r.primary
	if preferFallback {
		path = r.fallback
	}
	k := cacheKey{path: path, size: size}
	if h := r.cached(k); h != nil {
		return h
	}
	v, _, _ := r.loads.Do(k.String(), func() (any, error) {
		if h := r.cached(k); h != nil {
			return h, nil
		}
		h := r.load(k)
		r.mu.Lock()
		r.faces[k] = h
		r.mu.Unlock()
		return h, nil
	})
	return v.(*Handle)
}

// ResolveNamed returns the primary face for role at its scaled size.
func (r *Resolver) ResolveNamed(role Role, base int) *Handle {
	return r.Resolve(role.Scale(base), false)
}

func (r *Resolver) cached(k cacheKey) *Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.faces[k]
}

// load tries the requested file, then the fallback file, then the
// built-in face.
func (r *Resolver) load(k cacheKey) *Handle {
	candidates := []string{k.path}
	if k.path != r.fallback {
		candidates = append(candidates, r.fallback)
	}
	for i, path := range candidates {
		if path == "" {
			continue
		}
		f, err := r.parse(path)
		if err == nil {
			var face *Handle
			face, err = newHandle(f, path, k.size)
			if err == nil {
				if i > 0 {
					face.status = Degraded
					r.log.Info("fonts: using fallback font", "path", path, "size", k.size)
				} else {
					r.log.Debug("fonts: loaded font", "path", path, "size", k.size)
				}
				return face
			}
		}
		r.log.Warn("fonts: load failed", "path", path, "size", k.size, "err", err)
	}
	r.log.Warn("fonts: using built-in bitmap font, non-Latin text will not render", "size", k.size)
	return newBuiltin(k.size)
}

func (r *Resolver) parse(path string) (*opentype.Font, error) {
	r.mu.RLock()
	f, ok := r.parsed[path]
	r.mu.RUnlock()
	if ok {
		return f, nil
	}
	f, err := parseFile(path)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.parsed[path] = f
	r.mu.Unlock()
	return f, nil
}

// CacheInfo describes the faces held by a Resolver.
type CacheInfo struct {
	// Faces is the number of cached faces.
	Faces int
	// Sizes lists the distinct cached sizes in increasing order.
	Sizes []int
}

func (r *Resolver) CacheInfo() CacheInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info := CacheInfo{Faces: len(r.faces)}
	for k := range r.faces {
		if !slices.Contains(info.Sizes, k.size) {
			info.Sizes = append(info.Sizes, k.size)
		}
	}
	slices.Sort(info.Sizes)
	return info
}

// ClearCache drops every cached face. Handles already returned stay valid.
func (r *Resolver) ClearCache() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.faces)
	clear(r.parsed)
}
