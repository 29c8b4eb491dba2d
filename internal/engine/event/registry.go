package event

import (
	"slices"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/dshills/trackedit/internal/engine/timeline"
)

// Resolver looks up live objects by id when decoding records.
type Resolver interface {
	ResolveTrack(id uuid.UUID) (*timeline.Track, bool)
	ResolveItem(id uuid.UUID) (*timeline.Item, bool)
}

// Constructor builds an event from an upgraded record and its decoded children.
type Constructor func(rec Record, children []Event, r Resolver) (Event, error)

// UpgradeFunc rewrites the fields of a record to the next version.
type UpgradeFunc func(fields map[string]any) (map[string]any, error)

// Definition describes how a kind is built and upgraded.
type Definition struct {
	Kind        Kind
	Version     int
	Constructor Constructor

	// Upgrades is keyed by the version each function upgrades to.
	Upgrades map[int]UpgradeFunc
}

// Registry maps kinds to their definitions.
type Registry struct {
	mu    sync.Mutex
	kinds map[Kind]Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[Kind]Definition)}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// DefaultRegistry returns the process-wide registry holding the built-in kinds.
func DefaultRegistry() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
		for _, def := range builtins() {
			// Built-in kinds are distinct, so registration cannot fail.
			_ = defaultRegistry.Register(def)
		}
	})
	return defaultRegistry
}

// Register adds a kind definition.
func (r *Registry) Register(def Definition) error {
	if def.Kind == "" {
		return errors.New("event kind must not be empty")
	}
	if def.Constructor == nil {
		return errors.Newf("event kind %q has no constructor", def.Kind)
	}
	if def.Version < 1 {
		def.Version = 1
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.kinds[def.Kind]; ok {
		return errors.Wrapf(ErrDuplicateKind, "%q", def.Kind)
	}
	r.kinds[def.Kind] = def
	return nil
}

// AddUpgrade attaches an upgrade to a registered kind. The upgrade rewrites
// records of version-1 into version; version must not exceed the kind's
// current version.
func (r *Registry) AddUpgrade(kind Kind, version int, fn UpgradeFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	def, ok := r.kinds[kind]
	if !ok {
		return errors.Wrapf(ErrUnknownKind, "%q", kind)
	}
	if version < 2 || version > def.Version {
		return errors.Newf("upgrade of %q to version %d outside 2..%d", kind, version, def.Version)
	}
	upgrades := make(map[int]UpgradeFunc, len(def.Upgrades)+1)
	for v, fn := range def.Upgrades {
		upgrades[v] = fn
	}
	upgrades[version] = fn
	def.Upgrades = upgrades
	r.kinds[kind] = def
	return nil
}

// Lookup returns the definition of kind.
func (r *Registry) Lookup(kind Kind) (Definition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	def, ok := r.kinds[kind]
	if !ok {
		return Definition{}, errors.Wrapf(ErrUnknownKind, "%q", kind)
	}
	return def, nil
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry) Kinds() []Kind {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Kind, 0, len(r.kinds))
	for k := range r.kinds {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// upgrade runs the upgrades of def for rec, oldest first.
func (def Definition) upgrade(rec Record) (Record, error) {
	if rec.Version > def.Version {
		return rec, errors.Wrapf(ErrMalformedRecord, "%q version %d is newer than %d", rec.Kind, rec.Version, def.Version)
	}
	for v := rec.Version + 1; v <= def.Version; v++ {
		fn, ok := def.Upgrades[v]
		if !ok {
			continue
		}
		fields, err := fn(cloneFields(rec.Fields))
		if err != nil {
			return rec, errors.Wrapf(err, "upgrade %q to version %d", rec.Kind, v)
		}
		rec.Fields = fields
	}
	rec.Version = def.Version
	return rec, nil
}

func cloneFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
