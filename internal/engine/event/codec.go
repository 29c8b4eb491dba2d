package event

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/dshills/trackedit/internal/engine/opentime"
	"github.com/dshills/trackedit/internal/engine/timeline"
)

// Record is the persisted form of an event.
type Record struct {
	Kind     Kind           `yaml:"kind"`
	Version  int            `yaml:"version"`
	Name     string         `yaml:"name,omitempty"`
	State    string         `yaml:"state"`
	Fields   map[string]any `yaml:"fields,omitempty"`
	Children []Record       `yaml:"children,omitempty"`
}

// Marshal renders a record as YAML.
func Marshal(rec Record) ([]byte, error) {
	data, err := yaml.Marshal(rec)
	if err != nil {
		return nil, errors.Wrap(err, "marshal event record")
	}
	return data, nil
}

// Unmarshal parses a YAML record.
func Unmarshal(data []byte) (Record, error) {
	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return Record{}, errors.Wrapf(ErrMalformedRecord, "parse: %v", err)
	}
	if rec.Kind == "" {
		return Record{}, errors.Wrap(ErrMalformedRecord, "missing kind")
	}
	return rec, nil
}

// Encode converts ev into a record stamped with the registered version of its kind.
func (r *Registry) Encode(ev Event) (Record, error) {
	if ev == nil {
		return Record{}, errors.Wrap(ErrUnresolvedReference, "encode nil event")
	}
	def, err := r.Lookup(ev.Kind())
	if err != nil {
		return Record{}, err
	}

	rec := Record{
		Kind:    ev.Kind(),
		Version: def.Version,
		Name:    ev.Name(),
		State:   ev.State().String(),
		Fields:  map[string]any{},
	}

	switch e := ev.(type) {
	case *InsertEvent:
		rec.Fields["index"] = e.index
		rec.Fields["track"] = trackID(e.track)
		rec.Fields["item"] = itemID(e.item)
	case *RemoveEvent:
		rec.Fields["item"] = itemID(e.item)
		if e.track != nil {
			rec.Fields["track"] = trackID(e.track)
		}
		if e.state == StateRan {
			rec.Fields["index"] = e.index
		}
	case *ModifyRangeEvent:
		rec.Fields["item"] = itemID(e.item)
		rec.Fields["range"] = rangeField(e.newRange)
		if e.state == StateRan {
			rec.Fields["original"] = rangeField(e.original)
		}
	case *Stack:
		for _, child := range e.events {
			c, err := r.Encode(child)
			if err != nil {
				return Record{}, errors.Wrapf(err, "encode stack %q", e.name)
			}
			rec.Children = append(rec.Children, c)
		}
	}
	return rec, nil
}

// Decode builds an event from rec, upgrading it first when it is older than
// the registered version. Object references are resolved through res.
func (r *Registry) Decode(rec Record, res Resolver) (Event, error) {
	def, err := r.Lookup(rec.Kind)
	if err != nil {
		return nil, err
	}
	rec, err = def.upgrade(rec)
	if err != nil {
		return nil, err
	}

	children := make([]Event, 0, len(rec.Children))
	for i, c := range rec.Children {
		child, err := r.Decode(c, res)
		if err != nil {
			return nil, errors.Wrapf(err, "decode child %d of %q", i, rec.Kind)
		}
		children = append(children, child)
	}

	ev, err := def.Constructor(rec, children, res)
	if err != nil {
		return nil, errors.Wrapf(err, "construct %q", rec.Kind)
	}
	return ev, nil
}

func builtins() []Definition {
	return []Definition{
		{Kind: KindInsert, Version: 1, Constructor: decodeInsert},
		{Kind: KindRemove, Version: 1, Constructor: decodeRemove},
		{Kind: KindModifyRange, Version: 1, Constructor: decodeModifyRange},
		{Kind: KindStack, Version: 1, Constructor: decodeStack},
	}
}

func decodeInsert(rec Record, _ []Event, res Resolver) (Event, error) {
	index, err := intField(rec.Fields, "index")
	if err != nil {
		return nil, err
	}
	track, err := resolveTrack(rec.Fields, "track", res)
	if err != nil {
		return nil, err
	}
	item, err := resolveItem(rec.Fields, "item", res)
	if err != nil {
		return nil, err
	}
	state, err := ParseState(rec.State)
	if err != nil {
		return nil, err
	}

	e := &InsertEvent{
		base:  base{name: rec.Name, state: state},
		index: index,
		track: track,
		item:  item,
	}
	return e, nil
}

func decodeRemove(rec Record, _ []Event, res Resolver) (Event, error) {
	item, err := resolveItem(rec.Fields, "item", res)
	if err != nil {
		return nil, err
	}
	state, err := ParseState(rec.State)
	if err != nil {
		return nil, err
	}

	e := &RemoveEvent{
		base:  base{name: rec.Name, state: state},
		item:  item,
		index: -1,
	}
	if _, ok := rec.Fields["track"]; ok {
		if e.track, err = resolveTrack(rec.Fields, "track", res); err != nil {
			return nil, err
		}
	} else {
		e.track = item.Parent()
	}
	if state == StateRan {
		if e.track == nil {
			return nil, errors.Wrap(ErrMalformedRecord, "ran removal without a track")
		}
		if e.index, err = intField(rec.Fields, "index"); err != nil {
			return nil, err
		}
		if item.Parent() == nil {
			item.Claim(e)
		}
	}
	return e, nil
}

func decodeModifyRange(rec Record, _ []Event, res Resolver) (Event, error) {
	item, err := resolveItem(rec.Fields, "item", res)
	if err != nil {
		return nil, err
	}
	state, err := ParseState(rec.State)
	if err != nil {
		return nil, err
	}
	newRange, err := parseRange(rec.Fields["range"])
	if err != nil {
		return nil, errors.Wrap(err, "range")
	}

	e := &ModifyRangeEvent{
		base:     base{name: rec.Name, state: state},
		item:     item,
		newRange: newRange,
	}
	if state == StateRan {
		if e.original, err = parseRange(rec.Fields["original"]); err != nil {
			return nil, errors.Wrap(err, "original")
		}
	}
	return e, nil
}

func decodeStack(rec Record, children []Event, _ Resolver) (Event, error) {
	state, err := ParseState(rec.State)
	if err != nil {
		return nil, err
	}
	for i, child := range children {
		if child.State() != state {
			return nil, errors.Wrapf(ErrMalformedRecord, "child %d is %s in a %s stack", i, child.State(), state)
		}
	}
	s := NewStack(rec.Name, children...)
	s.state = state
	return s, nil
}

func trackID(t *timeline.Track) string {
	if t == nil {
		return ""
	}
	return t.ID().String()
}

func itemID(i *timeline.Item) string {
	if i == nil {
		return ""
	}
	return i.ID().String()
}

func idField(fields map[string]any, key string) (uuid.UUID, error) {
	s, ok := fields[key].(string)
	if !ok || s == "" {
		return uuid.Nil, errors.Wrapf(ErrUnresolvedReference, "missing %s id", key)
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, errors.Wrapf(ErrMalformedRecord, "%s id %q: %v", key, s, err)
	}
	return id, nil
}

func resolveTrack(fields map[string]any, key string, res Resolver) (*timeline.Track, error) {
	id, err := idField(fields, key)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, errors.Wrapf(ErrUnresolvedReference, "track %s: no resolver", id)
	}
	t, ok := res.ResolveTrack(id)
	if !ok {
		return nil, errors.Wrapf(ErrUnresolvedReference, "track %s", id)
	}
	return t, nil
}

func resolveItem(fields map[string]any, key string, res Resolver) (*timeline.Item, error) {
	id, err := idField(fields, key)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, errors.Wrapf(ErrUnresolvedReference, "item %s: no resolver", id)
	}
	item, ok := res.ResolveItem(id)
	if !ok {
		return nil, errors.Wrapf(ErrUnresolvedReference, "item %s", id)
	}
	return item, nil
}

func intField(fields map[string]any, key string) (int, error) {
	v, ok := fields[key]
	if !ok {
		return 0, errors.Wrapf(ErrMalformedRecord, "missing %s", key)
	}
	n, err := toInt64(v)
	if err != nil {
		return 0, errors.Wrapf(err, "field %s", key)
	}
	return int(n), nil
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case uint64:
		return int64(n), nil
	case float64:
		if n != float64(int64(n)) {
			return 0, errors.Wrapf(ErrMalformedRecord, "%v is not an integer", n)
		}
		return int64(n), nil
	default:
		return 0, errors.Wrapf(ErrMalformedRecord, "%v (%T) is not an integer", v, v)
	}
}

// rangeField renders r as {start: {value, rate}, duration: {value, rate}}, or nil.
func rangeField(r *opentime.TimeRange) any {
	if r == nil {
		return nil
	}
	return map[string]any{
		"start":    timeField(r.Start),
		"duration": timeField(r.Duration),
	}
}

func timeField(t opentime.RationalTime) map[string]any {
	return map[string]any{"value": t.Value, "rate": t.Rate}
}

func parseRange(v any) (*opentime.TimeRange, error) {
	if v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, errors.Wrapf(ErrMalformedRecord, "range is %T", v)
	}
	start, err := parseTime(m["start"])
	if err != nil {
		return nil, errors.Wrap(err, "start")
	}
	duration, err := parseTime(m["duration"])
	if err != nil {
		return nil, errors.Wrap(err, "duration")
	}
	r, err := opentime.NewTimeRange(start, duration)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func parseTime(v any) (opentime.RationalTime, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return opentime.RationalTime{}, errors.Wrapf(ErrMalformedRecord, "time is %T", v)
	}
	value, err := toInt64(m["value"])
	if err != nil {
		return opentime.RationalTime{}, err
	}
	rate, err := toInt64(m["rate"])
	if err != nil {
		return opentime.RationalTime{}, err
	}
	return opentime.New(value, rate), nil
}

// String returns a one-line summary of the record.
func (rec Record) String() string {
	return fmt.Sprintf("%s v%d %s (%d children)", rec.Kind, rec.Version, rec.State, len(rec.Children))
}
