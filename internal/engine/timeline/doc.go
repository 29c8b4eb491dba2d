// Package timeline provides the in-memory document model edited by the engine:
// tracks that own an ordered, contiguous sequence of items.
//
// Items carry an optional source range in their own local coordinates. A track
// lays its children end to end starting at zero, so the track range of a child
// is the sum of the durations before it. Empty space is never implicit: it is
// represented by Gap items.
//
// Each item keeps a non-owning reference to the track that currently holds it.
// The reference is set by Track.InsertChild and cleared by Track.RemoveChild,
// which is the only way the parent changes.
//
// Tracks and items carry stable ids so that persisted edits can refer to them;
// a Catalog maps ids back to live objects.
package timeline
