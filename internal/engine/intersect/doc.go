// Package intersect classifies how the children of a track relate to a
// query range.
//
// Compute walks the children in time order and reports one Intersection per
// child that shares a span of positive duration with the query. Each record
// carries the trimmed portions of the child that lie outside the query,
// expressed in the child's own source coordinates, so that a planner can
// shrink or split the child without further arithmetic.
//
// Classification precedence for a child range C and query Q:
//
//	Q contains C             Contains       (no trimmed ranges)
//	C contains Q, interior   Contained      (before and after)
//	C contains Q, same start OverlapBefore  (before is empty, after set)
//	C contains Q, same end   OverlapAfter   (before set, after is empty)
//	Q starts before C        OverlapBefore  (after only)
//	Q ends after C           OverlapAfter   (before only)
//	otherwise                None
//
// A child that only touches Q at a boundary is None. Because children are
// contiguous and ordered, the first None after contact ends the scan.
package intersect
