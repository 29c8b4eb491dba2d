package edit

import "github.com/cockroachdb/errors"

// Coordinates selects the frame of reference of a slice instant.
type Coordinates int

const (
	// Local instants are in the item's own source range.
	Local Coordinates = iota
	// Parent instants are in the coordinates of the item's track.
	Parent
	// Global instants are resolved as Parent.
	Global
)

// String returns the coordinate space name.
func (c Coordinates) String() string {
	switch c {
	case Local:
		return "local"
	case Parent:
		return "parent"
	case Global:
		return "global"
	default:
		return "unknown"
	}
}

// ParseCoordinates returns the Coordinates named by s.
func ParseCoordinates(s string) (Coordinates, error) {
	switch s {
	case "local", "item":
		return Local, nil
	case "parent", "track":
		return Parent, nil
	case "global":
		return Global, nil
	default:
		return Parent, errors.Newf("unknown coordinate space %q", s)
	}
}
