package opentime

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// RationalTime is Value units at Rate units per second.
type RationalTime struct {
	Value int64 // Number of units
	Rate  int64 // Units per second, must be > 0
}

// New creates a RationalTime.
func New(value, rate int64) RationalTime {
	return RationalTime{Value: value, Rate: rate}
}

// Zero returns a zero time at the given rate.
func Zero(rate int64) RationalTime {
	return RationalTime{Rate: rate}
}

// Validate returns ErrInvalidRate if the rate is not positive.
func (t RationalTime) Validate() error {
	if t.Rate <= 0 {
		return errors.Wrapf(ErrInvalidRate, "time %d@%d", t.Value, t.Rate)
	}
	return nil
}

// String returns a human-readable representation such as "10@24".
func (t RationalTime) String() string {
	return fmt.Sprintf("%d@%d", t.Value, t.Rate)
}

// Compare returns -1, 0 or 1 when t is before, equal to or after o.
func (t RationalTime) Compare(o RationalTime) int {
	l := t.Value * o.Rate
	r := o.Value * t.Rate
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	default:
		return 0
	}
}

// Equal returns true if both times denote the same instant, whatever their rates.
func (t RationalTime) Equal(o RationalTime) bool {
	return t.Compare(o) == 0
}

// Before returns true if t is strictly before o.
func (t RationalTime) Before(o RationalTime) bool {
	return t.Compare(o) < 0
}

// After returns true if t is strictly after o.
func (t RationalTime) After(o RationalTime) bool {
	return t.Compare(o) > 0
}

// Sign returns -1, 0 or 1 according to the sign of the value.
func (t RationalTime) Sign() int {
	switch {
	case t.Value < 0:
		return -1
	case t.Value > 0:
		return 1
	default:
		return 0
	}
}

// IsZero returns true for a zero value at any rate.
func (t RationalTime) IsZero() bool {
	return t.Value == 0
}

// Add returns t + o. Mixed rates are rescaled to their least common multiple.
func (t RationalTime) Add(o RationalTime) RationalTime {
	a, b := common(t, o)
	return RationalTime{Value: a.Value + b.Value, Rate: a.Rate}
}

// Sub returns t - o. Mixed rates are rescaled to their least common multiple.
func (t RationalTime) Sub(o RationalTime) RationalTime {
	a, b := common(t, o)
	return RationalTime{Value: a.Value - b.Value, Rate: a.Rate}
}

// Min returns the earlier of t and o.
func (t RationalTime) Min(o RationalTime) RationalTime {
	if o.Before(t) {
		return o
	}
	return t
}

// Max returns the later of t and o.
func (t RationalTime) Max(o RationalTime) RationalTime {
	if o.After(t) {
		return o
	}
	return t
}

// Rescaled returns t expressed at rate, which must be a multiple of t.Rate.
func (t RationalTime) Rescaled(rate int64) (RationalTime, error) {
	if rate <= 0 || t.Rate <= 0 {
		return RationalTime{}, errors.Wrapf(ErrInvalidRate, "rescale %s to %d", t, rate)
	}
	if rate%t.Rate != 0 {
		return RationalTime{}, errors.Newf("rescale %s to %d is not exact", t, rate)
	}
	return RationalTime{Value: t.Value * (rate / t.Rate), Rate: rate}, nil
}

// common rescales a and b to a shared rate.
func common(a, b RationalTime) (RationalTime, RationalTime) {
	if a.Rate == b.Rate {
		return a, b
	}
	if a.Rate <= 0 || b.Rate <= 0 {
		// Leave the invalid operand visible to Validate on the result.
		return a, RationalTime{Value: b.Value, Rate: a.Rate}
	}
	l := lcm(a.Rate, b.Rate)
	return RationalTime{Value: a.Value * (l / a.Rate), Rate: l},
		RationalTime{Value: b.Value * (l / b.Rate), Rate: l}
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcm(a, b int64) int64 {
	return a / gcd(a, b) * b
}
