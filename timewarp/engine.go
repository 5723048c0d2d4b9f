package timewarp

import "context"

// ChangesOf computes Distance(x, period, origin) and feeds it through
// Changes, in one call. It is the direct analogue of the changes
// operation in the public interface, which is always defined in terms of
// a distance sequence rather than raw input.
func ChangesOf(ctx context.Context, x Vector, period Period, origin *Origin) ([]int64, error) {
	d, err := Distance(ctx, x, period, origin)
	if err != nil {
		return nil, err
	}
	return Changes(d), nil
}

// BoundaryOf is the Boundary analogue of ChangesOf.
func BoundaryOf(ctx context.Context, x Vector, period Period, origin *Origin) ([]int64, error) {
	d, err := Distance(ctx, x, period, origin)
	if err != nil {
		return nil, err
	}
	return Boundary(d), nil
}

// RangesOf is the Ranges analogue of ChangesOf.
func RangesOf(ctx context.Context, x Vector, period Period, origin *Origin) ([]Range, error) {
	d, err := Distance(ctx, x, period, origin)
	if err != nil {
		return nil, err
	}
	return Ranges(d), nil
}

// IsSortedOf is the IsSorted analogue of ChangesOf.
func IsSortedOf(ctx context.Context, x Vector, period Period, origin *Origin) (bool, error) {
	d, err := Distance(ctx, x, period, origin)
	if err != nil {
		return false, err
	}
	return IsSorted(d), nil
}
