package tensornet

import (
	"errors"
	"fmt"
	"math/cmplx"
)

// ErrNotCanonical is returned by CheckCanonical for sites that are not in
// the expected canonical form.
var ErrNotCanonical = errors.New("not canonical")

// Bipartition views a rank-n tensor as a matrix whose rows index the first
// k axes and whose columns index the remaining ones. For a state this is the
// amplitude matrix across the cut between qubit k-1 and qubit k.
func Bipartition(t Tensor, k int) (Tensor, error) {
	if k <= 0 || k >= t.Rank() {
		return Tensor{}, fmt.Errorf("cut after %d axes of rank %d tensor: %w", k, t.Rank(), ErrAxisRange)
	}
	var err error
	for range k - 1 {
		if t, err = MergeAxes(t, 0, 1); err != nil {
			return Tensor{}, err
		}
	}
	for t.Rank() > 2 {
		if t, err = MergeAxes(t, 1, 2); err != nil {
			return Tensor{}, err
		}
	}
	return t, nil
}

// gramIsIdentity reports whether the rows×cols matrix m satisfies m†m = I
// (columns orthonormal) or, with rowsOrthonormal, m m† = I.
func gramIsIdentity(m Tensor, rowsOrthonormal bool, tol float64) bool {
	rows, cols := m.Shape[0], m.Shape[1]
	at := func(i, j int) complex128 { return m.Data[i*cols+j] }
	outer, inner := cols, rows
	if rowsOrthonormal {
		outer, inner = rows, cols
	}
	for a := range outer {
		for b := range outer {
			var sum complex128
			for k := range inner {
				if rowsOrthonormal {
					sum += at(a, k) * cmplx.Conj(at(b, k))
				} else {
					sum += cmplx.Conj(at(k, a)) * at(k, b)
				}
			}
			var want complex128
			if a == b {
				want = 1
			}
			if cmplx.Abs(sum-want) > tol {
				return false
			}
		}
	}
	return true
}

// IsLeftCanonical reports whether the (left, physical, right) site tensor
// satisfies Σ A†A = I over its left and physical indices.
func IsLeftCanonical(site Tensor, tol float64) (bool, error) {
	if site.Rank() != 3 {
		return false, fmt.Errorf("site of rank %d: %w", site.Rank(), ErrShape)
	}
	m, err := MergeAxes(site, 0, 1)
	if err != nil {
		return false, err
	}
	return gramIsIdentity(m, false, tol), nil
}

// IsRightCanonical reports whether the (left, physical, right) site tensor
// satisfies Σ AA† = I over its physical and right indices.
func IsRightCanonical(site Tensor, tol float64) (bool, error) {
	if site.Rank() != 3 {
		return false, fmt.Errorf("site of rank %d: %w", site.Rank(), ErrShape)
	}
	m, err := MergeAxes(site, 1, 2)
	if err != nil {
		return false, err
	}
	return gramIsIdentity(m, true, tol), nil
}

// CheckCanonical verifies that the sites left of center are left canonical
// and the rest right canonical. Every offending site is reported.
func CheckCanonical(sites []Tensor, center int, tol float64) error {
	var errs []error
	for i, site := range sites {
		check, form := IsRightCanonical, "right"
		if i < center {
			check, form = IsLeftCanonical, "left"
		}
		ok, err := check(site, tol)
		if err != nil {
			errs = append(errs, fmt.Errorf("site %d: %w", i, err))
			continue
		}
		if !ok {
			errs = append(errs, fmt.Errorf("site %d is not %s canonical: %w", i, form, ErrNotCanonical))
		}
	}
	return errors.Join(errs...)
}
