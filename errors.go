/*
Copyright © 2025 the InMAP authors.
This file is part of berkeleyearth.

berkeleyearth is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

berkeleyearth is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with berkeleyearth.  If not, see <http://www.gnu.org/licenses/>.
*/

package berkeleyearth

import "errors"

// Error kinds returned by this package. Callers should match them with
// errors.Is; the returned errors wrap them with the offending path, field
// or line.
var (
	// ErrNotFound is returned when no file matches a pattern or an expected
	// single file is absent.
	ErrNotFound = errors.New("not found")

	// ErrSchema is returned when an expected field or dimension is missing
	// from a dataset or has an unexpected shape.
	ErrSchema = errors.New("unexpected dataset schema")

	// ErrParse is returned for malformed rows of the global mean text table.
	ErrParse = errors.New("parse error")

	// ErrInsufficientData is returned when a reference period contains no
	// usable values.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInvalidArgument is returned for out-of-range parameters.
	ErrInvalidArgument = errors.New("invalid argument")
)
