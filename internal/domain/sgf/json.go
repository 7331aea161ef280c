package sgf

import (
	"encoding/json"
	"fmt"
	"io"

	sgferrors "sgfgrove/internal/errors"
)

// DecodeJSON reads a collection in its JSON shape. Numbers are kept as
// json.Number so that integer properties survive the trip.
func DecodeJSON(r io.Reader) (Collection, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var c Collection
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("%w: %v", sgferrors.ErrMalformedInput, err)
	}
	return c, nil
}
