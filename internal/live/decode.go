package live

import (
	"encoding/json"
	"errors"
	"strconv"
)

// isDecodeError reports whether err comes from decoding a client frame rather
// than from the connection itself.
func isDecodeError(err error) bool {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		numErr    *strconv.NumError
	)
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.As(err, &numErr)
}
