package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var (
	ErrBodyTooLarge = errors.New("request body too large")
	ErrBatchRequest = errors.New("batched requests are not supported")
	ErrMalformed    = errors.New("malformed JSON body")
)

// DecodeSingleJSON decodes exactly one JSON object from the request body into
// dst. Arrays (batches), unknown fields, trailing values and bodies larger
// than maxBytes are rejected, so a single request can never smuggle in more
// than one operation.
func DecodeSingleJSON(w http.ResponseWriter, r *http.Request, dst any, maxBytes int64) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return ErrBodyTooLarge
		}
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return fmt.Errorf("%w: empty body", ErrMalformed)
	}
	if trimmed[0] == '[' {
		return ErrBatchRequest
	}
	if trimmed[0] != '{' {
		return fmt.Errorf("%w: expected a JSON object", ErrMalformed)
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: unexpected data after object", ErrMalformed)
	}

	return nil
}
