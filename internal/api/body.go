package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
)

// errInvalidJSON and errInvalidForm mark bodies that could not be parsed.
var (
	errInvalidJSON = errors.New("invalid JSON body")
	errInvalidForm = errors.New("invalid form body")
)

// formValues is a request body flattened to string values, whichever
// encoding it arrived in.
type formValues map[string]string

// get returns the value for key. A key that is absent, JSON null or the
// empty string is reported as not present.
func (f formValues) get(key string) (string, bool) {
	v, ok := f[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// optional returns a pointer to the value for key, or nil when not present.
func (f formValues) optional(key string) *string {
	v, ok := f.get(key)
	if !ok {
		return nil
	}
	return &v
}

// require returns the values for keys in order, or false if any is missing.
func (f formValues) require(keys ...string) ([]string, bool) {
	out := make([]string, len(keys))
	for i, k := range keys {
		v, ok := f.get(k)
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// parseBody reads a JSON object when the request is application/json and
// form values otherwise. JSON scalars are converted to their text form;
// objects, arrays and trailing data are rejected as invalid JSON.
func parseBody(r *http.Request) (formValues, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")) //nolint:errcheck // empty type falls through to form parsing
	if mediaType == "application/json" {
		return parseJSONBody(r)
	}
	return parseFormBody(r)
}

func parseJSONBody(r *http.Request) (formValues, error) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, wrapBodyError(errInvalidJSON, err)
	}
	if raw == nil {
		// A literal null body.
		return nil, errInvalidJSON
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		// Trailing data after the object.
		return nil, wrapBodyError(errInvalidJSON, err)
	}

	values := make(formValues, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case nil:
			// null is treated as absent.
		case string:
			values[k] = val
		case json.Number:
			values[k] = val.String()
		case bool:
			values[k] = strconv.FormatBool(val)
		default:
			// Objects and arrays have no form equivalent.
			return nil, fmt.Errorf("%w: field %q is not a scalar", errInvalidJSON, k)
		}
	}
	return values, nil
}

func parseFormBody(r *http.Request) (formValues, error) {
	if err := r.ParseForm(); err != nil {
		return nil, wrapBodyError(errInvalidForm, err)
	}
	values := make(formValues, len(r.PostForm))
	for k := range r.PostForm {
		values[k] = r.PostForm.Get(k)
	}
	return values, nil
}

// wrapBodyError keeps *http.MaxBytesError reachable so the handler can
// answer 413 instead of 400.
func wrapBodyError(kind, cause error) error {
	return errors.Join(kind, cause)
}

// writeBodyError answers a parseBody failure.
func writeBodyError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
	case errors.Is(err, errInvalidForm):
		writeBadRequest(w, msgInvalidForm)
	default:
		writeBadRequest(w, msgInvalidJSON)
	}
}
