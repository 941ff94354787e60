package zerrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/torlangballe/zstats/zstr"
)

// ContextError is an error with a title, a set of key/values telling where it happened, and the error it wraps, if any.
type ContextError struct {
	Title           string
	SubContextError *ContextError
	WrappedError    error `json:"-"`
	KeyValues       map[string]any
}

func (e ContextError) Error() string {
	str := e.Title
	if kv := e.keyValueString(); kv != "" {
		str += " (" + kv + ")"
	}
	if e.WrappedError != nil {
		str += ": " + e.WrappedError.Error()
	}
	return str
}

func (e ContextError) keyValueString() string {
	keys := make([]string, 0, len(e.KeyValues))
	for k := range e.KeyValues {
		if k != "Error" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprint(k, "=", e.KeyValues[k])
	}
	return strings.Join(parts, " ")
}

func (e ContextError) String() string {
	str := fmt.Sprintf("{ %s %+v ", e.Title, e.KeyValues)
	if e.SubContextError != nil {
		str += "{ " + e.SubContextError.String() + " } "
	}
	return str + "}"
}

func (e ContextError) Unwrap() error {
	if e.WrappedError != nil {
		return e.WrappedError
	}
	if e.SubContextError != nil {
		return *e.SubContextError
	}
	return nil
}

// MakeContextError makes a ContextError with the key/values in dict.
// An error in parts is wrapped, the rest form the title.
func MakeContextError(dict map[string]any, parts ...any) ContextError {
	var ie ContextError
	var nparts []any
	ie.KeyValues = dict
	for _, p := range parts {
		err, got := p.(error)
		if got {
			ie.WrappedError = err
			ce, gotCE := ContextErrorFromError(err)
			if gotCE {
				ie.SubContextError = &ce
			}
			continue
		}
		nparts = append(nparts, p)
	}
	ie.Title = zstr.Spaced(nparts...)
	return ie
}

func ContextErrorFromError(err error) (ContextError, bool) {
	var ce ContextError
	if errors.As(err, &ce) {
		return ce, true
	}
	return ContextError{}, false
}
