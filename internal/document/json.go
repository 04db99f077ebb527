package document

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

var jsonPointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// walk rebuilds maps and slices under v, replacing each leaf with what fn returns.
// pointer is the JSON pointer of v.
func walk(pointer string, v any, fn func(pointer string, leaf any) (any, error)) (any, error) {
	switch vv := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(vv))
		for key, value := range vv {
			var err error
			m[key], err = walk(pointer+"/"+jsonPointerEscaper.Replace(key), value, fn)
			if err != nil {
				return nil, err
			}
		}
		return m, nil

	case []any:
		s := make([]any, len(vv))
		for i, value := range vv {
			var err error
			s[i], err = walk(pointer+"/"+strconv.Itoa(i), value, fn)
			if err != nil {
				return nil, err
			}
		}
		return s, nil

	default:
		return fn(pointer, v)
	}
}

func decodeJSONNumberLeaf(pointer string, leaf any) (any, error) {
	n, ok := leaf.(json.Number)
	if !ok {
		return leaf, nil
	}

	v, err := decodeJSONNumber(n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", pointer, err)
	}
	return v, nil
}

func decodeJSONNumber(n json.Number) (any, error) {
	if i := strings.IndexAny(n.String(), ".eE"); i == -1 {
		if n, err := n.Int64(); errors.Is(err, strconv.ErrRange) {
			// retry parse as float64
		} else {
			return n, err
		}
	}
	return n.Float64()
}
