package types_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/karupanerura/arith-expression/internal/types"
)

func TestErrorException(t *testing.T) {
	t.Parallel()

	inner := &types.Error{Tag: types.SyntaxErrorTag, Err: errors.New("invalid character at 2: '/'")}
	outer := &types.Error{
		Tag:   types.ValueErrorTag,
		Err:   fmt.Errorf("document: %w", inner),
		Extra: map[string]any{"offset": 2},
	}

	if got, want := outer.Error(), "ValueError: document: SyntaxError: invalid character at 2: '/'"; got != want {
		t.Errorf("expect %q but got %q", want, got)
	}

	expected := map[string]any{
		"tags":    []any{types.ValueErrorTag, types.SyntaxErrorTag},
		"message": "document: SyntaxError: invalid character at 2: '/'",
		"offset":  2,
	}
	if diff := cmp.Diff(expected, outer.Exception()); diff != "" {
		t.Errorf("unexpected exception (-want +got):\n%s", diff)
	}

	if got := (&types.Error{Tag: types.TypeErrorTag}).Error(); got != "TypeError" {
		t.Errorf("expect TypeError but got %q", got)
	}
}

func TestHasTag(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("wrapped: %w", &types.Error{Tag: types.ValueErrorTag})
	if !types.HasTag(err, types.ValueErrorTag) {
		t.Error("should have ValueError")
	}
	if types.HasTag(err, types.SyntaxErrorTag) {
		t.Error("should not have SyntaxError")
	}
	if types.HasTag(nil, types.ValueErrorTag) {
		t.Error("nil should not have any tag")
	}
}
