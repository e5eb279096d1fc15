package flow

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "load", KindLoad.String())
	assert.Equal(t, "resolution", KindResolution.String())
	assert.Equal(t, "build", KindBuild.String())
	assert.Equal(t, "ErrorKind(9)", ErrorKind(9).String())
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "load with position",
			err:  &Error{Kind: KindLoad, Code: ErrCodeFlowMalformed, Path: "flow.json", Line: 3, Column: 7, Message: "invalid JSON"},
			want: "flow.json:3:7: load error E102: invalid JSON",
		},
		{
			name: "resolution with cause",
			err:  ResolutionError(ErrCodeRuleUnreadable, "t1", "rules.csv", "cannot read rule file", fs.ErrNotExist),
			want: `rules.csv: resolution error E201 (unit "t1"): cannot read rule file: file does not exist`,
		},
		{
			name: "build",
			err:  BuildError(ErrCodeDanglingEdge, "a", "targets[0]: reference \"x\" does not name a node"),
			want: `build error E301 (unit "a"): targets[0]: reference "x" does not name a node`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	err := LoadError(ErrCodeFlowUnreadable, "flow.json", "cannot read flow file", fs.ErrNotExist)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestIsKindAndCodeOf(t *testing.T) {
	base := ResolutionError(ErrCodeNoExpressionKey, "e1", "", "expression unit declares no inputs", nil)
	wrapped := fmt.Errorf("compile: %w", base)

	assert.True(t, IsKind(wrapped, KindResolution))
	assert.False(t, IsKind(wrapped, KindBuild))
	assert.Equal(t, ErrCodeNoExpressionKey, CodeOf(wrapped))

	plain := errors.New("boom")
	assert.False(t, IsKind(plain, KindLoad))
	assert.Equal(t, "", CodeOf(plain))
}
