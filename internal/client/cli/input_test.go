package cli

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"simple line", "hello\n", "hello", false},
		{"trims whitespace", "  spaced  \n", "spaced", false},
		{"partial line at EOF", "no-newline", "no-newline", false},
		{"empty at EOF", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			r := bufio.NewReader(strings.NewReader(tt.input))
			got, err := GetSimpleText(r, "Prompt", &out)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Prompt")
		})
	}
}

func TestGetPassword_Stubbed(t *testing.T) {
	orig := readPassword
	readPassword = func(int) ([]byte, error) { return []byte("hunter2"), nil }
	defer func() { readPassword = orig }()

	var out bytes.Buffer
	pw, err := GetPassword(&out)
	require.NoError(t, err)
	assert.Equal(t, []byte("hunter2"), pw)
	assert.Contains(t, out.String(), "Enter password")
}

func TestGetPasswordConfirmed_Mismatch(t *testing.T) {
	orig := readPassword
	answers := [][]byte{[]byte("one"), []byte("two")}
	readPassword = func(int) ([]byte, error) {
		next := answers[0]
		answers = answers[1:]
		return next, nil
	}
	defer func() { readPassword = orig }()

	_, err := GetPasswordConfirmed(io.Discard)
	assert.Error(t, err)
}

func TestGetPasswordConfirmed_Match(t *testing.T) {
	orig := readPassword
	readPassword = func(int) ([]byte, error) { return []byte("same"), nil }
	defer func() { readPassword = orig }()

	pw, err := GetPasswordConfirmed(io.Discard)
	require.NoError(t, err)
	assert.Equal(t, []byte("same"), pw)
}
