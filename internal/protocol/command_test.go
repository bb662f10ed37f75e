package protocol

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Command
		wantErr bool
	}{
		{
			name: "hold command",
			line: "hold::/tmp/shot.png",
			want: Command{Action: ActionHold, FilePath: "/tmp/shot.png"},
		},
		{
			name: "recognize command",
			line: "recognize::/tmp/shot.png",
			want: Command{Action: ActionRecognize, FilePath: "/tmp/shot.png"},
		},
		{
			name: "stop with arbitrary path",
			line: "stop::whatever",
			want: Command{Action: ActionStop, FilePath: "whatever"},
		},
		{
			name: "trailing newline is stripped",
			line: "hold::/tmp/shot.png\n",
			want: Command{Action: ActionHold, FilePath: "/tmp/shot.png"},
		},
		{
			name: "unrecognized action still parses",
			line: "frobnicate::/tmp/shot.png",
			want: Command{Action: ActionUnknown, FilePath: "/tmp/shot.png"},
		},
		{
			name:    "no delimiter",
			line:    "hold /tmp/shot.png",
			wantErr: true,
		},
		{
			name:    "two delimiters",
			line:    "hold::/tmp/a::b",
			wantErr: true,
		},
		{
			name:    "empty line",
			line:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.line)
			if tt.wantErr {
				var perr *ParseError
				require.ErrorAs(t, err, &perr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cmd := Command{Action: ActionRecognize, FilePath: "/tmp/page 1.png"}
	got, err := Parse(cmd.Encode())
	require.NoError(t, err)
	assert.Equal(t, cmd, got)
}

func TestStreamDeliversInOrderAndEnds(t *testing.T) {
	input := "hold::/a\nrecognize::/b\n"
	s := NewStream(strings.NewReader(input))

	first, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, Command{Action: ActionHold, FilePath: "/a"}, first)

	second, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, Command{Action: ActionRecognize, FilePath: "/b"}, second)

	_, err = s.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestStreamSurvivesMalformedLine(t *testing.T) {
	input := "garbage\nhold::/a\n"
	s := NewStream(strings.NewReader(input))

	_, err := s.Next()
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "garbage", perr.Line)

	cmd, err := s.Next()
	require.NoError(t, err)
	assert.Equal(t, Command{Action: ActionHold, FilePath: "/a"}, cmd)
}
