// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package terminal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinesFor(t *testing.T) {
	tests := []struct {
		name   string
		length int
		width  int
		want   int
	}{
		{"empty", 0, 80, 1},
		{"fits", 79, 80, 1},
		{"exact", 80, 80, 1},
		{"wraps", 81, 80, 2},
		{"bad width", 100, 0, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LinesFor(tt.length, tt.width))
		})
	}
}

func TestClearPreviousLines(t *testing.T) {
	var buf bytes.Buffer
	ClearPreviousLines(&buf, 100, 80)

	out := buf.String()
	assert.Equal(t, 3, strings.Count(out, "\x1b[2K"))
	assert.Equal(t, 2, strings.Count(out, "\x1b[1A"))
}

func TestWidthWithoutTerminal(t *testing.T) {
	assert.Equal(t, DefaultWidth, Width(nil))
	assert.False(t, IsInteractive(nil))
}
