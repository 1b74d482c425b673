package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToBase62(t *testing.T) {
	tests := []struct {
		input    []byte
		expected string
	}{
		{[]byte{0}, "0"},
		{[]byte{1}, "1"},
		{[]byte{10}, "A"},
		{[]byte{61}, "z"},
		{[]byte{62}, "10"},
		{[]byte{123}, "1z"},
		{[]byte{0x01, 0x00}, "48"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, toBase62(tt.input))
		})
	}
}

func TestReverse(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"abc", "cba"},
		{"", ""},
		{"a", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, reverse(tt.input))
		})
	}
}

func TestGenerateTokenShape(t *testing.T) {
	for i := 0; i < 100; i++ {
		token := GenerateToken()
		assert.True(t, ValidateToken(token), token)
		assert.LessOrEqual(t, len(token), 22)
	}
}

func TestGenerateTokenUniqueness(t *testing.T) {
	const samples = 100000
	seen := make(map[string]struct{}, samples)
	for i := 0; i < samples; i++ {
		token := GenerateToken()
		_, dup := seen[token]
		assert.False(t, dup, "duplicate token %s", token)
		seen[token] = struct{}{}
	}
}

func TestValidateToken(t *testing.T) {
	tests := []struct {
		token    string
		expected bool
	}{
		{"4fJk29sLq0PzX1", true},
		{"does-not-exist", false},
		{"", false},
		{"../etc/passwd", false},
		{"abc def", false},
		{"a", true},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateToken(tt.token))
		})
	}
}
