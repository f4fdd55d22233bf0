package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculatorTool_Handle(t *testing.T) {
	tests := []struct {
		expression string
		want       string
	}{
		{"15 * 4 + 2", "15 * 4 + 2 = 62"},
		{"2 + 3 * 4", "2 + 3 * 4 = 14"},
		{"(2 + 3) * 4", "(2 + 3) * 4 = 20"},
		{"10 / 4", "10 / 4 = 2.5"},
		{"10 % 3", "10 % 3 = 1"},
		{"2 ^ 10", "2 ^ 10 = 1024"},
		{"2 ^ 3 ^ 2", "2 ^ 3 ^ 2 = 512"},
		{"-5 + 3", "-5 + 3 = -2"},
		{"1.5 * 2", "1.5 * 2 = 3"},
	}

	calc := NewCalculatorTool()
	for _, tt := range tests {
		t.Run(tt.expression, func(t *testing.T) {
			result, err := calc.Handle(context.Background(), map[string]any{"expression": tt.expression})
			require.NoError(t, err)
			assert.Equal(t, tt.want, result)
		})
	}
}

func TestCalculatorTool_Handle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		expression string
	}{
		{"empty", ""},
		{"division by zero", "1 / 0"},
		{"modulo by zero", "1 % 0"},
		{"trailing garbage", "1 + 2 abc"},
		{"unbalanced paren", "(1 + 2"},
		{"letters only", "two plus two"},
	}

	calc := NewCalculatorTool()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := calc.Handle(context.Background(), map[string]any{"expression": tt.expression})
			assert.Error(t, err)
		})
	}
}
