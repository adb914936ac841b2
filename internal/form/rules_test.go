package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRules(t *testing.T) {
	cases := []struct {
		name  string
		rule  Rule
		value interface{}
		ok    bool
	}{
		{"required nil", Required(), nil, false},
		{"required empty string", Required(), "", false},
		{"required empty slice", Required(), []string{}, false},
		{"required zero number", Required(), 0, true},
		{"email valid", Email(), "ada@school.id", true},
		{"email invalid", Email(), "ada@", false},
		{"email empty passes", Email(), "", true},
		{"pattern match", Pattern(`^[0-9]{10,11}$`, "phone"), "08123456789", true},
		{"pattern miss", Pattern(`^[0-9]{10,11}$`, "phone"), "0812", false},
		{"pattern numeric input", Pattern(`^\d{4}$`, "year"), 2024, true},
		{"min numeric string", Min(1), "0", false},
		{"min ok", Min(1), 1.0, true},
		{"min ignores text", Min(1), "abc", true},
		{"max", Max(100), 101, false},
		{"min length", MinLength(2), "a", false},
		{"max length", MaxLength(3), "abcd", false},
		{"max length slice", MaxLength(1), []string{"a", "b"}, false},
		{"length ignores numbers", MaxLength(1), 12345, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := tc.rule.Check(tc.value)
			assert.Equal(t, tc.ok, ok)
		})
	}
}

func TestRuleMessages(t *testing.T) {
	msg, ok := Pattern(`^[A-Z]+$`, "roll number").Check("a1")
	assert.False(t, ok)
	assert.Equal(t, "Invalid roll number format", msg)

	msg, _ = MinLength(2).Check("a")
	assert.Equal(t, "Minimum 2 characters required", msg)
}

func TestNormalizers(t *testing.T) {
	assert.Equal(t, "CS101", UpperCase(" cs101 "))
	assert.Equal(t, 5, UpperCase(5))
	assert.Equal(t, "x", TrimSpace(" x "))
}

func TestNumberNormalizer(t *testing.T) {
	assert.Equal(t, int64(40), Number("40"))
	assert.Equal(t, 2.5, Number(" 2.5 "))
	assert.Nil(t, Number(""))
	assert.Equal(t, "forty", Number("forty"))
	assert.Equal(t, 7, Number(7))
}
