package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterpretCreateRule(t *testing.T) {
	cases := []struct {
		name           string
		in             string
		want           string
		wantTranslated bool
	}{
		{
			"name and email keywords",
			"create record name John Smith email john@test.com",
			`create -n "John Smith" -e "john@test.com"`,
			true,
		},
		{
			"add verb",
			"add name Jane Doe email jane@test.com",
			`create -n "Jane Doe" -e "jane@test.com"`,
			true,
		},
		{
			"with phone",
			"create record name John Smith email john@test.com phone +92 300 1234567",
			`create -n "John Smith" -e "john@test.com" -p "+92 300 1234567"`,
			true,
		},
		{
			"no name keyword falls back to text before email",
			"create record for Bob Marley email bob@test.com",
			`create -n "Bob Marley" -e "bob@test.com"`,
			true,
		},
		{
			"case preserved from raw input",
			"CREATE record name McLovin email ML@Test.Com",
			`create -n "McLovin" -e "ML@Test.Com"`,
			true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, translated := Interpret(tc.in)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.wantTranslated, translated)
		})
	}
}

func TestInterpretSilentRules(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"show records", "list"},
		{"please list everything", "list"},
		{"export the data", "export"},
		{"download my records", "export"},
		{"please clear logs now", "clear"},
		{"clear console", "clear"},
		{"i need help", "help"},
		{"generate some data please", `create -n "Sample User" -e "sample@test.com"`},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, translated := Interpret(tc.in)
			assert.Equal(t, tc.want, got)
			assert.False(t, translated, "only the create rule reports a translation")
		})
	}
}

func TestInterpretCreateFallsThroughWhenIncomplete(t *testing.T) {
	// "add" matched but no email was recovered, so the create rule passes
	// and the later list rule fires.
	got, translated := Interpret("add this to the list")
	assert.Equal(t, "list", got)
	assert.False(t, translated)
}

func TestInterpretNoMatchReturnsInputUnchanged(t *testing.T) {
	in := "what time is it"
	got, translated := Interpret(in)
	assert.Equal(t, in, got)
	assert.False(t, translated)
}

func TestInterpretRuleOrderFirstMatchWins(t *testing.T) {
	// Contains both "export" and "help"; the export rule sits first.
	got, _ := Interpret("help me export")
	assert.Equal(t, "export", got)
}
