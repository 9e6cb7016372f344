package command

import (
	"fmt"
	"regexp"
	"strings"
)

// The interpreter is purely heuristic: an ordered list of (predicate,
// transform) rules evaluated top to bottom, first match wins. Matching is
// case-insensitive while extraction preserves the original casing.

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._-]+@[a-zA-Z0-9._-]+\.[a-zA-Z0-9_-]+`)

	// Text after "name" up to email/with/and or end of string.
	namePattern = regexp.MustCompile(`(?i)name\s+(.+?)(?:\s+(?:email|with|and)\b|\s*$)`)

	// Fallback when the "name" keyword is absent: text between the leading
	// create/add verb and email/with.
	looseNamePattern = regexp.MustCompile(`(?i)(?:create|add)(?:\s+record)?(?:\s+for)?\s+(.+?)\s+(?:email|with)`)

	// A run of 7+ digits/spaces/dashes after "phone", optional + prefix.
	phonePattern = regexp.MustCompile(`(?i)phone\s+(\+?[\d\s-]{7,})`)
)

type nlRule struct {
	name  string
	match func(lower string) bool
	apply func(raw string) (cmd string, translated, ok bool)
}

// nlRules is evaluated in order; the create rule falls through to the later
// rules when it cannot recover both a name and an email.
var nlRules = []nlRule{
	{
		name:  "create",
		match: containsAny("create", "add"),
		apply: buildCreate,
	},
	{
		name:  "list",
		match: containsAny("list", "show records"),
		apply: rewriteTo("list"),
	},
	{
		name:  "export",
		match: containsAny("export", "download"),
		apply: rewriteTo("export"),
	},
	{
		name:  "clear",
		match: containsAny("clear logs", "clear console"),
		apply: rewriteTo("clear"),
	},
	{
		name:  "help",
		match: containsAny("help"),
		apply: rewriteTo("help"),
	},
	{
		name: "generate-data",
		match: func(lower string) bool {
			return strings.Contains(lower, "generate") && strings.Contains(lower, "data")
		},
		apply: rewriteTo(`create -n "Sample User" -e "sample@test.com"`),
	},
}

// Interpret rewrites free-form text (typed or voice-transcribed) into a
// canonical command line. When no rule applies the input is returned
// unchanged and will usually surface downstream as an unknown command.
// translated is true only when the create rule synthesized a command; the
// other rules rewrite silently.
func Interpret(input string) (out string, translated bool) {
	lower := strings.ToLower(input)
	for _, r := range nlRules {
		if !r.match(lower) {
			continue
		}
		if cmd, translated, ok := r.apply(input); ok {
			return cmd, translated
		}
	}
	return input, false
}

func containsAny(needles ...string) func(string) bool {
	return func(lower string) bool {
		for _, n := range needles {
			if strings.Contains(lower, n) {
				return true
			}
		}
		return false
	}
}

func rewriteTo(cmd string) func(string) (string, bool, bool) {
	return func(string) (string, bool, bool) {
		return cmd, false, true
	}
}

func buildCreate(raw string) (string, bool, bool) {
	email := emailPattern.FindString(raw)

	var name string
	if m := namePattern.FindStringSubmatch(raw); m != nil {
		name = m[1]
	} else if email != "" {
		if m := looseNamePattern.FindStringSubmatch(raw); m != nil {
			name = m[1]
		}
	}

	var phone string
	if m := phonePattern.FindStringSubmatch(raw); m != nil {
		phone = m[1]
	}

	if name == "" || email == "" {
		return "", false, false
	}

	cmd := fmt.Sprintf(`create -n "%s" -e "%s"`, strings.TrimSpace(name), strings.TrimSpace(email))
	if phone != "" {
		cmd += fmt.Sprintf(` -p "%s"`, strings.TrimSpace(phone))
	}
	return cmd, true, true
}
