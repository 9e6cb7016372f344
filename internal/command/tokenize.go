// Package command implements the console command surface: a shell-like
// tokenizer, the verb executor over the record service, and the heuristic
// natural-language interpreter that rewrites free-form text into canonical
// command lines.
package command

import (
	"strings"
	"unicode"
)

// Tokenize splits a command line into an argument vector. Runs inside
// double quotes form a single token with the quotes stripped; an unmatched
// quote simply consumes the rest of the line rather than failing.
func Tokenize(line string) []string {
	var args []string
	var cur strings.Builder
	inQuote := false
	pending := false

	flush := func() {
		if pending {
			args = append(args, cur.String())
			cur.Reset()
			pending = false
		}
	}

	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			pending = true
		case unicode.IsSpace(r) && !inQuote:
			flush()
		default:
			cur.WriteRune(r)
			pending = true
		}
	}
	flush()
	return args
}

// parseFields collects the -n/-e/-p/-a flag values out of an argument
// vector. Each flag consumes the immediately following token; a flag with
// no following token and any unrecognized token are silently ignored.
func parseFields(args []string) fieldArgs {
	var f fieldArgs
	for i := 0; i < len(args); i++ {
		if i+1 >= len(args) {
			break
		}
		switch args[i] {
		case "-n":
			f.name = &args[i+1]
		case "-e":
			f.email = &args[i+1]
		case "-p":
			f.phone = &args[i+1]
		case "-a":
			f.address = &args[i+1]
		default:
			continue
		}
		i++
	}
	return f
}

type fieldArgs struct {
	name    *string
	email   *string
	phone   *string
	address *string
}

func (f fieldArgs) empty() bool {
	return f.name == nil && f.email == nil && f.phone == nil && f.address == nil
}
