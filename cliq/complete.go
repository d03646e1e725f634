package cliq

import "strings"

// Candidates returns completion suggestions for a partial command line. The
// line is everything after the program name, exactly as the shell has it; a
// trailing space means the last word is complete and the next position is
// being completed.
func (c *CLI) Candidates(line string) []string {
	endsWithSpace := strings.HasSuffix(line, " ") || strings.TrimSpace(line) == ""
	tokens := Tokenize(line)
	tl := terms(tokens)

	partial := ""
	if !endsWithSpace {
		fields := strings.Fields(line)
		if len(fields) > 0 {
			partial = fields[len(fields)-1]
		}
		// The word under the cursor is a prefix filter, not a resolved term.
		if len(tl) > 0 && tl[len(tl)-1] == partial {
			tl = tl[:len(tl)-1]
		}
	}

	cmd, _ := resolve(c.root, tl)

	out := []string{}
	if strings.HasPrefix(partial, "-") {
		for _, name := range cmd.OptionNames() {
			if meta, ok := cmd.meta[name]; ok && meta.Hidden {
				continue
			}
			out = append(out, "--"+name)
		}
		out = append(out, "--help")
	} else {
		for _, child := range cmd.children {
			if child.hidden {
				continue
			}
			out = append(out, child.name)
		}
		if cmd == c.root {
			for _, builtin := range []string{"help", "version", "completion"} {
				if cmd.childByName(builtin) == nil {
					out = append(out, builtin)
				}
			}
		}
	}

	filtered := out[:0]
	for _, cand := range out {
		if strings.HasPrefix(cand, partial) {
			filtered = append(filtered, cand)
		}
	}
	sortStrings(filtered)
	return filtered
}
