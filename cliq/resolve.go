package cliq

// resolve walks terms from the root to the deepest matching command.
//
// A leading term equal to the root program's own name is silently skipped,
// so "weather current Paris" and "current Paris" resolve identically. At
// each level every sibling name is checked before any sibling alias, so an
// exact name always beats another sibling's alias. The walk stops at the
// first unmatched term; the caller pushes that term and everything after it
// back onto the positional-argument list. Resolution never fails: with no
// match at all the root itself is the result.
func resolve(root *Command, terms []string) (*Command, int) {
	consumed := 0
	if len(terms) > 0 && terms[0] == root.name {
		consumed = 1
	}

	cur := root
	for consumed < len(terms) {
		next := cur.childByName(terms[consumed])
		if next == nil {
			next = cur.childByAlias(terms[consumed])
		}
		if next == nil {
			break
		}
		cur = next
		consumed++
	}
	return cur, consumed
}
