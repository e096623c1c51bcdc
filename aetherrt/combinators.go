package aetherrt

// DescendAlt is one step of a generated Descend function: given the parser
// and the ParsingState reached so far, it extends that state (a terminal or
// nonterminal reference), tries one alternative of a selection, or runs one
// repetition of an iteration/optional. Generated code composes these with
// Sequence, Selection, Iteration and Optional instead of hand-threading
// ParsingState slices.
type DescendAlt func(p *Parser, s ParsingState) ([]ParsingState, error)

// InternalSkip reports "this alternative did not match" without surfacing
// an error to the caller, the same sentinel callTerminal/callNonterminal
// use internally.
func InternalSkip() error { return errInternal }

// AscendFlag returns a pointer to b, for callers that need to force Call's
// ascend decision rather than let the parser compute it at runtime.
func AscendFlag(b bool) *bool { return &b }

// CallTerminal is the single-state convenience form of Call for a terminal
// tag, used by generated Descend bodies.
func (p *Parser) CallTerminal(tagID int, s ParsingState) ([]ParsingState, error) {
	return p.callTerminal(tagID, []ParsingState{s})
}

// Sequence threads s through items in order: each item's output states
// become the next item's input states. An internal-skip from any item fails
// the whole sequence the same way a failed alternative does.
func (p *Parser) Sequence(s ParsingState, items []DescendAlt) ([]ParsingState, error) {
	states := []ParsingState{s}
	for _, item := range items {
		var next []ParsingState
		for _, cs := range states {
			res, err := item(p, cs)
			if err != nil {
				if IsInternal(err) {
					continue
				}
				return nil, err
			}
			next = append(next, res...)
		}
		states = next
		if len(states) == 0 {
			return nil, errInternal
		}
	}
	return states, nil
}

// Selection tries each alt against s. ordered commits to the first
// alternative that produces any result (the grammar's `/`); unordered runs
// every alternative and unions their results (the grammar's `|`).
func (p *Parser) Selection(ordered bool, s ParsingState, alts []DescendAlt) ([]ParsingState, error) {
	var out []ParsingState
	for _, alt := range alts {
		res, err := alt(p, s)
		if err != nil {
			if IsInternal(err) {
				continue
			}
			return nil, err
		}
		out = append(out, res...)
		if ordered && len(res) > 0 {
			return out, nil
		}
	}
	if len(out) == 0 {
		return nil, errInternal
	}
	return out, nil
}

// Iteration runs body one or more times starting from s, ordered the same
// way Selection's ordered flag distinguishes `{ }` from `{/ }`: both repeat
// until a round fails to extend any state, but ordered commits to the
// longest repetition (only the final round's states survive) while
// unordered keeps every intermediate round's states reachable as final ones
// too.
func (p *Parser) Iteration(ordered bool, s ParsingState, body DescendAlt) ([]ParsingState, error) {
	first, err := body(p, s)
	if err != nil {
		if IsInternal(err) {
			return nil, errInternal
		}
		return nil, err
	}

	results := append([]ParsingState(nil), first...)
	frontier := first

	for len(frontier) > 0 {
		var next []ParsingState
		for _, cs := range frontier {
			res, err := body(p, cs)
			if err != nil {
				if IsInternal(err) {
					continue
				}
				return nil, err
			}
			next = append(next, res...)
		}
		if len(next) == 0 {
			break
		}
		if ordered {
			results = next
		} else {
			results = append(results, next...)
		}
		frontier = next
	}

	return results, nil
}

// Optional runs body against s; if it fails internally, s itself (zero
// repetitions) is the sole result. ordered mirrors `[/ ]`: once body
// succeeds at all, the zero-repetition state is dropped.
func (p *Parser) Optional(ordered bool, s ParsingState, body DescendAlt) ([]ParsingState, error) {
	res, err := body(p, s)
	if err != nil {
		if IsInternal(err) {
			return []ParsingState{s}, nil
		}
		return nil, err
	}
	if len(res) == 0 {
		return []ParsingState{s}, nil
	}
	if ordered {
		return res, nil
	}
	return append(append([]ParsingState(nil), res...), s), nil
}
