package aetherrt

import (
	"sort"
	"strconv"

	"github.com/dekarrin/aether/internal/util"
)

// NonterminalType is a named grammar production. Generated code builds one
// value per production declared in a syntactic grammar; the bootstrap
// grammar aether reads itself with is built the same way.
type NonterminalType struct {
	ID   int
	Name string

	// Start reports whether this is THE start symbol under conditions.
	Start func(Conditions) bool

	// First gives the ids of other nonterminal types that may appear as
	// this one's leftmost symbol, under conditions. Used to find
	// left-recursive SCCs.
	First func(Conditions) []int

	// Descend attempts to parse this nonterminal starting from state
	// (whose Seen is always empty on entry) and returns every resulting
	// completed ParsingState (Seen ends with however the grammar expanded
	// it). An error signals that no alternative matched.
	Descend func(p *Parser, state ParsingState) ([]ParsingState, error)
}

func (nt *NonterminalType) isStart(c Conditions) bool {
	if nt == nil || nt.Start == nil {
		return false
	}
	return nt.Start(c)
}

func (nt *NonterminalType) first(c Conditions) []int {
	if nt == nil || nt.First == nil {
		return nil
	}
	return nt.First(c)
}

type memoKey struct {
	nt    int
	start int
}

// Parser drives a recursive-descent-plus-ascent derivation of a grammar
// described by a table of NonterminalTypes over tokens supplied by a
// Lexer, producing a BSR that packs every derivation (there may be more
// than one if the grammar is ambiguous).
type Parser struct {
	lexer *Lexer
	types map[int]*NonterminalType
	start *NonterminalType
	bsr   *BSR

	conditions Conditions

	sccOf         map[int]int
	firstInSCC    map[int]map[int]bool
	ascendParents map[int][]int

	// memo records, per (nonterminal, start position), the distinct end
	// terminals its derivations have reached so far. Two derivations that
	// converge on the same end terminal share one entry, so a caller gets
	// one combined state per distinct span, never one per internal shape.
	// The set only ever grows over the life of a parse.
	memo map[memoKey][]*Terminal

	// eoi is the deepest-reached terminal any derivation path has consumed,
	// nil until the first terminal is consumed. It decides the span the
	// start symbol must cover and anchors end-of-parse diagnostics.
	eoi *Terminal
}

// NewParser builds a Parser over lexer recognizing the grammar described by
// types, active under conditions. It computes the FIRST-graph SCCs needed
// to drive left-recursion ascent. Returns a KindNoStart/KindMultipleStarts
// Error unless exactly one type's Start predicate holds.
func NewParser(lexer *Lexer, types []NonterminalType, conditions Conditions) (*Parser, error) {
	p := &Parser{
		lexer:         lexer,
		types:         make(map[int]*NonterminalType, len(types)),
		conditions:    conditions,
		sccOf:         make(map[int]int),
		firstInSCC:    make(map[int]map[int]bool),
		ascendParents: make(map[int][]int),
		memo:          make(map[memoKey][]*Terminal),
		bsr:           NewBSR(),
	}

	stable := make([]NonterminalType, len(types))
	copy(stable, types)
	for i := range stable {
		p.types[stable[i].ID] = &stable[i]
	}

	var starts []*NonterminalType
	for _, t := range p.types {
		if t.isStart(conditions) {
			starts = append(starts, t)
		}
	}
	if len(starts) == 0 {
		return nil, New(KindNoStart, Position{}, "grammar defines no start symbol")
	}
	if len(starts) > 1 {
		names := make([]string, len(starts))
		for i, s := range starts {
			names[i] = s.Name
		}
		sort.Strings(names)
		return nil, New(KindMultipleStarts, Position{}, "grammar defines %d start symbols: %s", len(starts), util.MakeTextList(names))
	}
	p.start = starts[0]

	var ids []int
	for id := range p.types {
		ids = append(ids, id)
	}
	edges := func(id int) []int {
		return p.types[id].first(conditions)
	}
	sccs := ComputeSCCs(ids, edges)

	for sccIdx, members := range sccs {
		memberSet := make(map[int]bool, len(members))
		for _, m := range members {
			memberSet[m] = true
			p.sccOf[m] = sccIdx
		}

		recursive := len(members) > 1
		if !recursive && len(members) == 1 {
			for _, f := range edges(members[0]) {
				if f == members[0] {
					recursive = true
				}
			}
		}
		if !recursive {
			continue
		}

		for _, v := range members {
			pruned := make(map[int]bool)
			for _, f := range edges(v) {
				if memberSet[f] {
					pruned[f] = true
				}
			}
			p.firstInSCC[v] = pruned
		}
		for _, v := range members {
			for _, w := range members {
				if p.firstInSCC[w][v] {
					p.ascendParents[v] = append(p.ascendParents[v], w)
				}
			}
		}
	}

	return p, nil
}

// BSR returns the forest built by the most recent Parse call.
func (p *Parser) BSR() *BSR { return p.bsr }

// Conditions returns the condition set the parser (and its lexer) are
// running under, the same value generated Descend bodies consult to pick
// between condition-guarded alternatives.
func (p *Parser) Conditions() Conditions { return p.conditions }

// Start returns the start nonterminal type.
func (p *Parser) Start() *NonterminalType { return p.start }

// Parse runs the parser to completion. On success p.BSR() contains every
// derivation and p.BSR().HasStart is true, except on empty (or entirely
// ignored) input, where the BSR is simply left without a start. Returns a
// KindNoDerivation Error when the input is non-empty and the start symbol
// does not cover all of it.
func (p *Parser) Parse() error {
	startPos := NewPosition(p.lexer.filename)
	p.eoi = nil

	seed := ParsingState{StartPosition: startPos, SplitPosition: startPos}
	if _, err := p.call(nil, p.start, []ParsingState{seed}, nil); err != nil && !IsInternal(err) {
		return err
	}

	if p.eoi == nil {
		first, ferr := p.lexer.NextTerminal(nil)
		if ferr != nil {
			return ferr
		}
		if first != nil {
			return New(KindNoDerivation, first.StartPosition, "no derivation of %s over the full input", p.start.Name)
		}
		return nil
	}

	epns := p.bsr.get(bsrKeyFor(p.start, startPos.Index, p.eoi.EndPosition.Index))
	if len(epns) == 0 {
		return New(KindNoDerivation, p.eoi.StartPosition, "no derivation of %s over the full input", p.start.Name)
	}

	if trailing, terr := p.lexer.NextTerminal(p.eoi); terr != nil {
		return terr
	} else if trailing != nil {
		return New(KindNoDerivation, trailing.StartPosition, "unconsumed input remains after parse")
	}

	p.bsr.StartType = p.start
	p.bsr.StartPos = startPos
	p.bsr.EndPos = p.eoi.EndPosition
	p.bsr.HasStart = true

	return nil
}

func bsrKeyFor(nt *NonterminalType, start, end int) bsrKey {
	return bsrKey{label: "N#" + strconv.Itoa(nt.ID), start: start, end: end}
}

// call is the parser's central dispatcher. symbol is either an int terminal
// tag id (terminal) or a *NonterminalType (nonterminal). caller is the
// NonterminalType whose Descend is invoking call when the reference is the
// production's leftmost use of a FIRST-set member, and nil otherwise (also
// nil at the top level); it participates in the runtime ascend decision.
// ascend, when non-nil, forces the ascend/descend choice for a nonterminal
// symbol; when nil it is computed from the caller/callee SCC relationship,
// preventing infinite recursion when both belong to the same SCC.
func (p *Parser) call(caller *NonterminalType, symbol interface{}, currentStates []ParsingState, ascend *bool) ([]ParsingState, error) {
	switch sym := symbol.(type) {
	case int:
		return p.callTerminal(sym, currentStates)
	case *NonterminalType:
		return p.callNonterminal(caller, sym, currentStates, ascend)
	default:
		panic("aetherrt: call: symbol must be a terminal tag id (int) or *NonterminalType")
	}
}

// Call is the public entry point generated Descend functions use.
// tagOrType is either an int terminal tag id or a *NonterminalType.
func (p *Parser) Call(caller *NonterminalType, tagOrType interface{}, currentStates []ParsingState, ascend *bool) ([]ParsingState, error) {
	return p.call(caller, tagOrType, currentStates, ascend)
}

func (p *Parser) callTerminal(tagID int, currentStates []ParsingState) ([]ParsingState, error) {
	var out []ParsingState

	for _, cs := range currentStates {
		term, err := p.lexer.NextTerminal(cs.EndTerminal)
		if err != nil {
			return nil, err
		}
		if term == nil {
			continue
		}
		if !hasTag(term, tagID) {
			continue
		}

		newSeen := append(append([]Sym(nil), cs.Seen...), Sym{Nonterminal: false, ID: tagID})
		next := ParsingState{
			Seen:          newSeen,
			StartPosition: cs.StartPosition,
			SplitPosition: cs.EndPosition(),
			EndTerminal:   term,
		}
		p.bsr.Add(EPN{State: next})

		if p.eoi == nil || term.EndPosition.Index > p.eoi.EndPosition.Index {
			p.eoi = term
		}

		out = append(out, next)
	}

	if len(out) == 0 {
		return nil, errInternal
	}
	return out, nil
}

func hasTag(t *Terminal, id int) bool {
	for _, tg := range t.Tags {
		if tg == id {
			return true
		}
	}
	return false
}

func (p *Parser) callNonterminal(caller *NonterminalType, nt *NonterminalType, currentStates []ParsingState, ascendFlag *bool) ([]ParsingState, error) {
	var out []ParsingState

	for _, cs := range currentStates {
		endPos := cs.EndPosition()

		ascend := false
		if ascendFlag != nil {
			ascend = *ascendFlag
		} else {
			_, calleeRecursive := p.firstInSCC[nt.ID]
			if calleeRecursive {
				if caller == nil {
					ascend = true
				} else if p.sccOf[caller.ID] != p.sccOf[nt.ID] {
					ascend = true
				} else if !p.firstInSCC[caller.ID][nt.ID] {
					ascend = true
				}
			}
		}

		key := memoKey{nt: nt.ID, start: endPos.Index}
		_, memoized := p.memo[key]

		if ascend || !memoized {
			if !memoized {
				p.memo[key] = nil
			}

			seedState := ParsingState{StartPosition: endPos, SplitPosition: endPos, EndTerminal: cs.EndTerminal}
			descended, derr := nt.Descend(p, seedState)
			if derr != nil && !IsInternal(derr) {
				return nil, derr
			}

			grew := false
			for _, s := range descended {
				p.bsr.Add(EPN{Type: nt, State: s})

				have := false
				for _, t := range p.memo[key] {
					if t == s.EndTerminal {
						have = true
						break
					}
				}
				if have {
					continue
				}
				p.memo[key] = append(p.memo[key], s.EndTerminal)
				grew = true
			}

			if grew && ascend {
				for _, parentID := range p.ascendParents[nt.ID] {
					parent := p.types[parentID]
					t := true
					if _, err := p.call(parent, parent, []ParsingState{cs}, &t); err != nil && !IsInternal(err) {
						return nil, err
					}
				}
			}
		}

		for _, endTerm := range p.memo[key] {
			newSeen := append(append([]Sym(nil), cs.Seen...), Sym{Nonterminal: true, ID: nt.ID})
			combined := ParsingState{
				Seen:          newSeen,
				StartPosition: cs.StartPosition,
				SplitPosition: endPos,
				EndTerminal:   endTerm,
			}
			p.bsr.Add(EPN{State: combined})
			out = append(out, combined)
		}
	}

	if len(out) == 0 {
		return nil, errInternal
	}
	return out, nil
}
