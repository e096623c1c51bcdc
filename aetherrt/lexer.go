package aetherrt

import (
	"sort"
	"strconv"
	"strings"

	"github.com/dekarrin/aether/internal/util"
)

// TerminalTag is a named family of tokens. Generated code builds one value
// per terminal declared in a lexical grammar; the bootstrap grammar that
// aether uses to read `lexical.aether`/`syntactic.aether` files is built out
// of the same type.
type TerminalTag struct {
	ID   int
	Name string

	// StatesStart is the bitmask of NFA states the tag begins in.
	StatesStart uint64

	// Start reports whether this tag is part of the active alphabet under
	// the given conditions. A nil Start behaves as always-true.
	Start func(Conditions) bool

	// Ignore reports whether terminals of this tag are lexed but not
	// returned to the parser.
	Ignore func(Conditions) bool

	// Positives and Negatives give the other tag ids forced into (resp.
	// excluded from) the accepted set whenever this tag is accepted, under
	// the given conditions.
	Positives func(Conditions) []int
	Negatives func(Conditions) []int

	// NFA steps the tag's automaton: given the bitmask of currently live
	// states and the next input rune, it reports whether any of those
	// states accept on c, and the bitmask of states live after consuming
	// c.
	NFA func(states uint64, c rune) (accept bool, next uint64)
}

func (t TerminalTag) isStart(c Conditions) bool {
	if t.Start == nil {
		return true
	}
	return t.Start(c)
}

func (t TerminalTag) isIgnore(c Conditions) bool {
	if t.Ignore == nil {
		return false
	}
	return t.Ignore(c)
}

func (t TerminalTag) positives(c Conditions) []int {
	if t.Positives == nil {
		return nil
	}
	return t.Positives(c)
}

func (t TerminalTag) negatives(c Conditions) []int {
	if t.Negatives == nil {
		return nil
	}
	return t.Negatives(c)
}

// Terminal is a single lexed token: the set of tags it matched, its literal
// text, and its span. Next is the terminal immediately following it in the
// arena the Lexer that produced it maintains; it is nil until that next
// terminal has actually been lexed.
type Terminal struct {
	Tags          []int
	Value         string
	StartPosition Position
	EndPosition   Position
	Next          *Terminal

	index int
}

func tagSetKey(tags []int) string {
	cp := append([]int(nil), tags...)
	sort.Ints(cp)
	var sb strings.Builder
	for i, t := range cp {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(t))
	}
	return sb.String()
}

// Lexer tokenizes a rune stream against a fixed table of TerminalTags and a
// fixed set of active Conditions, simulating every started tag's NFA in
// parallel and resolving ties by longest match plus positive/negative tag
// closure.
type Lexer struct {
	filename   string
	input      []rune
	conditions Conditions
	tags       map[int]TerminalTag

	startTags []int // ids of tags with Start(conditions) true, stable order
	ignored   map[int]bool
	posOf     map[int][]int // tag id -> positives restricted to startTags
	negOf     map[int][]int // tag id -> negatives restricted to startTags

	closureMemo map[string][]int

	terminals []*Terminal
	cursor    Position
	runeIdx   int
}

// NewLexer builds a Lexer over input (named filename for diagnostics),
// recognizing exactly the tags in table whose Start predicate holds for
// conditions.
func NewLexer(filename, input string, table []TerminalTag, conditions Conditions) *Lexer {
	l := &Lexer{
		filename:    filename,
		input:       []rune(input),
		conditions:  conditions,
		tags:        make(map[int]TerminalTag, len(table)),
		ignored:     make(map[int]bool),
		posOf:       make(map[int][]int),
		negOf:       make(map[int][]int),
		closureMemo: make(map[string][]int),
		cursor:      NewPosition(filename),
	}

	active := make(map[int]bool)
	for _, tag := range table {
		l.tags[tag.ID] = tag
		if tag.isStart(conditions) {
			active[tag.ID] = true
			l.startTags = append(l.startTags, tag.ID)
		}
	}
	sort.Ints(l.startTags)

	restrict := func(ids []int) []int {
		out := make([]int, 0, len(ids))
		for _, id := range ids {
			if active[id] {
				out = append(out, id)
			}
		}
		return out
	}

	for _, id := range l.startTags {
		tag := l.tags[id]
		l.ignored[id] = tag.isIgnore(conditions)
		l.posOf[id] = restrict(tag.positives(conditions))
		l.negOf[id] = restrict(tag.negatives(conditions))
	}

	return l
}

// closure computes A* \ N for accept set a: A* is the least fixed point of a
// under Positives; N is the least fixed point, under Negatives, of the seed
// negatives(A*). The mapping is memoized by its input set.
func (l *Lexer) closure(a []int) []int {
	key := tagSetKey(a)
	if cached, ok := l.closureMemo[key]; ok {
		return cached
	}

	aStar := util.NewKeySet[int]()
	queue := append([]int(nil), a...)
	aStar.AddAll(util.KeySetOf(a))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, p := range l.posOf[id] {
			if !aStar.Has(p) {
				aStar.Add(p)
				queue = append(queue, p)
			}
		}
	}

	n := util.NewKeySet[int]()
	for _, id := range aStar.Elements() {
		for _, neg := range l.negOf[id] {
			if !n.Has(neg) {
				n.Add(neg)
				queue = append(queue, neg)
			}
		}
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, neg := range l.negOf[id] {
			if !n.Has(neg) {
				n.Add(neg)
				queue = append(queue, neg)
			}
		}
	}

	result := aStar.Difference(n).Elements()
	sort.Ints(result)

	l.closureMemo[key] = result
	return result
}

// NextTerminal returns the terminal following current, lexing it if it has
// not yet been produced. A nil current means "the first terminal of the
// input". A nil return with a nil error means end of input.
func (l *Lexer) NextTerminal(current *Terminal) (*Terminal, error) {
	if current == nil && len(l.terminals) > 0 {
		return l.terminals[0], nil
	}
	if current != nil {
		if current.Next != nil {
			return current.Next, nil
		}
		if current.index+1 < len(l.terminals) {
			return l.terminals[current.index+1], nil
		}
	}

	t, err := l.lexOne()
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, nil
	}

	t.index = len(l.terminals)
	l.terminals = append(l.terminals, t)
	if current != nil {
		current.Next = t
	}
	return t, nil
}

// lexOne runs the matching loop from l.cursor until it produces a
// non-ignored terminal or reaches end of input.
func (l *Lexer) lexOne() (*Terminal, error) {
	for {
		if l.runeIdx >= len(l.input) {
			return nil, nil
		}

		start := l.cursor
		startRune := l.runeIdx

		liveStates := make(map[int]uint64, len(l.startTags))
		for _, id := range l.startTags {
			liveStates[id] = l.tags[id].StatesStart
		}

		var (
			bestAccepts []int
			bestEnd     Position
			bestRune    int
		)

		pos := start
		runeIdx := startRune

		for len(liveStates) > 0 && runeIdx < len(l.input) {
			c := l.input[runeIdx]
			next := pos.Update(c)
			runeIdx++

			var accepted []int
			nextLive := make(map[int]uint64, len(liveStates))
			for id, state := range liveStates {
				tag := l.tags[id]
				accept, nextState := tag.NFA(state, c)
				if accept {
					accepted = append(accepted, id)
				}
				if nextState != 0 {
					nextLive[id] = nextState
				}
			}

			if len(accepted) > 0 {
				bestAccepts = accepted
				bestEnd = next
				bestRune = runeIdx
			}

			liveStates = nextLive
			pos = next
		}

		if bestAccepts == nil {
			return nil, New(KindNoTerminal, start, "no terminal tag matches input")
		}

		closed := l.closure(bestAccepts)
		var final []int
		for _, id := range closed {
			if !l.ignored[id] {
				final = append(final, id)
			}
		}
		sort.Ints(final)

		l.cursor = bestEnd
		l.runeIdx = bestRune

		if len(final) == 0 {
			// every accepted tag (after closure) is ignored; skip this
			// terminal entirely and keep lexing from its end.
			continue
		}

		return &Terminal{
			Tags:          final,
			Value:         string(l.input[startRune:bestRune]),
			StartPosition: start,
			EndPosition:   bestEnd,
		}, nil
	}
}
