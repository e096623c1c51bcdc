package aether

import "github.com/dekarrin/aether/aetherrt"

// Nonterminals is the bootstrap grammar's nonterminal type table, built by
// hand out of exactly the combinators (Sequence/Selection/Iteration/Optional)
// that aether's Go back end emits for a user grammar's own productions.
var Nonterminals = buildNonterminals()

// nontermRefs lets a Descend body refer to a sibling NonterminalType before
// buildNonterminals has finished constructing every entry; Call/First only
// dereference the pointer at parse time, long after the table is complete.
var nontermRefs = map[string]*aetherrt.NonterminalType{}

func nt(name string) *aetherrt.NonterminalType { return nontermRefs[name] }

func nontermID(name string) int { return nontermRefs[name].ID }

var nontermTagID int

func nextNontermID() int {
	id := nontermTagID
	nontermTagID++
	return id
}

func buildNonterminals() map[string]aetherrt.NonterminalType {
	nts := map[string]aetherrt.NonterminalType{}
	add := func(name string, nt aetherrt.NonterminalType) {
		nt.ID = nextNontermID()
		nt.Name = name
		nts[name] = nt
		ref := nts[name]
		nontermRefs[name] = &ref
	}

	// Grammar: Production+
	add("Grammar", aetherrt.NonterminalType{
		Start: func(aetherrt.Conditions) bool { return true },
		Descend: func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
			return p.Iteration(false, s, func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
				return p.Call(nt("Grammar"), nt("Production"), []aetherrt.ParsingState{s}, nil)
			})
		},
	})

	// Production: ProductionHeader ProductionBody
	add("Production", aetherrt.NonterminalType{
		First: func(aetherrt.Conditions) []int { return []int{nontermID("ProductionHeader")} },
		Descend: func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
			return p.Sequence(s, []aetherrt.DescendAlt{
				func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
					return p.Call(nt("Production"), nt("ProductionHeader"), []aetherrt.ParsingState{s}, nil)
				},
				func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
					return p.Call(nt("Production"), nt("ProductionBody"), []aetherrt.ParsingState{s}, nil)
				},
			})
		},
	})

	// ProductionHeader: Identifier [Condition if lexical] [ProductionSpecifiers] Colon
	add("ProductionHeader", aetherrt.NonterminalType{
		Descend: func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
			return p.Sequence(s, []aetherrt.DescendAlt{
				func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
					return p.CallTerminal(terminalID("Identifier"), s)
				},
				func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
					if p.Conditions().Has(ConditionSyntactic) {
						return []aetherrt.ParsingState{s}, nil
					}
					return p.Optional(false, s, func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
						return p.Call(nt("ProductionHeader"), nt("Condition"), []aetherrt.ParsingState{s}, nil)
					})
				},
				func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
					return p.Optional(false, s, func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
						return p.Call(nt("ProductionHeader"), nt("ProductionSpecifiers"), []aetherrt.ParsingState{s}, nil)
					})
				},
				func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
					return p.CallTerminal(terminalID("Colon"), s)
				},
			})
		},
	})

	// ProductionBody: SelectionExpression Semicolon
	add("ProductionBody", aetherrt.NonterminalType{
		First: func(aetherrt.Conditions) []int { return []int{nontermID("SelectionExpression")} },
		Descend: func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
			return p.Sequence(s, []aetherrt.DescendAlt{
				func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
					return p.Call(nt("ProductionBody"), nt("SelectionExpression"), []aetherrt.ParsingState{s}, nil)
				},
				func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
					return p.CallTerminal(terminalID("Semicolon"), s)
				},
			})
		},
	})

	// Condition: CommercialAt DisjunctionCondition
	add("Condition", aetherrt.NonterminalType{
		Descend: func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
			return p.Sequence(s, []aetherrt.DescendAlt{
				func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
					return p.CallTerminal(terminalID("CommercialAt"), s)
				},
				func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
					return p.Call(nt("Condition"), nt("DisjunctionCondition"), []aetherrt.ParsingState{s}, nil)
				},
			})
		},
	})

	// ProductionSpecifiers: LeftParenthesis ProductionSpecifierList RightParenthesis
	add("ProductionSpecifiers", aetherrt.NonterminalType{
		Descend: func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
			return p.Sequence(s, []aetherrt.DescendAlt{
				func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
					return p.CallTerminal(terminalID("LeftParenthesis"), s)
				},
				func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
					return p.Call(nt("ProductionSpecifiers"), nt("ProductionSpecifierList"), []aetherrt.ParsingState{s}, nil)
				},
				func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
					return p.CallTerminal(terminalID("RightParenthesis"), s)
				},
			})
		},
	})

	// SelectionExpression: SequenceExpression ((VerticalLine | [if syntactic] Solidus) SequenceExpression)*
	add("SelectionExpression", aetherrt.NonterminalType{
		First: func(aetherrt.Conditions) []int { return []int{nontermID("SequenceExpression")} },
		Descend: func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
			return p.Sequence(s, []aetherrt.DescendAlt{
				func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
					return p.Call(nt("SelectionExpression"), nt("SequenceExpression"), []aetherrt.ParsingState{s}, nil)
				},
				func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
					return p.Optional(false, s, func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
						return p.Iteration(false, s, func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
							return p.Sequence(s, []aetherrt.DescendAlt{
								func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
									alts := []aetherrt.DescendAlt{
										func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
											return p.CallTerminal(terminalID("VerticalLine"), s)
										},
									}
									if p.Conditions().Has(ConditionSyntactic) {
										alts = append(alts, func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
											return p.CallTerminal(terminalID("Solidus"), s)
										})
									}
									return p.Selection(false, s, alts)
								},
								func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
									return p.Call(nt("SelectionExpression"), nt("SequenceExpression"), []aetherrt.ParsingState{s}, nil)
								},
							})
						})
					})
				},
			})
		},
	})

	// DisjunctionCondition: ConjunctionCondition (DoubleVerticalLine ConjunctionCondition)*
	add("DisjunctionCondition", aetherrt.NonterminalType{
		First: func(aetherrt.Conditions) []int { return []int{nontermID("ConjunctionCondition")} },
		Descend: func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
			return p.Sequence(s, []aetherrt.DescendAlt{
				func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
					return p.Call(nt("DisjunctionCondition"), nt("ConjunctionCondition"), []aetherrt.ParsingState{s}, nil)
				},
				func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
					return p.Optional(false, s, func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
						return p.Iteration(false, s, func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
							return p.Sequence(s, []aetherrt.DescendAlt{
								func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
									return p.CallTerminal(terminalID("DoubleVerticalLine"), s)
								},
								func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
									return p.Call(nt("DisjunctionCondition"), nt("ConjunctionCondition"), []aetherrt.ParsingState{s}, nil)
								},
							})
						})
					})
				},
			})
		},
	})

	// ProductionSpecifierList: ProductionSpecifier (Comma ProductionSpecifier)*
	add("ProductionSpecifierList", aetherrt.NonterminalType{
		First: func(aetherrt.Conditions) []int { return []int{nontermID("ProductionSpecifier")} },
		Descend: func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
			return p.Sequence(s, []aetherrt.DescendAlt{
				func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
					return p.Call(nt("ProductionSpecifierList"), nt("ProductionSpecifier"), []aetherrt.ParsingState{s}, nil)
				},
				func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
					return p.Optional(false, s, func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
						return p.Iteration(false, s, func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
							return p.Sequence(s, []aetherrt.DescendAlt{
								func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
									return p.CallTerminal(terminalID("Comma"), s)
								},
								func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
									return p.Call(nt("ProductionSpecifierList"), nt("ProductionSpecifier"), []aetherrt.ParsingState{s}, nil)
								},
							})
						})
					})
				},
			})
		},
	})

	// SequenceExpression: lexical IterationExpression+; syntactic PrimaryExpression+
	add("SequenceExpression", aetherrt.NonterminalType{
		First: func(c aetherrt.Conditions) []int {
			if c.Has(ConditionSyntactic) {
				return []int{nontermID("PrimaryExpression")}
			}
			return []int{nontermID("IterationExpression")}
		},
		Descend: func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
			child := "IterationExpression"
			if p.Conditions().Has(ConditionSyntactic) {
				child = "PrimaryExpression"
			}
			return p.Iteration(false, s, func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
				return p.Call(nt("SequenceExpression"), nt(child), []aetherrt.ParsingState{s}, nil)
			})
		},
	})

	// ConjunctionCondition: NegationCondition (DoubleAmpersand NegationCondition)*
	add("ConjunctionCondition", aetherrt.NonterminalType{
		First: func(aetherrt.Conditions) []int { return []int{nontermID("NegationCondition")} },
		Descend: func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
			return p.Sequence(s, []aetherrt.DescendAlt{
				func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
					return p.Call(nt("ConjunctionCondition"), nt("NegationCondition"), []aetherrt.ParsingState{s}, nil)
				},
				func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
					return p.Optional(false, s, func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
						return p.Iteration(false, s, func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
							return p.Sequence(s, []aetherrt.DescendAlt{
								func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
									return p.CallTerminal(terminalID("DoubleAmpersand"), s)
								},
								func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
									return p.Call(nt("ConjunctionCondition"), nt("NegationCondition"), []aetherrt.ParsingState{s}, nil)
								},
							})
						})
					})
				},
			})
		},
	})

	// ProductionSpecifier:
	//   lexical:   (PlusSign|HyphenMinus) Identifier | Ignore
	//   syntactic: Start
	//   then optional Condition
	add("ProductionSpecifier", aetherrt.NonterminalType{
		Descend: func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
			return p.Sequence(s, []aetherrt.DescendAlt{
				func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
					if p.Conditions().Has(ConditionSyntactic) {
						return p.CallTerminal(terminalID("Start"), s)
					}
					return p.Selection(true, s, []aetherrt.DescendAlt{
						func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
							return p.Sequence(s, []aetherrt.DescendAlt{
								func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
									return p.Selection(false, s, []aetherrt.DescendAlt{
										func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
											return p.CallTerminal(terminalID("PlusSign"), s)
										},
										func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
											return p.CallTerminal(terminalID("HyphenMinus"), s)
										},
									})
								},
								func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
									return p.CallTerminal(terminalID("Identifier"), s)
								},
							})
						},
						func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
							return p.CallTerminal(terminalID("Ignore"), s)
						},
					})
				},
				func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
					return p.Optional(false, s, func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
						return p.Call(nt("ProductionSpecifier"), nt("Condition"), []aetherrt.ParsingState{s}, nil)
					})
				},
			})
		},
	})

	// IterationExpression:
	//   lexical:   PrimaryExpression (Asterisk|PlusSign|QuestionMark|ExpressionRange)?
	//   syntactic: (LeftCurlyBracket|LeftCurlyBracketSolidus) SelectionExpression RightCurlyBracket
	add("IterationExpression", aetherrt.NonterminalType{
		First: func(c aetherrt.Conditions) []int {
			if c.Has(ConditionSyntactic) {
				return nil
			}
			return []int{nontermID("PrimaryExpression")}
		},
		Descend: func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
			if p.Conditions().Has(ConditionSyntactic) {
				return p.Sequence(s, []aetherrt.DescendAlt{
					func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
						return p.Selection(false, s, []aetherrt.DescendAlt{
							func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
								return p.CallTerminal(terminalID("LeftCurlyBracket"), s)
							},
							func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
								return p.CallTerminal(terminalID("LeftCurlyBracketSolidus"), s)
							},
						})
					},
					func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
						return p.Call(nt("IterationExpression"), nt("SelectionExpression"), []aetherrt.ParsingState{s}, nil)
					},
					func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
						return p.CallTerminal(terminalID("RightCurlyBracket"), s)
					},
				})
			}
			return p.Sequence(s, []aetherrt.DescendAlt{
				func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
					return p.Call(nt("IterationExpression"), nt("PrimaryExpression"), []aetherrt.ParsingState{s}, nil)
				},
				func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
					return p.Optional(false, s, func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
						return p.Selection(false, s, []aetherrt.DescendAlt{
							func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
								return p.CallTerminal(terminalID("Asterisk"), s)
							},
							func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
								return p.CallTerminal(terminalID("PlusSign"), s)
							},
							func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
								return p.CallTerminal(terminalID("QuestionMark"), s)
							},
							func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
								return p.CallTerminal(terminalID("ExpressionRange"), s)
							},
						})
					})
				},
			})
		},
	})

	// PrimaryExpression:
	//   lexical:   OrdChar | QuotedChar | FullStop | BracketExpression
	//   syntactic: Identifier [Condition]
	//            | LeftParenthesis SelectionExpression RightParenthesis [Condition]
	//            | (OptionalExpression|IterationExpression) [Condition]
	add("PrimaryExpression", aetherrt.NonterminalType{
		First: func(c aetherrt.Conditions) []int {
			if c.Has(ConditionSyntactic) {
				return []int{nontermID("OptionalExpression"), nontermID("IterationExpression")}
			}
			return nil
		},
		Descend: func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
			if p.Conditions().Has(ConditionSyntactic) {
				return p.Selection(true, s, []aetherrt.DescendAlt{
					func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
						return p.Sequence(s, []aetherrt.DescendAlt{
							func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
								return p.CallTerminal(terminalID("Identifier"), s)
							},
							func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
								return p.Optional(false, s, func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
									return p.Call(nt("PrimaryExpression"), nt("Condition"), []aetherrt.ParsingState{s}, nil)
								})
							},
						})
					},
					func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
						return p.Sequence(s, []aetherrt.DescendAlt{
							func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
								return p.CallTerminal(terminalID("LeftParenthesis"), s)
							},
							func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
								return p.Call(nt("PrimaryExpression"), nt("SelectionExpression"), []aetherrt.ParsingState{s}, nil)
							},
							func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
								return p.CallTerminal(terminalID("RightParenthesis"), s)
							},
							func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
								return p.Optional(false, s, func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
									return p.Call(nt("PrimaryExpression"), nt("Condition"), []aetherrt.ParsingState{s}, nil)
								})
							},
						})
					},
					func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
						return p.Sequence(s, []aetherrt.DescendAlt{
							func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
								return p.Selection(false, s, []aetherrt.DescendAlt{
									func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
										return p.Call(nt("PrimaryExpression"), nt("OptionalExpression"), []aetherrt.ParsingState{s}, nil)
									},
									func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
										return p.Call(nt("PrimaryExpression"), nt("IterationExpression"), []aetherrt.ParsingState{s}, nil)
									},
								})
							},
							func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
								return p.Optional(false, s, func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
									return p.Call(nt("PrimaryExpression"), nt("Condition"), []aetherrt.ParsingState{s}, nil)
								})
							},
						})
					},
				})
			}
			return p.Selection(true, s, []aetherrt.DescendAlt{
				func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
					return p.CallTerminal(terminalID("OrdChar"), s)
				},
				func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
					return p.CallTerminal(terminalID("QuotedChar"), s)
				},
				func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
					return p.CallTerminal(terminalID("FullStop"), s)
				},
				func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
					return p.CallTerminal(terminalID("BracketExpression"), s)
				},
			})
		},
	})

	// NegationCondition: ExclamationMark* PrimitiveCondition
	add("NegationCondition", aetherrt.NonterminalType{
		First: func(aetherrt.Conditions) []int { return []int{nontermID("PrimitiveCondition")} },
		Descend: func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
			return p.Sequence(s, []aetherrt.DescendAlt{
				func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
					return p.Optional(false, s, func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
						return p.Iteration(false, s, func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
							return p.CallTerminal(terminalID("ExclamationMark"), s)
						})
					})
				},
				func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
					return p.Call(nt("NegationCondition"), nt("PrimitiveCondition"), []aetherrt.ParsingState{s}, nil)
				},
			})
		},
	})

	// OptionalExpression: (LeftSquareBracket|LeftSquareBracketSolidus) SelectionExpression RightSquareBracket
	add("OptionalExpression", aetherrt.NonterminalType{
		Descend: func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
			return p.Sequence(s, []aetherrt.DescendAlt{
				func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
					return p.Selection(false, s, []aetherrt.DescendAlt{
						func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
							return p.CallTerminal(terminalID("LeftSquareBracket"), s)
						},
						func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
							return p.CallTerminal(terminalID("LeftSquareBracketSolidus"), s)
						},
					})
				},
				func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
					return p.Call(nt("OptionalExpression"), nt("SelectionExpression"), []aetherrt.ParsingState{s}, nil)
				},
				func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
					return p.CallTerminal(terminalID("RightSquareBracket"), s)
				},
			})
		},
	})

	// PrimitiveCondition: Identifier | LeftParenthesis DisjunctionCondition RightParenthesis
	add("PrimitiveCondition", aetherrt.NonterminalType{
		Descend: func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
			return p.Selection(true, s, []aetherrt.DescendAlt{
				func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
					return p.CallTerminal(terminalID("Identifier"), s)
				},
				func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
					return p.Sequence(s, []aetherrt.DescendAlt{
						func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
							return p.CallTerminal(terminalID("LeftParenthesis"), s)
						},
						func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
							return p.Call(nt("PrimitiveCondition"), nt("DisjunctionCondition"), []aetherrt.ParsingState{s}, nil)
						},
						func(p *aetherrt.Parser, s aetherrt.ParsingState) ([]aetherrt.ParsingState, error) {
							return p.CallTerminal(terminalID("RightParenthesis"), s)
						},
					})
				},
			})
		},
	})

	return nts
}
