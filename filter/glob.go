// Copyright © 2013-2016 Pierre Neidhardt <ambrevar@gmail.com>
// Use of this file is governed by the license that can be found in LICENSE.

package filter

import "strings"

// globTokKind identifies one element of a compiled glob pattern.
type globTokKind byte

const (
	globLiteral globTokKind = iota
	globAny             // '?'
	globStar            // '*'
	globClass           // '[...]'
)

type globTok struct {
	kind   globTokKind
	r      rune     // globLiteral
	neg    bool     // globClass
	set    []rune   // globClass: single runes
	ranges [][2]rune // globClass: lo-hi ranges
}

// Glob is a pattern compiled once at parse time, per the filter language's
// "compile at parse time, match many times" contract.
type Glob struct {
	toks []globTok
}

// CompileGlob compiles a shell-style glob pattern: '*' matches any run of
// runes, '?' matches exactly one, '[...]' is a character class (leading '!'
// or '^' negates it, 'a-z' is a range), and '\x' escapes x literally,
// including inside a class.
func CompileGlob(pattern string) (*Glob, error) {
	var toks []globTok
	runes := []rune(pattern)
	i := 0
	for i < len(runes) {
		c := runes[i]
		switch c {
		case '\\':
			if i+1 < len(runes) {
				toks = append(toks, globTok{kind: globLiteral, r: runes[i+1]})
				i += 2
			} else {
				toks = append(toks, globTok{kind: globLiteral, r: '\\'})
				i++
			}
		case '*':
			toks = append(toks, globTok{kind: globStar})
			i++
		case '?':
			toks = append(toks, globTok{kind: globAny})
			i++
		case '[':
			tok, next, ok := compileClass(runes, i)
			if ok {
				toks = append(toks, tok)
				i = next
			} else {
				toks = append(toks, globTok{kind: globLiteral, r: '['})
				i++
			}
		default:
			toks = append(toks, globTok{kind: globLiteral, r: c})
			i++
		}
	}
	return &Glob{toks: toks}, nil
}

// compileClass parses a '[...]' class starting at runes[i] == '['. It
// returns ok == false if the class is unterminated, in which case '[' should
// be treated as a literal.
func compileClass(runes []rune, i int) (globTok, int, bool) {
	j := i + 1
	tok := globTok{kind: globClass}
	if j < len(runes) && (runes[j] == '!' || runes[j] == '^') {
		tok.neg = true
		j++
	}
	start := j
	for j < len(runes) && !(runes[j] == ']' && j > start) {
		if runes[j] == '\\' && j+1 < len(runes) {
			j += 2
			continue
		}
		j++
	}
	if j >= len(runes) {
		return globTok{}, i, false
	}
	body := runes[start:j]
	for k := 0; k < len(body); k++ {
		r := body[k]
		if r == '\\' && k+1 < len(body) {
			k++
			tok.set = append(tok.set, body[k])
			continue
		}
		if k+2 < len(body) && body[k+1] == '-' {
			tok.ranges = append(tok.ranges, [2]rune{r, body[k+2]})
			k += 2
			continue
		}
		tok.set = append(tok.set, r)
	}
	return tok, j + 1, true
}

func (t *globTok) matches(r rune) bool {
	switch t.kind {
	case globLiteral:
		return t.r == r
	case globAny:
		return true
	case globClass:
		in := false
		for _, s := range t.set {
			if s == r {
				in = true
				break
			}
		}
		if !in {
			for _, rg := range t.ranges {
				if r >= rg[0] && r <= rg[1] {
					in = true
					break
				}
			}
		}
		if t.neg {
			return !in
		}
		return in
	}
	return false
}

// Match reports whether s matches the compiled pattern in its entirety.
func (g *Glob) Match(s string) bool {
	input := []rune(s)
	toks := g.toks
	i, t := 0, 0
	starTok, starInput := -1, -1
	for i < len(input) {
		if t < len(toks) && toks[t].kind != globStar && toks[t].matches(input[i]) {
			i++
			t++
		} else if t < len(toks) && toks[t].kind == globStar {
			starTok = t
			starInput = i
			t++
		} else if starTok != -1 {
			starInput++
			i = starInput
			t = starTok + 1
		} else {
			return false
		}
	}
	for t < len(toks) && toks[t].kind == globStar {
		t++
	}
	return t == len(toks)
}

func (g *Glob) String() string {
	var b strings.Builder
	for _, t := range g.toks {
		switch t.kind {
		case globStar:
			b.WriteByte('*')
		case globAny:
			b.WriteByte('?')
		case globLiteral:
			b.WriteRune(t.r)
		case globClass:
			b.WriteByte('[')
			if t.neg {
				b.WriteByte('!')
			}
			for _, r := range t.set {
				b.WriteRune(r)
			}
			for _, rg := range t.ranges {
				b.WriteRune(rg[0])
				b.WriteByte('-')
				b.WriteRune(rg[1])
			}
			b.WriteByte(']')
		}
	}
	return b.String()
}
