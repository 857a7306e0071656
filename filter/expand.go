// Copyright © 2013-2016 Pierre Neidhardt <ambrevar@gmail.com>
// Use of this file is governed by the license that can be found in LICENSE.

package filter

import (
	"fmt"
	"strings"
)

// IsShorthand reports whether s should be run through Expand before
// tokenizing: after skipping leading spaces, '!' and '(', the first
// remaining character is '~'.
func IsShorthand(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '~':
			return true
		case '!', '(', ' ':
			continue
		default:
			return false
		}
	}
	return false
}

// Expand rewrites the '~KV' shorthand form into the full filter-expression
// grammar. A '~' clause consumes a single-letter key, skips any following
// spaces, then reads a value whose shape depends on the key's Kind:
// nothing for a boolean key, N / -N / N- / N-M / <N / >N for an integer
// key, and a bare or quoted run of text (always wrapped "*...*") for a
// string key. Clauses, parenthesized groups and negations that follow one
// another with no explicit '&' or '|' between them are joined with an
// implicit '&'. The full grammar has no such implicit '&': there, adjacent
// primaries are a parse error.
func Expand(s string) (string, error) {
	var out strings.Builder
	i, n := 0, len(s)
	afterClause := false

	for {
		for i < n && s[i] == ' ' {
			i++
		}
		if i >= n {
			break
		}
		c := s[i]
		switch c {
		case '~':
			if afterClause {
				out.WriteByte('&')
			}
			i++
			clause, next, err := expandClause(s, i)
			if err != nil {
				return "", err
			}
			out.WriteString(clause)
			i = next
			afterClause = true
		case '(':
			if afterClause {
				out.WriteByte('&')
			}
			out.WriteByte('(')
			i++
			afterClause = false
		case '!':
			if afterClause {
				out.WriteByte('&')
			}
			out.WriteByte('!')
			i++
			afterClause = false
		case ')':
			out.WriteByte(')')
			i++
			afterClause = true
		case '&', '|':
			out.WriteByte(c)
			i++
			afterClause = false
		default:
			return "", fmt.Errorf("unexpected character '%c'", c)
		}
	}
	return out.String(), nil
}

func expandClause(s string, i int) (string, int, error) {
	n := len(s)
	if i >= n {
		return "", i, fmt.Errorf("unknown short key")
	}
	longKey, ok := shortKeys[s[i]]
	if !ok {
		return "", i, fmt.Errorf("unknown short key '%c'", s[i])
	}
	i++
	for i < n && s[i] == ' ' {
		i++
	}
	kind, _ := lookupBuiltin(longKey)
	switch kind {
	case KindBool:
		return longKey, i, nil
	case KindInt:
		return expandIntClause(longKey, s, i)
	default:
		return expandStringClause(longKey, s, i)
	}
}

func expandIntClause(key, s string, i int) (string, int, error) {
	n := len(s)
	if i >= n {
		return "", i, fmt.Errorf("integer expected")
	}
	switch {
	case s[i] == '<' || s[i] == '>':
		op := string(s[i])
		i++
		start := i
		for i < n && isASCIIDigit(s[i]) {
			i++
		}
		return "(" + key + op + s[start:i] + ")", i, nil
	case s[i] == '-':
		i++
		start := i
		for i < n && isASCIIDigit(s[i]) {
			i++
		}
		return "(" + key + "<=" + s[start:i] + ")", i, nil
	case isASCIIDigit(s[i]):
		start := i
		for i < n && isASCIIDigit(s[i]) {
			i++
		}
		num1 := s[start:i]
		if i < n && s[i] == '-' {
			i++
			start2 := i
			for i < n && isASCIIDigit(s[i]) {
				i++
			}
			num2 := s[start2:i]
			if num2 == "" {
				return "(" + key + ">=" + num1 + ")", i, nil
			}
			return "(" + key + ">=" + num1 + "&" + key + "<=" + num2 + ")", i, nil
		}
		return "(" + key + "=" + num1 + ")", i, nil
	default:
		return "", i, fmt.Errorf("integer expected")
	}
}

// expandStringClause reads a bare or quoted value and wraps it "*...*", so
// e.g. ~l"Kind of Blue" becomes album="*Kind of Blue*": shorthand string
// matches are always substring matches, quoted or not.
func expandStringClause(key, s string, i int) (string, int, error) {
	n := len(s)
	if i >= n {
		return "", i, fmt.Errorf("string expected")
	}
	var value string
	if s[i] == '"' {
		start := i + 1
		j := start
		for j < n {
			if s[j] == '\\' && j+1 < n {
				j += 2
				continue
			}
			if s[j] == '"' {
				break
			}
			j++
		}
		if j >= n {
			return "", j, fmt.Errorf("end of expression at middle of string")
		}
		value = s[start:j]
		i = j + 1
	} else {
		start := i
		for i < n && s[i] != '~' && s[i] != '!' && s[i] != '|' && s[i] != '&' && s[i] != '(' && s[i] != ')' {
			i++
		}
		value = strings.TrimRight(s[start:i], " ")
	}
	return key + `="*` + value + `*"`, i, nil
}
