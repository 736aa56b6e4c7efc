package elab

import (
	"strconv"
	"unicode/utf8"

	"github.com/cottand/fern/core"
	"github.com/cottand/fern/core/semantics"
	"github.com/cottand/fern/frontend/diag"
	"github.com/cottand/fern/frontend/surface"
	"github.com/pkg/errors"
)

// scalarTypeName returns the name of the scalar global expected is, if it
// is one
func scalarTypeName(expected semantics.Value) (string, bool) {
	stuck, ok := expected.(*semantics.Stuck)
	if !ok || len(stuck.Spine) > 0 {
		return "", false
	}
	head, ok := stuck.Head.(semantics.GlobalHead)
	if !ok {
		return "", false
	}
	for _, name := range core.ScalarTypeNames {
		if name == head.Name {
			return name, true
		}
	}
	return "", false
}

// checkLiteral parses a literal at the scalar type expected
func (s *State) checkLiteral(term surface.Term, expected semantics.Value) (core.Constant, bool) {
	typeName, ok := scalarTypeName(expected)
	if !ok {
		s.report(diag.NoLiteralConversion{Range: surface.RangeOf(term), ExpectedType: s.distillValue(expected)})
		return nil, false
	}

	switch term := term.(type) {
	case *surface.NumberLiteral:
		constant, err := parseNumber(term.Text, typeName)
		if errors.Is(err, errNoConversion) {
			break
		}
		if err != nil {
			s.report(diag.InvalidLiteral{Range: term.Range, Literal: term.Text, TypeName: typeName})
			return nil, false
		}
		return constant, true
	case *surface.CharLiteral:
		if typeName == "Char" {
			char, ok := s.parseChar(term)
			return char, ok
		}
	case *surface.StringLiteral:
		if typeName == "String" {
			return core.String(term.Value), true
		}
	}
	s.report(diag.NoLiteralConversion{Range: surface.RangeOf(term), ExpectedType: s.distillValue(expected)})
	return nil, false
}

var errNoConversion = errors.New("no literal conversion")

// parseNumber parses text as a number of the scalar type typeName.
// Integers accept the same prefixes as Go literals.
func parseNumber(text, typeName string) (core.Constant, error) {
	switch typeName {
	case "U8":
		n, err := strconv.ParseUint(text, 0, 8)
		return core.U8(n), err
	case "U16":
		n, err := strconv.ParseUint(text, 0, 16)
		return core.U16(n), err
	case "U32":
		n, err := strconv.ParseUint(text, 0, 32)
		return core.U32(n), err
	case "U64":
		n, err := strconv.ParseUint(text, 0, 64)
		return core.U64(n), err
	case "S8":
		n, err := strconv.ParseInt(text, 0, 8)
		return core.S8(n), err
	case "S16":
		n, err := strconv.ParseInt(text, 0, 16)
		return core.S16(n), err
	case "S32":
		n, err := strconv.ParseInt(text, 0, 32)
		return core.S32(n), err
	case "S64":
		n, err := strconv.ParseInt(text, 0, 64)
		return core.S64(n), err
	case "F32":
		f, err := strconv.ParseFloat(text, 32)
		return core.F32(f), err
	case "F64":
		f, err := strconv.ParseFloat(text, 64)
		return core.F64(f), err
	}
	return nil, errNoConversion
}

// parseChar checks that a char literal holds exactly one code point
func (s *State) parseChar(term *surface.CharLiteral) (core.Char, bool) {
	r, size := utf8.DecodeRuneInString(term.Value)
	if term.Value == "" || size != len(term.Value) || r == utf8.RuneError && size == 1 {
		s.report(diag.InvalidLiteral{Range: term.Range, Literal: term.Value, TypeName: "Char"})
		return 0, false
	}
	return core.Char(r), true
}
