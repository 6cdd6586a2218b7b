package fixture

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/funvibe/matchck/internal/ast"
	"github.com/funvibe/matchck/internal/diagnostics"
	"github.com/funvibe/matchck/internal/token"
)

// ParsePattern reads the compact pattern notation used in fixtures:
//
//	_                 wildcard
//	x                 binding
//	x @ pat           binding with sub-pattern
//	^x                pin
//	true, 1, -3, 'a', 2.5, "s"
//	1..=9, 'a'..'z', 5.., ..=0
//	(a, b)            tuple
//	[a, .., z]        list with rest
//	&pat              reference
//	MySome(x), MyNone
//	Point { x: 1, .. }, Opt.MySome { value: _ }
//	a | b             alternatives
func ParsePattern(src string) (ast.Pattern, error) {
	toks, err := scanPattern(src)
	if err != nil {
		return nil, err
	}
	p := &patParser{toks: toks}
	pat, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.peek().Type != token.EOF {
		return nil, patErr(p.peek(), "trailing input")
	}
	return pat, nil
}

func patErr(tok token.Token, detail string) error {
	return diagnostics.NewError(diagnostics.ErrF002, tok, detail)
}

// --- scanner ---

func scanPattern(src string) ([]token.Token, error) {
	var toks []token.Token
	emit := func(tt token.TokenType, lexeme string, col int) {
		toks = append(toks, token.Token{Type: tt, Lexeme: lexeme, Line: 1, Column: col + 1})
	}
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t':
			i++

		case c == '(':
			emit(token.LPAREN, "(", i)
			i++
		case c == ')':
			emit(token.RPAREN, ")", i)
			i++
		case c == '[':
			emit(token.LBRACKET, "[", i)
			i++
		case c == ']':
			emit(token.RBRACKET, "]", i)
			i++
		case c == '{':
			emit(token.LBRACE, "{", i)
			i++
		case c == '}':
			emit(token.RBRACE, "}", i)
			i++
		case c == ',':
			emit(token.COMMA, ",", i)
			i++
		case c == ':':
			emit(token.COLON, ":", i)
			i++
		case c == '|':
			emit(token.PIPE, "|", i)
			i++
		case c == '&':
			emit(token.AMPERSAND, "&", i)
			i++
		case c == '@':
			emit(token.AT, "@", i)
			i++
		case c == '^':
			emit(token.CARET, "^", i)
			i++

		case c == '.':
			switch {
			case strings.HasPrefix(src[i:], "..."):
				emit(token.ELLIPSIS, "...", i)
				i += 3
			case strings.HasPrefix(src[i:], "..="):
				emit(token.DOTDOTEQ, "..=", i)
				i += 3
			case strings.HasPrefix(src[i:], ".."):
				emit(token.DOTDOT, "..", i)
				i += 2
			default:
				emit(token.DOT, ".", i)
				i++
			}

		case c == '\'':
			j := i + 1
			for j < len(src) && src[j] != '\'' {
				if src[j] == '\\' {
					j++
				}
				j++
			}
			if j >= len(src) {
				return nil, patErr(token.Token{Line: 1, Column: i + 1}, "unterminated char literal")
			}
			emit(token.CHAR, src[i:j+1], i)
			i = j + 1

		case c == '"':
			j := i + 1
			for j < len(src) && src[j] != '"' {
				if src[j] == '\\' {
					j++
				}
				j++
			}
			if j >= len(src) {
				return nil, patErr(token.Token{Line: 1, Column: i + 1}, "unterminated string literal")
			}
			emit(token.STRING, src[i:j+1], i)
			i = j + 1

		case c == '-' || c >= '0' && c <= '9':
			j := i
			if src[j] == '-' {
				j++
			}
			for j < len(src) && src[j] >= '0' && src[j] <= '9' {
				j++
			}
			isFloat := false
			// A single dot starts a fraction; two dots start a range.
			if j+1 < len(src) && src[j] == '.' && src[j+1] >= '0' && src[j+1] <= '9' {
				isFloat = true
				j++
				for j < len(src) && src[j] >= '0' && src[j] <= '9' {
					j++
				}
			}
			if isFloat {
				emit(token.FLOAT, src[i:j], i)
			} else {
				emit(token.INT, src[i:j], i)
			}
			i = j

		default:
			r, size := utf8.DecodeRuneInString(src[i:])
			if !unicode.IsLetter(r) && r != '_' {
				return nil, patErr(token.Token{Line: 1, Column: i + 1}, "unexpected character "+strconv.QuoteRune(r))
			}
			j := i
			for j < len(src) {
				r, size = utf8.DecodeRuneInString(src[j:])
				if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
					break
				}
				j += size
			}
			word := src[i:j]
			switch {
			case word == "_":
				emit(token.UNDERSCORE, word, i)
			case word == "true":
				emit(token.TRUE, word, i)
			case word == "false":
				emit(token.FALSE, word, i)
			default:
				first, _ := utf8.DecodeRuneInString(word)
				if unicode.IsUpper(first) {
					emit(token.IDENT_UPPER, word, i)
				} else {
					emit(token.IDENT_LOWER, word, i)
				}
			}
			i = j
		}
	}
	toks = append(toks, token.Token{Type: token.EOF, Line: 1, Column: len(src) + 1})
	return toks, nil
}

// --- parser ---

type patParser struct {
	toks []token.Token
	pos  int
}

func (p *patParser) peek() token.Token { return p.toks[p.pos] }

func (p *patParser) next() token.Token {
	t := p.toks[p.pos]
	if t.Type != token.EOF {
		p.pos++
	}
	return t
}

func (p *patParser) accept(tt token.TokenType) (token.Token, bool) {
	if p.peek().Type == tt {
		return p.next(), true
	}
	return token.Token{}, false
}

func (p *patParser) expect(tt token.TokenType) (token.Token, error) {
	if t, ok := p.accept(tt); ok {
		return t, nil
	}
	return token.Token{}, patErr(p.peek(), "expected "+string(tt))
}

func (p *patParser) parseOr() (ast.Pattern, error) {
	first, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.peek().Type != token.PIPE {
		return first, nil
	}
	alts := []ast.Pattern{first}
	for {
		if _, ok := p.accept(token.PIPE); !ok {
			break
		}
		alt, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		alts = append(alts, alt)
	}
	return &ast.OrPattern{Token: first.GetToken(), Alternatives: alts}, nil
}

func (p *patParser) parsePrimary() (ast.Pattern, error) {
	tok := p.peek()
	switch tok.Type {
	case token.UNDERSCORE:
		p.next()
		return &ast.WildcardPattern{Token: tok}, nil

	case token.AMPERSAND:
		p.next()
		inner, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return &ast.RefPattern{Token: tok, Pattern: inner}, nil

	case token.CARET:
		p.next()
		name, err := p.expect(token.IDENT_LOWER)
		if err != nil {
			return nil, err
		}
		return &ast.PinPattern{Token: tok, Name: name.Lexeme}, nil

	case token.LPAREN:
		return p.parseTuple()

	case token.LBRACKET:
		return p.parseList()

	case token.INT, token.FLOAT, token.CHAR, token.STRING, token.TRUE, token.FALSE:
		return p.parseLiteralOrRange()

	case token.DOTDOT, token.DOTDOTEQ:
		// Open lower endpoint: ..=5 or ..5
		p.next()
		hi, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		return &ast.RangePattern{Token: tok, Hi: hi, Inclusive: tok.Type == token.DOTDOTEQ}, nil

	case token.IDENT_LOWER:
		p.next()
		if at, ok := p.accept(token.AT); ok {
			_ = at
			sub, err := p.parsePrimary()
			if err != nil {
				return nil, err
			}
			return &ast.AtPattern{Token: tok, Name: tok.Lexeme, Pattern: sub}, nil
		}
		return &ast.IdentifierPattern{Token: tok, Value: tok.Lexeme}, nil

	case token.IDENT_UPPER:
		return p.parseConstructor()

	default:
		return nil, patErr(tok, "unexpected token "+strconv.Quote(tok.Lexeme))
	}
}

func (p *patParser) parseTuple() (ast.Pattern, error) {
	open, _ := p.expect(token.LPAREN)
	var elems []ast.Pattern
	for p.peek().Type != token.RPAREN {
		el, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, el)
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	// One parenthesized pattern is grouping, not a 1-tuple.
	if len(elems) == 1 {
		return elems[0], nil
	}
	return &ast.TuplePattern{Token: open, Elements: elems}, nil
}

func (p *patParser) parseList() (ast.Pattern, error) {
	open, _ := p.expect(token.LBRACKET)
	var elems []ast.Pattern
	for p.peek().Type != token.RBRACKET {
		switch p.peek().Type {
		case token.DOTDOT, token.ELLIPSIS:
			rest := p.next()
			sp := &ast.SpreadPattern{Token: rest}
			if name, ok := p.accept(token.IDENT_LOWER); ok {
				sp.Name = name.Lexeme
			}
			elems = append(elems, sp)
		default:
			el, err := p.parseOr()
			if err != nil {
				return nil, err
			}
			elems = append(elems, el)
		}
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
	}
	if _, err := p.expect(token.RBRACKET); err != nil {
		return nil, err
	}
	return &ast.ListPattern{Token: open, Elements: elems}, nil
}

func (p *patParser) parseLiteralOrRange() (ast.Pattern, error) {
	lo, err := p.parseLiteral()
	if err != nil {
		return nil, err
	}
	tt := p.peek().Type
	if tt != token.DOTDOT && tt != token.DOTDOTEQ {
		return lo, nil
	}
	op := p.next()
	rp := &ast.RangePattern{Token: lo.Token, Lo: lo, Inclusive: op.Type == token.DOTDOTEQ}
	switch p.peek().Type {
	case token.INT, token.FLOAT, token.CHAR:
		hi, err := p.parseLiteral()
		if err != nil {
			return nil, err
		}
		rp.Hi = hi
	}
	return rp, nil
}

func (p *patParser) parseLiteral() (*ast.LiteralPattern, error) {
	tok := p.next()
	switch tok.Type {
	case token.TRUE:
		return &ast.LiteralPattern{Token: tok, Value: true}, nil
	case token.FALSE:
		return &ast.LiteralPattern{Token: tok, Value: false}, nil
	case token.INT:
		v, err := strconv.ParseInt(tok.Lexeme, 10, 64)
		if err != nil {
			// Out of int64 range; u64 literals land here.
			u, uerr := strconv.ParseUint(tok.Lexeme, 10, 64)
			if uerr != nil {
				return nil, patErr(tok, uerr.Error())
			}
			return &ast.LiteralPattern{Token: tok, Value: u}, nil
		}
		return &ast.LiteralPattern{Token: tok, Value: v}, nil
	case token.FLOAT:
		v, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			return nil, patErr(tok, err.Error())
		}
		return &ast.LiteralPattern{Token: tok, Value: v}, nil
	case token.CHAR:
		r, _, _, err := strconv.UnquoteChar(tok.Lexeme[1:len(tok.Lexeme)-1], '\'')
		if err != nil {
			return nil, patErr(tok, err.Error())
		}
		return &ast.LiteralPattern{Token: tok, Value: int64(r), IsChar: true}, nil
	case token.STRING:
		s, err := strconv.Unquote(tok.Lexeme)
		if err != nil {
			return nil, patErr(tok, err.Error())
		}
		return &ast.LiteralPattern{Token: tok, Value: s}, nil
	}
	return nil, patErr(tok, "expected a literal")
}

// parseConstructor handles MyNone, MySome(x), Point { x: 1 } and
// Opt.MySome { value: _ }.
func (p *patParser) parseConstructor() (ast.Pattern, error) {
	name, _ := p.expect(token.IDENT_UPPER)
	variantName := ""
	if _, ok := p.accept(token.DOT); ok {
		v, err := p.expect(token.IDENT_UPPER)
		if err != nil {
			return nil, err
		}
		variantName = v.Lexeme
	}

	switch p.peek().Type {
	case token.LBRACE:
		return p.parseRecord(name, variantName)

	case token.LPAREN:
		if variantName != "" {
			return nil, patErr(p.peek(), "qualified variants use record form")
		}
		p.next()
		var elems []ast.Pattern
		for p.peek().Type != token.RPAREN {
			el, err := p.parseOr()
			if err != nil {
				return nil, err
			}
			elems = append(elems, el)
			if _, ok := p.accept(token.COMMA); !ok {
				break
			}
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return &ast.ConstructorPattern{Token: name, Name: name.Lexeme, Elements: elems, Parens: true}, nil

	default:
		if variantName != "" {
			return &ast.RecordPattern{Token: name, TypeName: name.Lexeme, VariantName: variantName, Rest: true}, nil
		}
		return &ast.ConstructorPattern{Token: name, Name: name.Lexeme}, nil
	}
}

func (p *patParser) parseRecord(name token.Token, variantName string) (ast.Pattern, error) {
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	rec := &ast.RecordPattern{Token: name, TypeName: name.Lexeme, VariantName: variantName}
	for p.peek().Type != token.RBRACE {
		if _, ok := p.accept(token.DOTDOT); ok {
			rec.Rest = true
			break
		}
		fname, err := p.expect(token.IDENT_LOWER)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		sub, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		rec.Fields = append(rec.Fields, ast.RecordFieldPattern{Name: fname.Lexeme, Pattern: sub})
		if _, ok := p.accept(token.COMMA); !ok {
			break
		}
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return rec, nil
}
