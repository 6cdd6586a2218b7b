package prettyprinter

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/funvibe/matchck/internal/ast"
)

// --- Pattern Printer (Output looks like source code) ---

type PatternPrinter struct {
	buf bytes.Buffer
}

func NewPatternPrinter() *PatternPrinter {
	return &PatternPrinter{}
}

func (p *PatternPrinter) String() string {
	return p.buf.String()
}

func (p *PatternPrinter) write(s string) {
	p.buf.WriteString(s)
}

// PrintPattern renders one surface pattern as source text.
func PrintPattern(pat ast.Pattern) string {
	p := NewPatternPrinter()
	p.Print(pat)
	return p.String()
}

func (p *PatternPrinter) Print(pat ast.Pattern) {
	switch n := pat.(type) {
	case nil:
		p.write("<???>")
	case *ast.WildcardPattern:
		p.write("_")
	case *ast.IdentifierPattern:
		p.write(n.Value)
	case *ast.AtPattern:
		p.write(n.Name)
		p.write(" @ ")
		p.Print(n.Pattern)
	case *ast.LiteralPattern:
		p.printLiteral(n)
	case *ast.RangePattern:
		p.printRange(n)
	case *ast.ConstructorPattern:
		p.printConstructor(n)
	case *ast.RecordPattern:
		p.printRecord(n)
	case *ast.TuplePattern:
		p.write("(")
		p.printList(n.Elements)
		p.write(")")
	case *ast.ListPattern:
		p.write("[")
		p.printList(n.Elements)
		p.write("]")
	case *ast.SpreadPattern:
		p.write("..")
		p.write(n.Name)
	case *ast.RefPattern:
		p.write("&")
		p.Print(n.Pattern)
	case *ast.OrPattern:
		for i, alt := range n.Alternatives {
			if i > 0 {
				p.write(" | ")
			}
			p.Print(alt)
		}
	case *ast.PinPattern:
		p.write("^")
		p.write(n.Name)
	case *ast.ErrorPattern:
		p.write("<error>")
	default:
		p.write("<???>")
	}
}

func (p *PatternPrinter) printLiteral(n *ast.LiteralPattern) {
	switch v := n.Value.(type) {
	case bool:
		p.write(strconv.FormatBool(v))
	case string:
		p.write(strconv.Quote(v))
	case int64:
		if n.IsChar {
			p.write(strconv.QuoteRune(rune(v)))
			return
		}
		p.write(strconv.FormatInt(v, 10))
	case uint64:
		if n.IsChar {
			p.write(strconv.QuoteRune(rune(v)))
			return
		}
		p.write(strconv.FormatUint(v, 10))
	case float64:
		p.write(strconv.FormatFloat(v, 'g', -1, 64))
	default:
		if n.Token.Lexeme != "" {
			p.write(n.Token.Lexeme)
			return
		}
		p.write(fmt.Sprintf("%v", v))
	}
}

func (p *PatternPrinter) printRange(n *ast.RangePattern) {
	if n.Lo != nil {
		p.printLiteral(n.Lo)
	}
	if n.Inclusive {
		p.write("..=")
	} else {
		p.write("..")
	}
	if n.Hi != nil {
		p.printLiteral(n.Hi)
	}
}

func (p *PatternPrinter) printConstructor(n *ast.ConstructorPattern) {
	p.write(n.Name)
	if len(n.Elements) == 0 && !n.Parens {
		return
	}
	p.write("(")
	p.printList(n.Elements)
	p.write(")")
}

func (p *PatternPrinter) printRecord(n *ast.RecordPattern) {
	p.write(n.TypeName)
	if n.VariantName != "" {
		p.write(".")
		p.write(n.VariantName)
	}
	if len(n.Fields) == 0 && !n.Rest {
		p.write(" {}")
		return
	}
	p.write(" { ")
	for i, f := range n.Fields {
		if i > 0 {
			p.write(", ")
		}
		p.write(f.Name)
		p.write(": ")
		p.Print(f.Pattern)
	}
	if n.Rest {
		if len(n.Fields) > 0 {
			p.write(", ")
		}
		p.write("..")
	}
	p.write(" }")
}

func (p *PatternPrinter) printList(elems []ast.Pattern) {
	for i, el := range elems {
		if i > 0 {
			p.write(", ")
		}
		p.Print(el)
	}
}
