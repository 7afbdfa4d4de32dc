package extractor

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/coregx/pdftext/internal/parser"
)

// Operator is one operator invocation from a content stream: a keyword
// (e.g. "Tj", "cm", "Do") together with the operands that preceded it.
//
// Reference: PDF 1.7 specification, Section 7.8.2 (Content Streams).
type Operator struct {
	Name     string
	Operands []parser.PdfObject
}

// ContentParser splits a decoded content stream into a sequence of
// Operators.
//
// Content streams share the PDF object grammar with the file body
// (numbers, strings, names, arrays, dictionaries), but operands are
// followed by a bare keyword naming the operator rather than by "obj"/"R".
// ContentParser reuses internal/parser's Lexer for tokenization and
// assembles operands itself, since internal/parser.Parser's ParseObject
// treats any bareword as an error rather than as the end of an operand
// list.
type ContentParser struct {
	lexer *parser.Lexer
}

// NewContentParser creates a ContentParser over decoded content stream
// bytes.
func NewContentParser(data []byte) *ContentParser {
	return &ContentParser{lexer: parser.NewLexer(bytes.NewReader(data))}
}

// ParseOperators parses the entire stream into an Operator sequence.
//
// A malformed operand sequence is skipped rather than aborting the whole
// parse, so one corrupt operator does not lose every span of text
// before and after it in the stream.
func (cp *ContentParser) ParseOperators() ([]*Operator, error) {
	var ops []*Operator
	var operands []parser.PdfObject

	for {
		tok, err := cp.lexer.NextToken()
		if err != nil {
			break
		}
		if tok.Type == parser.TokenEOF {
			break
		}

		switch tok.Type {
		case parser.TokenInteger:
			v, perr := strconv.ParseInt(tok.Value, 10, 64)
			if perr == nil {
				operands = append(operands, parser.NewInteger(v))
			}
		case parser.TokenReal:
			v, perr := strconv.ParseFloat(tok.Value, 64)
			if perr == nil {
				operands = append(operands, parser.NewReal(v))
			}
		case parser.TokenString:
			operands = append(operands, parser.NewString(tok.Value))
		case parser.TokenHexString:
			operands = append(operands, parser.NewHexString(tok.Value))
		case parser.TokenName:
			operands = append(operands, parser.NewName(tok.Value))
		case parser.TokenBoolean:
			operands = append(operands, parser.NewBoolean(tok.Value == "true"))
		case parser.TokenNull:
			operands = append(operands, parser.NewNull())
		case parser.TokenArrayStart:
			arr, perr := cp.parseArrayBody()
			if perr == nil {
				operands = append(operands, arr)
			}
		case parser.TokenDictStart:
			dict, perr := cp.parseDictBody()
			if perr == nil {
				operands = append(operands, dict)
			}
		case parser.TokenKeyword:
			// "R", "true"/"false"/"null" are handled above as their own
			// token types by the lexer; anything reaching here as a
			// keyword is an operator name (BT, Tj, cm, Do, ...).
			ops = append(ops, &Operator{Name: tok.Value, Operands: operands})
			operands = nil
		default:
			// Stray delimiter (e.g. an unmatched '>'); drop it and continue.
		}
	}

	return ops, nil
}

// parseArrayBody parses array elements up to the closing ']', assuming
// '[' has already been consumed by the caller's token loop.
func (cp *ContentParser) parseArrayBody() (*parser.Array, error) {
	arr := parser.NewArray()
	for {
		tok, err := cp.lexer.NextToken()
		if err != nil || tok.Type == parser.TokenEOF {
			return arr, fmt.Errorf("extractor: unterminated array in content stream")
		}
		switch tok.Type {
		case parser.TokenArrayEnd:
			return arr, nil
		case parser.TokenInteger:
			if v, perr := strconv.ParseInt(tok.Value, 10, 64); perr == nil {
				arr.Append(parser.NewInteger(v))
			}
		case parser.TokenReal:
			if v, perr := strconv.ParseFloat(tok.Value, 64); perr == nil {
				arr.Append(parser.NewReal(v))
			}
		case parser.TokenString:
			arr.Append(parser.NewString(tok.Value))
		case parser.TokenHexString:
			arr.Append(parser.NewHexString(tok.Value))
		case parser.TokenName:
			arr.Append(parser.NewName(tok.Value))
		case parser.TokenBoolean:
			arr.Append(parser.NewBoolean(tok.Value == "true"))
		case parser.TokenNull:
			arr.Append(parser.NewNull())
		case parser.TokenArrayStart:
			nested, perr := cp.parseArrayBody()
			if perr == nil {
				arr.Append(nested)
			}
		case parser.TokenDictStart:
			nested, perr := cp.parseDictBody()
			if perr == nil {
				arr.Append(nested)
			}
		}
	}
}

// parseDictBody parses key/value pairs up to the closing '>>', assuming
// '<<' has already been consumed by the caller's token loop.
func (cp *ContentParser) parseDictBody() (*parser.Dictionary, error) {
	dict := parser.NewDictionary()
	for {
		keyTok, err := cp.lexer.NextToken()
		if err != nil || keyTok.Type == parser.TokenEOF {
			return dict, fmt.Errorf("extractor: unterminated dictionary in content stream")
		}
		if keyTok.Type == parser.TokenDictEnd {
			return dict, nil
		}
		if keyTok.Type != parser.TokenName {
			continue
		}

		valTok, err := cp.lexer.NextToken()
		if err != nil || valTok.Type == parser.TokenEOF {
			return dict, fmt.Errorf("extractor: unterminated dictionary in content stream")
		}

		switch valTok.Type {
		case parser.TokenInteger:
			if v, perr := strconv.ParseInt(valTok.Value, 10, 64); perr == nil {
				dict.Set(keyTok.Value, parser.NewInteger(v))
			}
		case parser.TokenReal:
			if v, perr := strconv.ParseFloat(valTok.Value, 64); perr == nil {
				dict.Set(keyTok.Value, parser.NewReal(v))
			}
		case parser.TokenString:
			dict.Set(keyTok.Value, parser.NewString(valTok.Value))
		case parser.TokenHexString:
			dict.Set(keyTok.Value, parser.NewHexString(valTok.Value))
		case parser.TokenName:
			dict.Set(keyTok.Value, parser.NewName(valTok.Value))
		case parser.TokenBoolean:
			dict.Set(keyTok.Value, parser.NewBoolean(valTok.Value == "true"))
		case parser.TokenNull:
			dict.Set(keyTok.Value, parser.NewNull())
		case parser.TokenArrayStart:
			if nested, perr := cp.parseArrayBody(); perr == nil {
				dict.Set(keyTok.Value, nested)
			}
		case parser.TokenDictStart:
			if nested, perr := cp.parseDictBody(); perr == nil {
				dict.Set(keyTok.Value, nested)
			}
		}
	}
}
