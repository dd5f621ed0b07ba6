package envfile

import (
	"bytes"
	"strings"
)

type state int

const (
	expectingName state = iota
	expectingValue
)

var exportKeyword = []byte("export")

// doubleQuoteEscapes are applied in order to the body of a double-quoted
// segment.
var doubleQuoteEscapes = [...][2]string{
	{`\"`, `"`},
	{`\r`, "\r"},
	{`\n`, "\n"},
	{`\\`, `\`},
}

// Parser is a two-state lexer over a dotenv buffer. A Parser may be reused;
// every call to Parse starts from a clean state. It is not safe for
// concurrent use.
type Parser struct {
	path  string
	data  []byte
	pos   int
	line  int
	end   int
	state state

	value strings.Builder
	bare  []byte
}

// NewParser returns a Parser ready for use.
func NewParser() *Parser {
	return &Parser{}
}

// Parse converts data into a name → value mapping. When a name occurs more
// than once the last occurrence wins. Grammar violations are reported as
// *FormatError carrying path and the 1-based line of the failure.
func (p *Parser) Parse(data []byte, path string) (map[string]string, error) {
	p.reset(data, path)

	values := make(map[string]string)
	var name string

	p.skipEmptyLines()

	for p.pos < p.end {
		switch p.state {
		case expectingName:
			n, err := p.lexName()
			if err != nil {
				return nil, err
			}
			name = n
			p.state = expectingValue
		case expectingValue:
			v, err := p.lexValue()
			if err != nil {
				return nil, err
			}
			values[name] = v
			p.state = expectingName
		}
	}

	// NAME= as the very last bytes of the buffer.
	if p.state == expectingValue {
		values[name] = ""
	}

	return values, nil
}

func (p *Parser) reset(data []byte, path string) {
	p.path = path
	p.data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	p.pos = 0
	p.line = 1
	p.end = len(p.data)
	p.state = expectingName
	p.value.Reset()
	p.bare = p.bare[:0]
}

// lexName consumes [export<blank>+]NAME= and returns NAME.
func (p *Parser) lexName() (string, error) {
	start := p.pos
	i := p.pos
	exported := false

	if bytes.HasPrefix(p.data[i:], exportKeyword) {
		j := i + len(exportKeyword)
		k := j
		for k < p.end && isBlank(p.data[k]) {
			k++
		}
		// "export" is only a keyword when a name follows it; otherwise it is
		// lexed as a name of its own.
		if k > j && k < p.end && isLetter(p.data[k]) {
			exported = true
			i = k
		}
	}

	if i >= p.end || !isLetter(p.data[i]) {
		return "", p.fail(msgInvalidName)
	}
	nameStart := i
	for i < p.end && isNameChar(p.data[i]) {
		i++
	}
	name := string(p.data[nameStart:i])
	p.advance(i - start)

	if p.atEnd() || p.peek() == '\n' || p.peek() == '#' {
		if exported {
			return "", p.fail(msgUnset)
		}
		return "", p.fail(msgMissingEquals)
	}

	switch p.peek() {
	case ' ', '\t':
		return "", p.fail(msgSpaceAfterName)
	case '=':
		p.advance(1)
		return name, nil
	default:
		return "", p.fail(msgMissingEquals)
	}
}

// lexValue consumes everything after '=' up to the end of the statement and
// positions the cursor on the next statement.
func (p *Parser) lexValue() (string, error) {
	if n, ok := p.emptyValue(); ok {
		p.advance(n)
		p.skipEmptyLines()
		return "", nil
	}

	if isBlank(p.peek()) {
		return "", p.fail(msgSpaceBeforeValue)
	}

	p.value.Reset()

segments:
	for {
		switch p.peek() {
		case '\'':
			if err := p.lexSingleQuoted(); err != nil {
				return "", err
			}
		case '"':
			if err := p.lexDoubleQuoted(); err != nil {
				return "", err
			}
		default:
			if err := p.lexBare(); err != nil {
				return "", err
			}
			if !p.atEnd() && p.peek() == '#' {
				break segments
			}
		}

		if p.atEnd() || p.peek() == '\n' {
			break
		}
	}

	p.skipEmptyLines()
	return p.value.String(), nil
}

// emptyValue reports whether the rest of the current line holds only blanks
// and an optional comment, returning the length of that run.
func (p *Parser) emptyValue() (int, bool) {
	i := p.pos
	for i < p.end && isBlank(p.data[i]) {
		i++
	}
	if i < p.end && p.data[i] == '#' {
		if nl := bytes.IndexByte(p.data[i:], '\n'); nl >= 0 {
			i += nl
		} else {
			i = p.end
		}
	}
	if i == p.end || p.data[i] == '\n' {
		return i - p.pos, true
	}
	return 0, false
}

func (p *Parser) lexSingleQuoted() error {
	line := p.line
	body := p.pos + 1
	n := bytes.IndexByte(p.data[body:], '\'')
	if n < 0 {
		p.advance(p.end - p.pos)
		return &FormatError{Message: msgMissingQuote, Path: p.path, Line: line}
	}
	p.value.Write(p.data[body : body+n])
	p.advance(n + 2)
	return nil
}

func (p *Parser) lexDoubleQuoted() error {
	line := p.line
	body := p.pos + 1
	i := body
	for ; i < p.end; i++ {
		if p.data[i] == '"' && !oddBackslashes(p.data[body:i]) {
			break
		}
	}
	if i >= p.end {
		p.advance(p.end - p.pos)
		return &FormatError{Message: msgMissingQuote, Path: p.path, Line: line}
	}

	s := string(p.data[body:i])
	for _, e := range doubleQuoteEscapes {
		s = strings.ReplaceAll(s, e[0], e[1])
	}
	p.value.WriteString(s)
	p.advance(i + 1 - p.pos)
	return nil
}

// lexBare consumes an unquoted run. It stops before a newline, a quote, or a
// '#' that follows a blank.
func (p *Parser) lexBare() error {
	var prev byte
	if p.pos > 0 {
		prev = p.data[p.pos-1]
	}

	p.bare = p.bare[:0]
	for !p.atEnd() {
		c := p.peek()
		if c == '\n' || c == '"' || c == '\'' || (isBlank(prev) && c == '#') {
			break
		}
		if c == '\\' && p.pos+1 < p.end && isQuote(p.data[p.pos+1]) {
			p.advance(1)
			c = p.peek()
		}
		prev = c
		p.bare = append(p.bare, c)
		p.advance(1)
	}

	s := strings.ReplaceAll(string(bytes.TrimRight(p.bare, " \t")), `\\`, `\`)
	if strings.ContainsAny(s, " \t") {
		return p.fail(msgUnquotedWhitespace)
	}
	p.value.WriteString(s)
	return nil
}

// skipEmptyLines consumes whitespace, newlines and whole comments.
func (p *Parser) skipEmptyLines() {
	for !p.atEnd() {
		c := p.peek()
		switch {
		case isSpace(c):
			p.advance(1)
		case c == '#':
			n := bytes.IndexByte(p.data[p.pos:], '\n')
			if n < 0 {
				n = p.end - p.pos
			}
			p.advance(n)
		default:
			return
		}
	}
}

func (p *Parser) atEnd() bool {
	return p.pos >= p.end
}

func (p *Parser) peek() byte {
	if p.pos >= p.end {
		return 0
	}
	return p.data[p.pos]
}

// advance moves the cursor n bytes forward, counting consumed newlines.
func (p *Parser) advance(n int) {
	p.line += bytes.Count(p.data[p.pos:p.pos+n], []byte{'\n'})
	p.pos += n
}

func (p *Parser) fail(msg string) error {
	return &FormatError{Message: msg, Path: p.path, Line: p.line}
}

func oddBackslashes(b []byte) bool {
	n := 0
	for i := len(b) - 1; i >= 0 && b[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isLetter(c) || ('0' <= c && c <= '9') || c == '_'
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t'
}

func isQuote(c byte) bool {
	return c == '"' || c == '\''
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
