package graph

import (
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

type valueKind int

const (
	kindNull valueKind = iota
	kindBool
	kindNumber
	kindString
	kindList
	kindMap
)

// value is a node of the parsed document tree.
type value struct {
	kind    valueKind
	boolean bool
	num     float64
	str     string
	list    []value
	members []member
}

type member struct {
	key string
	val value
}

// scanner reads the tolerant dictionary syntax:
//
//   - strict JSON values, literals and numbers
//   - ' and " both delimit strings, either one closes
//   - bare integer object keys
//   - ( and [ both open a list, ) and ] both close one
type scanner struct {
	src string
	pos int
}

func scan(src string) (value, error) {
	s := &scanner{src: src}
	v, err := s.value()
	if err != nil {
		return value{}, err
	}
	s.skipSpace()
	if s.pos < len(s.src) {
		return value{}, s.errorf("unexpected %s after document", s.describe())
	}
	return v, nil
}

func (s *scanner) errorf(format string, args ...any) *ParseError {
	return newParseError(s.src, s.pos, format, args...)
}

func (s *scanner) describe() string {
	if s.pos >= len(s.src) {
		return "end of input"
	}
	r, _ := utf8.DecodeRuneInString(s.src[s.pos:])
	return strconv.QuoteRune(r)
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case ' ', '\t', '\n', '\r':
			s.pos++
		default:
			return
		}
	}
}

func (s *scanner) peek() byte {
	if s.pos >= len(s.src) {
		return 0
	}
	return s.src[s.pos]
}

func (s *scanner) value() (value, error) {
	s.skipSpace()
	switch c := s.peek(); {
	case s.pos >= len(s.src):
		return value{}, s.errorf("unexpected end of input")
	case c == '{':
		return s.object()
	case c == '[' || c == '(':
		return s.array()
	case c == '"' || c == '\'':
		str, err := s.quoted()
		return value{kind: kindString, str: str}, err
	case c == '-' || isDigit(c):
		return s.number()
	case c == 't':
		return s.literal("true", value{kind: kindBool, boolean: true})
	case c == 'f':
		return s.literal("false", value{kind: kindBool})
	case c == 'n':
		return s.literal("null", value{kind: kindNull})
	default:
		return value{}, s.errorf("unexpected %s", s.describe())
	}
}

func (s *scanner) literal(word string, v value) (value, error) {
	if !strings.HasPrefix(s.src[s.pos:], word) {
		return value{}, s.errorf("invalid literal, expected %q", word)
	}
	s.pos += len(word)
	return v, nil
}

func (s *scanner) object() (value, error) {
	s.pos++ // {
	v := value{kind: kindMap}
	index := make(map[string]int)

	s.skipSpace()
	if s.peek() == '}' {
		s.pos++
		return v, nil
	}

	for {
		s.skipSpace()
		key, err := s.key()
		if err != nil {
			return value{}, err
		}
		s.skipSpace()
		if s.peek() != ':' {
			return value{}, s.errorf("expected ':' after object key, found %s", s.describe())
		}
		s.pos++

		val, err := s.value()
		if err != nil {
			return value{}, err
		}
		// A repeated key keeps its first position and takes the later value.
		if i, ok := index[key]; ok {
			v.members[i].val = val
		} else {
			index[key] = len(v.members)
			v.members = append(v.members, member{key: key, val: val})
		}

		s.skipSpace()
		switch s.peek() {
		case ',':
			s.pos++
		case '}':
			s.pos++
			return v, nil
		default:
			return value{}, s.errorf("expected ',' or '}' in object, found %s", s.describe())
		}
	}
}

func (s *scanner) key() (string, error) {
	c := s.peek()
	if c == '"' || c == '\'' {
		return s.quoted()
	}
	if !isDigit(c) {
		return "", s.errorf("expected object key, found %s", s.describe())
	}
	start := s.pos
	for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
		s.pos++
	}
	key := s.src[start:s.pos]
	// Only a bare run of digits followed by ':' is a key; 1.5 or 1e3 is not.
	rest := s.pos
	s.skipSpace()
	if s.peek() != ':' {
		s.pos = rest
		return "", s.errorf("bare object key %q must be an integer followed by ':'", key)
	}
	return key, nil
}

func (s *scanner) array() (value, error) {
	s.pos++ // [ or (
	v := value{kind: kindList, list: []value{}}

	s.skipSpace()
	if c := s.peek(); c == ']' || c == ')' {
		s.pos++
		return v, nil
	}

	for {
		item, err := s.value()
		if err != nil {
			return value{}, err
		}
		v.list = append(v.list, item)

		s.skipSpace()
		switch s.peek() {
		case ',':
			s.pos++
		case ']', ')':
			s.pos++
			return v, nil
		default:
			return value{}, s.errorf("expected ',' or closing bracket in list, found %s", s.describe())
		}
	}
}

func (s *scanner) quoted() (string, error) {
	start := s.pos
	s.pos++ // opening quote
	var b strings.Builder

	for {
		if s.pos >= len(s.src) {
			s.pos = start
			return "", s.errorf("unterminated string")
		}
		c := s.src[s.pos]
		switch {
		case c == '"' || c == '\'':
			s.pos++
			return b.String(), nil
		case c == '\\':
			if err := s.escape(&b); err != nil {
				return "", err
			}
		case c < 0x20:
			return "", s.errorf("control character in string")
		default:
			r, size := utf8.DecodeRuneInString(s.src[s.pos:])
			b.WriteRune(r)
			s.pos += size
		}
	}
}

func (s *scanner) escape(b *strings.Builder) error {
	s.pos++ // backslash
	if s.pos >= len(s.src) {
		return s.errorf("unterminated escape sequence")
	}
	c := s.src[s.pos]
	s.pos++
	switch c {
	case '"', '\'':
		b.WriteByte('"')
	case '\\':
		b.WriteByte('\\')
	case '/':
		b.WriteByte('/')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'n':
		b.WriteByte('\n')
	case 'r':
		b.WriteByte('\r')
	case 't':
		b.WriteByte('\t')
	case 'u':
		r, err := s.hex4()
		if err != nil {
			return err
		}
		if utf16.IsSurrogate(r) && strings.HasPrefix(s.src[s.pos:], `\u`) {
			save := s.pos
			s.pos += 2
			r2, err := s.hex4()
			if err == nil {
				if pair := utf16.DecodeRune(r, r2); pair != utf8.RuneError {
					b.WriteRune(pair)
					return nil
				}
			}
			s.pos = save
		}
		b.WriteRune(r)
	default:
		s.pos -= 2
		return s.errorf("invalid escape sequence")
	}
	return nil
}

func (s *scanner) hex4() (rune, error) {
	if s.pos+4 > len(s.src) {
		return 0, s.errorf("truncated \\u escape")
	}
	n, err := strconv.ParseUint(s.src[s.pos:s.pos+4], 16, 32)
	if err != nil {
		return 0, s.errorf("invalid \\u escape")
	}
	s.pos += 4
	return rune(n), nil
}

func (s *scanner) number() (value, error) {
	start := s.pos
	if s.peek() == '-' {
		s.pos++
	}
	switch {
	case s.peek() == '0':
		s.pos++
	case isDigit(s.peek()):
		s.digits()
	default:
		return value{}, s.errorf("invalid number")
	}
	if s.peek() == '.' {
		s.pos++
		if !isDigit(s.peek()) {
			return value{}, s.errorf("expected digit after decimal point")
		}
		s.digits()
	}
	if c := s.peek(); c == 'e' || c == 'E' {
		s.pos++
		if c := s.peek(); c == '+' || c == '-' {
			s.pos++
		}
		if !isDigit(s.peek()) {
			return value{}, s.errorf("expected digit in exponent")
		}
		s.digits()
	}

	// Out-of-range literals saturate to ±Inf, matching float64 decoding elsewhere.
	f, err := strconv.ParseFloat(s.src[start:s.pos], 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); !ok || ne.Err != strconv.ErrRange {
			s.pos = start
			return value{}, s.errorf("invalid number")
		}
	}
	return value{kind: kindNumber, num: f}, nil
}

func (s *scanner) digits() {
	for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
		s.pos++
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
