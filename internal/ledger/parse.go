package ledger

import (
	"fmt"
	"strings"
)

// record is the parsed form of one ledger line:
//
//	<name>: <title>,<domain>,<number>  <start> (<count>)
//
// Field order and punctuation are load-bearing; exact spacing is not.
type record struct {
	name                  string
	title, domain, number int
	start, count          int64
}

// parseLine is a deliberate hand-written scanner. The grammar is small and
// stable, and an explicit parser reports exactly which field failed
// instead of a bare "no match".
func parseLine(line string) (record, error) {
	var rec record
	p := parser{input: line}

	name, ok := p.until(':')
	if !ok || strings.TrimSpace(name) == "" {
		return rec, fmt.Errorf("missing name field")
	}
	rec.name = strings.TrimSpace(name)

	p.spaces()
	var err error
	if rec.title, err = p.intField("title"); err != nil {
		return rec, err
	}
	if !p.literal(',') {
		return rec, fmt.Errorf("expected comma after title")
	}
	if rec.domain, err = p.intField("domain"); err != nil {
		return rec, err
	}
	if !p.literal(',') {
		return rec, fmt.Errorf("expected comma after domain")
	}
	if rec.number, err = p.intField("number"); err != nil {
		return rec, err
	}

	p.spaces()
	start, err := p.intField("start")
	if err != nil {
		return rec, err
	}
	rec.start = int64(start)

	p.spaces()
	if !p.literal('(') {
		return rec, fmt.Errorf("expected parenthesized count")
	}
	count, err := p.intField("count")
	if err != nil {
		return rec, err
	}
	rec.count = int64(count)
	if !p.literal(')') {
		return rec, fmt.Errorf("unterminated count")
	}
	return rec, nil
}

type parser struct {
	input string
	pos   int
}

func (p *parser) until(delim byte) (string, bool) {
	idx := strings.IndexByte(p.input[p.pos:], delim)
	if idx < 0 {
		return "", false
	}
	out := p.input[p.pos : p.pos+idx]
	p.pos += idx + 1
	return out, true
}

func (p *parser) spaces() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}

func (p *parser) literal(c byte) bool {
	if p.pos < len(p.input) && p.input[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) intField(field string) (int, error) {
	start := p.pos
	value := 0
	for p.pos < len(p.input) && p.input[p.pos] >= '0' && p.input[p.pos] <= '9' {
		value = value*10 + int(p.input[p.pos]-'0')
		p.pos++
	}
	if p.pos == start {
		return 0, fmt.Errorf("missing %s field", field)
	}
	return value, nil
}
