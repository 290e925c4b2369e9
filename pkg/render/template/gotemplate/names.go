package gotemplate

import (
	"sort"
	"strings"
)

// templateNames is what a template reads from and adds to the render context.
// Names only tested by if-style tags or piped straight into default are not
// recorded as used: an undefined value is false there, or replaced.
type templateNames struct {
	used     []string
	defined  map[string]struct{}
	siblings []string
}

type nameToken struct {
	kind  tokenKind
	value string
}

type tokenKind int

const (
	tokenIdent tokenKind = iota
	tokenString
	tokenNumber
	tokenSymbol
)

var (
	keywords = map[string]struct{}{
		"in": {}, "and": {}, "or": {}, "not": {}, "true": {}, "false": {},
		"as": {}, "export": {}, "nil": {}, "none": {}, "None": {}, "True": {}, "False": {},
	}
	contextNames = map[string]struct{}{
		"forloop": {},
		"pongo2":  {},
	}
	conditionTags = map[string]struct{}{
		"if": {}, "elif": {}, "ifchanged": {}, "ifequal": {}, "ifnotequal": {}, "firstof": {},
	}
	expressionTags = map[string]struct{}{
		"set": {}, "with": {}, "cycle": {}, "widthratio": {}, "include": {}, "for": {},
	}
	twoCharSymbols = []string{"==", ">=", "<=", "&&", "||", "!=", "<>"}
)

// scanNames walks the tags and variables of a parsed template source.
func scanNames(src string) templateNames {
	names := templateNames{defined: make(map[string]struct{})}
	seen := make(map[string]struct{})
	use := func(name string) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		names.used = append(names.used, name)
	}

	inComment := false
scan:
	for pos := 0; pos < len(src); {
		rest := src[pos:]
		switch {
		case strings.HasPrefix(rest, "{% verbatim %}"):
			end := strings.Index(rest, "{% endverbatim")
			if end < 0 {
				break scan
			}
			pos += end + len("{% endverbatim")
		case strings.HasPrefix(rest, "{#"):
			end := strings.Index(rest, "#}")
			if end < 0 {
				break scan
			}
			pos += end + 2
		case strings.HasPrefix(rest, "{{"), strings.HasPrefix(rest, "{%"):
			isTag := rest[1] == '%'
			toks, n := tokenizeBlock(rest[2:])
			pos += 2 + n
			if !isTag {
				if !inComment {
					collectNames(toks, false, nil, &names, use)
				}
				continue
			}
			if len(toks) == 0 || toks[0].kind != tokenIdent {
				continue
			}
			tag := toks[0].value
			if inComment {
				inComment = tag != "endcomment"
				continue
			}
			scanTag(tag, toks[1:], &names, use, &inComment)
		default:
			pos++
		}
	}

	var used []string
	for _, name := range names.used {
		if _, ok := names.defined[name]; !ok {
			used = append(used, name)
		}
	}
	names.used = used
	return names
}

func scanTag(tag string, args []nameToken, names *templateNames, use func(string), inComment *bool) {
	switch tag {
	case "comment":
		*inComment = true
		return
	case "block", "endblock":
		return
	case "extends", "import":
		if len(args) > 0 && args[0].kind == tokenString {
			names.siblings = append(names.siblings, args[0].value)
		}
		defineAll(args, names)
		return
	}

	if _, ok := conditionTags[tag]; ok {
		collectNames(args, true, nil, names, use)
		return
	}
	if _, ok := expressionTags[tag]; !ok {
		// macro, filter and custom tags only introduce names
		defineAll(args, names)
		return
	}

	switch tag {
	case "for":
		in := len(args)
		for i, tok := range args {
			if tok.kind == tokenIdent && tok.value == "in" {
				in = i
				break
			}
		}
		defineAll(args[:in], names)
		if in < len(args) {
			collectNames(args[in+1:], false, []string{"sorted", "reversed"}, names, use)
		}
	case "include":
		if len(args) > 0 && args[0].kind == tokenString {
			names.siblings = append(names.siblings, args[0].value)
		}
		collectNames(args, false, []string{"with", "only", "if_exists"}, names, use)
	case "set":
		if len(args) > 0 && args[0].kind == tokenIdent {
			names.defined[args[0].value] = struct{}{}
		}
		collectNames(args, false, nil, names, use)
	default:
		collectNames(args, false, []string{"silent"}, names, use)
	}
}

func collectNames(toks []nameToken, lenient bool, skip []string, names *templateNames, use func(string)) {
	for i, tok := range toks {
		if tok.kind != tokenIdent {
			continue
		}
		if _, ok := keywords[tok.value]; ok {
			continue
		}
		if i > 0 && toks[i-1].kind == tokenSymbol && (toks[i-1].value == "." || toks[i-1].value == "|") {
			continue
		}
		if i > 0 && toks[i-1].kind == tokenIdent && toks[i-1].value == "as" {
			names.defined[tok.value] = struct{}{}
			continue
		}
		if i+1 < len(toks) && toks[i+1].kind == tokenSymbol && toks[i+1].value == "=" {
			names.defined[tok.value] = struct{}{}
			continue
		}
		if lenient || defaulted(toks[i+1:]) || contains(skip, tok.value) {
			continue
		}
		use(tok.value)
	}
}

// defaulted reports whether the tokens following a name pipe it into default.
func defaulted(after []nameToken) bool {
	i := 0
	for i+1 < len(after) && after[i].kind == tokenSymbol && after[i].value == "." && after[i+1].kind == tokenIdent {
		i += 2
	}
	if i+1 >= len(after) || after[i].value != "|" {
		return false
	}
	filter := after[i+1].value
	return filter == "default" || filter == "default_if_none"
}

func defineAll(toks []nameToken, names *templateNames) {
	for _, tok := range toks {
		if tok.kind == tokenIdent {
			names.defined[tok.value] = struct{}{}
		}
	}
}

// tokenizeBlock splits the body of a tag or variable up to its closing
// delimiter and reports how many bytes it consumed.
func tokenizeBlock(body string) ([]nameToken, int) {
	var toks []nameToken
	i := 0
	if strings.HasPrefix(body, "-") {
		i++
	}
	for i < len(body) {
		c := body[i]
		rest := body[i:]
		switch {
		case strings.HasPrefix(rest, "}}"), strings.HasPrefix(rest, "%}"):
			return toks, i + 2
		case strings.HasPrefix(rest, "-}}"), strings.HasPrefix(rest, "-%}"):
			return toks, i + 3
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			i++
		case isIdentStart(c) || isDigit(c):
			start := i
			for i < len(body) && (isIdentStart(body[i]) || isDigit(body[i])) {
				i++
			}
			kind := tokenIdent
			if isDigit(c) && strings.IndexFunc(body[start:i], func(r rune) bool { return r < '0' || r > '9' }) < 0 {
				kind = tokenNumber
			}
			toks = append(toks, nameToken{kind: kind, value: body[start:i]})
		case c == '"' || c == '\'':
			var sb strings.Builder
			i++
			for i < len(body) && body[i] != c {
				if body[i] == '\\' && i+1 < len(body) {
					i++
				}
				sb.WriteByte(body[i])
				i++
			}
			i++
			toks = append(toks, nameToken{kind: tokenString, value: sb.String()})
		default:
			sym := rest[:1]
			for _, two := range twoCharSymbols {
				if strings.HasPrefix(rest, two) {
					sym = two
					break
				}
			}
			toks = append(toks, nameToken{kind: tokenSymbol, value: sym})
			i += len(sym)
		}
	}
	return toks, len(body)
}

// unboundNames follows include, extends and import references from root and
// returns the names read but neither bound nor defined by the templates,
// sorted.
func unboundNames(root templateNames, lookup map[string]templateNames, bound map[string]any) []string {
	defined := make(map[string]struct{})
	var used []string

	visited := make(map[string]struct{})
	queue := []templateNames{root}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		used = append(used, current.used...)
		for name := range current.defined {
			defined[name] = struct{}{}
		}
		for _, sibling := range current.siblings {
			if _, ok := visited[sibling]; ok {
				continue
			}
			visited[sibling] = struct{}{}
			if next, ok := lookup[sibling]; ok {
				queue = append(queue, next)
			}
		}
	}

	missing := make(map[string]struct{})
	for _, name := range used {
		if _, ok := bound[name]; ok {
			continue
		}
		if _, ok := defined[name]; ok {
			continue
		}
		if _, ok := contextNames[name]; ok {
			continue
		}
		missing[name] = struct{}{}
	}

	out := make([]string, 0, len(missing))
	for name := range missing {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
