package render

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Naming is the convention used for generated variable names.
type Naming int

const (
	NamingCamel Naming = iota
	NamingPascal
	NamingSnake
)

func (n Naming) String() string {
	switch n {
	case NamingPascal:
		return "pascal"
	case NamingSnake:
		return "snake"
	default:
		return "camel"
	}
}

// ParseNaming parses "camel", "pascal" or "snake". Empty means camel.
func ParseNaming(s string) (Naming, error) {
	switch strings.ToLower(s) {
	case "", "camel":
		return NamingCamel, nil
	case "pascal":
		return NamingPascal, nil
	case "snake":
		return NamingSnake, nil
	default:
		return NamingCamel, fmt.Errorf("unknown naming convention %q (want camel, pascal or snake)", s)
	}
}

var csharpKeywords = map[string]bool{
	"base": true, "bool": true, "break": true, "case": true, "class": true, "default": true,
	"do": true, "double": true, "else": true, "event": true, "false": true, "float": true,
	"for": true, "foreach": true, "if": true, "in": true, "int": true, "is": true, "new": true,
	"null": true, "object": true, "out": true, "params": true, "private": true, "public": true,
	"ref": true, "return": true, "string": true, "switch": true, "this": true, "true": true,
	"var": true, "void": true, "while": true,
}

// words splits a node name into identifier words on separators and case changes.
func words(s string) []string {
	var out []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			out = append(out, string(cur))
			cur = cur[:0]
		}
	}
	runes := []rune(s)
	for i, r := range runes {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if unicode.IsUpper(r) && len(cur) > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					flush()
				}
			}
			cur = append(cur, r)
		default:
			flush()
		}
	}
	flush()
	return out
}

// Identifier converts a node name to a variable name. fallback is used when
// the name has no identifier characters.
func (n Naming) Identifier(name, fallback string) string {
	ws := words(name)
	if len(ws) == 0 {
		ws = words(fallback)
	}
	if len(ws) == 0 {
		ws = []string{"view"}
	}

	var id string
	switch n {
	case NamingSnake:
		lower := make([]string, len(ws))
		for i, w := range ws {
			lower[i] = strings.ToLower(w)
		}
		id = strings.Join(lower, "_")
	default:
		var b strings.Builder
		for i, w := range ws {
			lw := strings.ToLower(w)
			if i == 0 && n == NamingCamel {
				b.WriteString(lw)
				continue
			}
			r := []rune(lw)
			b.WriteRune(unicode.ToUpper(r[0]))
			b.WriteString(string(r[1:]))
		}
		id = b.String()
	}

	if unicode.IsDigit([]rune(id)[0]) {
		id = "_" + id
	}
	return id
}

// namer assigns one unique variable name per node for a render pass.
type namer struct {
	naming Naming
	byNode map[string]string
	used   map[string]bool
}

func newNamer(naming Naming) *namer {
	return &namer{naming: naming, byNode: make(map[string]string), used: make(map[string]bool)}
}

// reserve marks name as taken, e.g. the caller's parent variable.
func (nm *namer) reserve(name string) {
	if name != "" {
		nm.used[name] = true
	}
}

// assign fixes name for a node. Used for the root when the caller picks its name.
func (nm *namer) assign(nodeID, name string) {
	nm.byNode[nodeID] = name
	nm.used[name] = true
}

// name returns the node's variable, deriving and deduplicating it on first use.
func (nm *namer) name(nodeID, nodeName, fallback string) string {
	if v, ok := nm.byNode[nodeID]; ok {
		return v
	}
	base := nm.naming.Identifier(nodeName, fallback)
	if csharpKeywords[base] {
		base = "@" + base
	}
	v := base
	for i := 1; nm.used[v]; i++ {
		sep := ""
		if nm.naming == NamingSnake {
			sep = "_"
		}
		v = base + sep + strconv.Itoa(i)
	}
	nm.byNode[nodeID] = v
	nm.used[v] = true
	return v
}
