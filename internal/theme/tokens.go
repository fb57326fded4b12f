package theme

import (
	"fmt"
	"strings"
)

// Token names written by Apply.
const (
	TokenPrimary           = "--primary"
	TokenPrimaryForeground = "--primary-foreground"
)

// Foreground colors chosen by DeriveTokens.
const (
	Black = "0 0% 0%"
	White = "0 0% 100%"
)

// Tokens is the resolved set of theme values for one brand.
type Tokens struct {
	Primary           string
	PrimaryForeground string
}

// DeriveTokens pairs a primary HSL color with a readable foreground.
func DeriveTokens(primary string) Tokens {
	fg := White
	if ShouldUseBlackText(primary) {
		fg = Black
	}
	return Tokens{Primary: primary, PrimaryForeground: fg}
}

// TokenWriter receives theme tokens. Implementations own the side effect
// (a stylesheet, a rendered message, a test map).
type TokenWriter interface {
	SetToken(name, value string)
}

// Apply writes tokens to w. Empty values are skipped.
func Apply(w TokenWriter, t Tokens) {
	if t.Primary != "" {
		w.SetToken(TokenPrimary, t.Primary)
	}
	if t.PrimaryForeground != "" {
		w.SetToken(TokenPrimaryForeground, t.PrimaryForeground)
	}
}

// CSSBlock collects tokens and renders them as a :root rule.
type CSSBlock struct {
	names  []string
	values map[string]string
}

// SetToken implements TokenWriter. Setting a name twice keeps its first position.
func (c *CSSBlock) SetToken(name, value string) {
	if c.values == nil {
		c.values = make(map[string]string)
	}
	if _, ok := c.values[name]; !ok {
		c.names = append(c.names, name)
	}
	c.values[name] = value
}

// String renders the collected tokens.
func (c *CSSBlock) String() string {
	var sb strings.Builder
	sb.WriteString(":root {\n")
	for _, n := range c.names {
		fmt.Fprintf(&sb, "  %s: %s;\n", n, c.values[n])
	}
	sb.WriteString("}")
	return sb.String()
}
