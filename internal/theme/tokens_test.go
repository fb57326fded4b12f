package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type mapWriter map[string]string

func (m mapWriter) SetToken(name, value string) { m[name] = value }

func TestDeriveTokens(t *testing.T) {
	assert.Equal(t, Tokens{Primary: "0 0% 100%", PrimaryForeground: Black}, DeriveTokens("0 0% 100%"))
	assert.Equal(t, Tokens{Primary: "226 71% 40%", PrimaryForeground: White}, DeriveTokens("226 71% 40%"))
	assert.Equal(t, White, DeriveTokens("garbage").PrimaryForeground)
}

func TestApply(t *testing.T) {
	w := mapWriter{}
	Apply(w, DeriveTokens("60 100% 50%"))
	assert.Equal(t, mapWriter{
		TokenPrimary:           "60 100% 50%",
		TokenPrimaryForeground: Black,
	}, w)

	empty := mapWriter{}
	Apply(empty, Tokens{})
	assert.Empty(t, empty)
}

func TestCSSBlock(t *testing.T) {
	var css CSSBlock
	Apply(&css, Tokens{Primary: "1 2% 3%", PrimaryForeground: White})
	css.SetToken(TokenPrimary, "4 5% 6%")

	assert.Equal(t, ":root {\n  --primary: 4 5% 6%;\n  --primary-foreground: 0 0% 100%;\n}", css.String())
}
