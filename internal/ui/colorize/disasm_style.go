package colorize

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

// DarkThemeName is the name the bundled chroma style is registered under.
const DarkThemeName = "x86color-dark"

// DisasmDark is a chroma style tuned for the token types the themes map to.
var DisasmDark = styles.Register(chroma.MustNewStyle(DarkThemeName, chroma.StyleEntries{
	chroma.Text:       "#6A9955",
	chroma.Background: "bg:#1e1e1e",

	chroma.Keyword:         "bold #F44747", // mnemonics
	chroma.KeywordReserved: "#F44747",      // prefixes
	chroma.KeywordType:     "#EACD53",      // size keywords
	chroma.KeywordPseudo:   "#EACD53",      // directives

	chroma.NameVariable: "#7C9C9D", // registers
	chroma.NameLabel:    "#FFD700",
	chroma.NameFunction: "bold #FFD700",

	chroma.LiteralNumberHex: "#FF5F87",

	chroma.Operator:    "#C586C0",
	chroma.Punctuation: "#FFFFFF",
}))
