package colorize

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
)

// ListingDark is a custom style for bytecode and IR listings
var ListingDark = styles.Register(chroma.MustNewStyle("asmview-dark", chroma.StyleEntries{
	chroma.Text:           "#FFFFFF",
	chroma.Background:     "bg:#1e1e1e",
	chroma.Comment:        "#6A9955",
	chroma.CommentPreproc: "#6A9955",

	chroma.Keyword:       "#569CD6", // IR keywords (fn, entry, script)
	chroma.KeywordPseudo: "#FFFFFF",
	chroma.KeywordType:   "#4EC9B0",
	chroma.Name:          "#7C9C9D", // registers in teal
	chroma.NameBuiltin:   "#7C9C9D",
	chroma.NameVariable:  "#9CDCFE",

	chroma.LiteralNumber:        "#FF5F87",
	chroma.LiteralNumberHex:     "#FF5F87",
	chroma.LiteralNumberBin:     "#FF5F87",
	chroma.LiteralNumberOct:     "#FF5F87",
	chroma.LiteralNumberInteger: "#FF5F87",
	chroma.LiteralNumberFloat:   "#FF5F87",

	chroma.NameLabel:    "#FFD700",
	chroma.NameFunction: "#FFFFFF", // opcodes are tokenized as functions

	chroma.Operator:    "#FFFFFF",
	chroma.Punctuation: "#FFFFFF",

	chroma.String: "#EACD53",
}))
