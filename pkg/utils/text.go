package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// RemoveAccents decompõe o texto (NFD), descarta as marcas de
// combinação e devolve tudo em maiúsculas: "São Paulo" -> "SAO PAULO".
func RemoveAccents(text string) string {
	decomposed := norm.NFD.String(strings.ToUpper(text))

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}
