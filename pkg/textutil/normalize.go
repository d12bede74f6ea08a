package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// removeDiacritics descompone (NFD), elimina las marcas combinantes y recompone (NFC).
var removeDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize prepara un término de búsqueda: minúsculas, sin tildes, sin espacios
// sobrantes. "Paracetamól " y "PARACETAMOL" normalizan igual, para que la
// búsqueda de medicamentos sea insensible a acentos y mayúsculas.
func Normalize(s string) string {
	out, _, err := transform.String(removeDiacritics, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}
