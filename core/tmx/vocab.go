package tmx

// Element names.
const (
	ElemUnit     = "tu"
	ElemVariant  = "tuv"
	ElemProperty = "prop"
	ElemSegment  = "seg"
	ElemFootnote = "sub"
	ElemMarker   = "hi"
)

// Attribute names.
const (
	AttrXMLLang = "xml:lang"
	// AttrLang is the TMX 1.1 spelling of the variant language.
	AttrLang = "lang"
	AttrType = "type"
	AttrTUID = "tuid"
)

// Attribute values.
const (
	TypeVote     = "vote"
	TypeFootnote = "fnote"
	TypeSymbol   = "symbol"
)

// Languages is the enumerated set of language codes a corpus carries.
var Languages = []string{"AR", "EN", "ES", "FR", "RU", "ZH"}

// Sessions is the enumerated set of session identifiers.
var Sessions = []string{"55", "56", "57", "58", "59", "60", "61", "62"}

// IsLanguage reports whether code is one of Languages.
func IsLanguage(code string) bool {
	return contains(Languages, code)
}

// IsSession reports whether id is one of Sessions.
func IsSession(id string) bool {
	return contains(Sessions, id)
}

// Lang returns the language of a variant start tag, preferring xml:lang
// over the legacy lang attribute.
func (e Event) Lang() (string, bool) {
	if v, ok := e.Attr(AttrXMLLang); ok {
		return v, true
	}
	return e.Attr(AttrLang)
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
