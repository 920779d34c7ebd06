package validation

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	apperrors "github.com/arafalov/uncorpora/core/errors"
)

// CodeList is a comma-separated list of codes such as "EN, fr,RU".
type CodeList struct {
	Codes []string `parser:"@Code ( \",\" @Code )*"`
}

// codeLexer tokenizes code lists. Whitespace around codes is insignificant.
var codeLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Code", Pattern: `[A-Za-z0-9]+`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// codeParser is the Participle parser for code lists.
var codeParser = participle.MustBuild[CodeList](
	participle.Lexer(codeLexer),
	participle.Elide("Whitespace"),
)

// ParseCodes parses a code list given for flag into upper-case codes in
// their original order, dropping repeats. Membership is not checked here;
// see ValidateOptions.
func ParseCodes(flag, input string) ([]string, error) {
	if strings.TrimSpace(input) == "" {
		return nil, apperrors.NewValidation(flag, "at least one code is required")
	}

	list, err := codeParser.ParseString(flag, input)
	if err != nil {
		return nil, apperrors.NewParse("code list", flag, err.Error())
	}

	seen := make(map[string]bool, len(list.Codes))
	codes := make([]string, 0, len(list.Codes))
	for _, c := range list.Codes {
		c = strings.ToUpper(c)
		if seen[c] {
			continue
		}
		seen[c] = true
		codes = append(codes, c)
	}
	return codes, nil
}
