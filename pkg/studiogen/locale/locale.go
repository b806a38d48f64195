package locale

// Code is a supported content language.
type Code string

// Supported language codes (typed).
const (
	RO Code = "ro"
	EN Code = "en"
	PL Code = "pl"
	HU Code = "hu"
	CS Code = "cs"
)

// All returns the fixed supported-language set in canonical order.
func All() []Code {
	return []Code{RO, EN, PL, HU, CS}
}

// Valid reports whether c is one of the supported language codes.
func Valid(c Code) bool {
	switch c {
	case RO, EN, PL, HU, CS:
		return true
	}
	return false
}

// String holds an optional translation per supported language. A nil field
// means "not yet translated", which is distinct from an empty string.
type String struct {
	RO *string `json:"ro,omitempty"`
	EN *string `json:"en,omitempty"`
	PL *string `json:"pl,omitempty"`
	HU *string `json:"hu,omitempty"`
	CS *string `json:"cs,omitempty"`
}

// Get returns the translation for code, if present.
func (s *String) Get(code Code) (string, bool) {
	p := s.field(code)
	if p == nil || *p == nil {
		return "", false
	}
	return **p, true
}

// Set stores the translation for code. Unsupported codes are ignored.
func (s *String) Set(code Code, value string) {
	p := s.field(code)
	if p == nil {
		return
	}
	v := value
	*p = &v
}

// Codes returns the languages that have a translation, in canonical order.
func (s *String) Codes() []Code {
	var codes []Code
	for _, c := range All() {
		if _, ok := s.Get(c); ok {
			codes = append(codes, c)
		}
	}
	return codes
}

// First returns the first available translation following the preference
// order, then canonical order for any codes not listed.
func (s *String) First(preferred ...Code) (string, bool) {
	for _, c := range preferred {
		if v, ok := s.Get(c); ok {
			return v, true
		}
	}
	for _, c := range All() {
		if v, ok := s.Get(c); ok {
			return v, true
		}
	}
	return "", false
}

// IsEmpty reports whether no language has a translation.
func (s *String) IsEmpty() bool {
	return len(s.Codes()) == 0
}

func (s *String) field(code Code) **string {
	switch code {
	case RO:
		return &s.RO
	case EN:
		return &s.EN
	case PL:
		return &s.PL
	case HU:
		return &s.HU
	case CS:
		return &s.CS
	}
	return nil
}

// Text is a multi-line localized value. It shares the shape of String; the
// distinction mirrors the studio's string vs. text field types.
type Text = String
