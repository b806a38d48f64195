package richtext

import "github.com/caravanpress/studio/pkg/studiogen/locale"

// BlockType is the domain type for rich-text block kinds.
type BlockType string

// Block type constants (typed).
const (
	BlockParagraph        BlockType = "paragraph"
	BlockHeading1         BlockType = "heading1"
	BlockHeading2         BlockType = "heading2"
	BlockHeading3         BlockType = "heading3"
	BlockQuote            BlockType = "quote"
	BlockImagePlaceholder BlockType = "imagePlaceholder"
)

// Mark is an inline style applied to a run of text.
type Mark string

// Mark constants (typed).
const (
	MarkBold   Mark = "bold"
	MarkItalic Mark = "italic"
)

// Run is a span of text carrying zero or more style marks.
type Run struct {
	Text  string `json:"text"`
	Marks []Mark `json:"marks,omitempty"`
}

// Block is a structured paragraph/heading/quote/image unit.
type Block struct {
	Type BlockType `json:"type"`
	Runs []Run     `json:"runs,omitempty"`

	// Placeholder is the 1-based marker number for imagePlaceholder blocks.
	Placeholder int `json:"placeholder,omitempty"`
}

// Paragraph builds a paragraph block with a single plain run.
func Paragraph(text string) Block {
	return Block{Type: BlockParagraph, Runs: []Run{{Text: text}}}
}

// Localized holds an optional block sequence per supported language. A nil
// slice means the language has no body yet.
type Localized struct {
	RO []Block `json:"ro,omitempty"`
	EN []Block `json:"en,omitempty"`
	PL []Block `json:"pl,omitempty"`
	HU []Block `json:"hu,omitempty"`
	CS []Block `json:"cs,omitempty"`
}

// Get returns the block sequence for code, if present.
func (l *Localized) Get(code locale.Code) ([]Block, bool) {
	p := l.field(code)
	if p == nil || *p == nil {
		return nil, false
	}
	return *p, true
}

// Set stores the block sequence for code. Unsupported codes are ignored.
func (l *Localized) Set(code locale.Code, blocks []Block) {
	p := l.field(code)
	if p == nil {
		return
	}
	*p = blocks
}

// Codes returns the languages that have a body, in canonical order.
func (l *Localized) Codes() []locale.Code {
	var codes []locale.Code
	for _, c := range locale.All() {
		if _, ok := l.Get(c); ok {
			codes = append(codes, c)
		}
	}
	return codes
}

func (l *Localized) field(code locale.Code) *[]Block {
	switch code {
	case locale.RO:
		return &l.RO
	case locale.EN:
		return &l.EN
	case locale.PL:
		return &l.PL
	case locale.HU:
		return &l.HU
	case locale.CS:
		return &l.CS
	}
	return nil
}
