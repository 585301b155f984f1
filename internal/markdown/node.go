package markdown

// Document is a parsed markdown source.
type Document struct {
	Blocks []Block
}

// Block is one of *Heading, *CodeBlock, *List, *Rule, or *Paragraph.
type Block interface {
	block()
}

// Inline is one of Text, Code, *Strong, or *Emphasis.
type Inline interface {
	inline()
}

// Heading is a "#", "##", or "###" line.
type Heading struct {
	Level   int // 1-3.
	Content []Inline
}

// CodeBlock is a ``` fenced block. Code is trimmed of surrounding whitespace and is never parsed for inline markup.
type CodeBlock struct {
	Language string // The fence's info string (ex: "go"); may be "".
	Code     string
}

// List is a run of consecutive "- item" lines (unordered) or "1. item" lines (ordered).
type List struct {
	Ordered bool
	Start   int // Number of the first item of an ordered list; 0 for unordered lists.
	Items   [][]Inline
}

// Rule is a line consisting only of "---".
type Rule struct{}

// Paragraph is a run of consecutive text lines. Each element of Lines is one source line.
type Paragraph struct {
	Lines [][]Inline
}

func (*Heading) block()   {}
func (*CodeBlock) block() {}
func (*List) block()      {}
func (*Rule) block()      {}
func (*Paragraph) block() {}

// Text is literal text.
type Text string

// Code is an inline `code` span.
type Code string

// Strong is **bold** content.
type Strong struct {
	Content []Inline
}

// Emphasis is *italic* content.
type Emphasis struct {
	Content []Inline
}

func (Text) inline()      {}
func (Code) inline()      {}
func (*Strong) inline()   {}
func (*Emphasis) inline() {}
