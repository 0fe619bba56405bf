package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// ErrInvalidSVG indicates template markup that does not parse as XML.
var ErrInvalidSVG = errors.New("invalid SVG content")

// SVGService substitutes participant fields into SVG certificate templates.
// Pure transformation, no I/O.
type SVGService struct{}

func NewSVGService() *SVGService {
	return &SVGService{}
}

// Render replaces {{name}} placeholders in element text and tail content, and
// sets the text of any element whose id attribute equals a field name.
// Unmatched placeholders are left verbatim.
func (s *SVGService) Render(svgContent string, fields map[string]string) (string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(svgContent); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSVG, err)
	}
	root := doc.Root()
	if root == nil {
		return "", ErrInvalidSVG
	}

	s.substitute(root, fields)

	out, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("serialize SVG: %w", err)
	}
	return out, nil
}

func (s *SVGService) substitute(el *etree.Element, fields map[string]string) {
	if txt := el.Text(); txt != "" {
		el.SetText(replacePlaceholders(txt, fields))
	}
	if tail := el.Tail(); tail != "" {
		el.SetTail(replacePlaceholders(tail, fields))
	}
	// An element addressed directly by id takes the field value wholesale.
	if id := el.SelectAttrValue("id", ""); id != "" {
		if v, ok := fields[id]; ok {
			el.SetText(v)
		}
	}
	for _, child := range el.ChildElements() {
		s.substitute(child, fields)
	}
}

func replacePlaceholders(text string, fields map[string]string) string {
	for name, value := range fields {
		text = strings.ReplaceAll(text, "{{"+name+"}}", value)
	}
	return text
}

// Validate checks that the markup parses; used when templates are saved.
func (s *SVGService) Validate(svgContent string) error {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(svgContent); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSVG, err)
	}
	if doc.Root() == nil {
		return ErrInvalidSVG
	}
	return nil
}
