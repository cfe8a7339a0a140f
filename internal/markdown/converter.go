// Package markdown converts raw documentation markup into the Markdown
// body served to clients.
package markdown

import (
	"fmt"
	"unicode/utf8"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"github.com/yriveiro/opencode-python-docs/internal/models"
)

// Converter wraps html-to-markdown.
type Converter struct {
	conv *converter.Converter
}

// NewConverter creates a Converter with commonmark and table support.
func NewConverter() *Converter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Converter{conv: conv}
}

// Convert transforms raw HTML into a Markdown body and its anchor index.
// Anchor extraction is not implemented yet, so the anchor list is always
// empty and TotalLength covers the whole body.
func (c *Converter) Convert(html string) (string, *models.AnchorIndex, error) {
	body, err := c.conv.ConvertString(html)
	if err != nil {
		return "", nil, fmt.Errorf("markdown: convert: %w", err)
	}

	return body, &models.AnchorIndex{
		Anchors:     []models.Anchor{},
		TotalLength: utf8.RuneCountInString(body),
	}, nil
}
