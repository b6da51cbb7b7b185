// Package projection builds render-ready views from stored records.
// It handles flattening and shaping only; it does not emit events or
// interact with storage or UI directly.
package projection

import (
	"time"

	"plaza/domain"

	"github.com/samber/lo"
)

// Author is one distinct message author in the flattened view.
type Author struct {
	ID string `json:"id"`
}

// MessageView is a single message in render-ready shape. The timestamp
// is an RFC3339 UTC string so clients never parse raw epoch values.
type MessageView struct {
	ID      string `json:"id"`
	Author  string `json:"author"`
	Content string `json:"content"`
	At      string `json:"at"`
}

// NormalizedMessages is the flattened snapshot sent over the wire:
// a distinct author table plus the ordered message list referencing it.
type NormalizedMessages struct {
	Authors  []Author      `json:"authors"`
	Messages []MessageView `json:"messages"`
}

// NormalizeMessages flattens a message collection into its wire shape.
// The transform is deterministic (authors in first-appearance order,
// messages in input order) and idempotent: the same input always yields
// the same output.
func NormalizeMessages(messages []domain.Message) NormalizedMessages {
	authors := lo.Map(
		lo.Uniq(lo.Map(messages, func(m domain.Message, _ int) string { return m.Author })),
		func(author string, _ int) Author { return Author{ID: author} },
	)

	views := lo.Map(messages, func(m domain.Message, _ int) MessageView {
		return MessageView{
			ID:      m.ID.String(),
			Author:  m.Author,
			Content: m.Content,
			At:      m.At.UTC().Format(time.RFC3339),
		}
	})

	return NormalizedMessages{Authors: authors, Messages: views}
}
