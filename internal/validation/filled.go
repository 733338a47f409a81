package validation

import (
	"strings"

	"github.com/goliatone/go-cms-console/internal/blocks"
)

// IsFilled reports whether payload carries a value for its type. Booleans and
// separators always count as filled; markup counts only when it has visible text.
func IsFilled(t blocks.ContentType, payload blocks.Payload) bool {
	switch t {
	case blocks.TypeSeparator:
		return true
	case blocks.TypeBoolean:
		_, ok := payload.(blocks.BooleanPayload)
		return ok
	}

	switch p := payload.(type) {
	case blocks.HeadingPayload:
		return blocks.StripTags(p.Text) != ""
	case blocks.RichTextPayload:
		return blocks.StripTags(p.Content) != ""
	case blocks.NumberPayload:
		return present(p.Value)
	case blocks.ValuePayload:
		return present(p.Value)
	case blocks.ContactPayload:
		return present(p.Value)
	case blocks.MultiselectPayload:
		return anyPresent(p.Values)
	case blocks.ImagePayload:
		return present(p.URL)
	case blocks.MediaPayload:
		return present(p.URL)
	case blocks.FilePayload:
		return present(p.URL)
	case blocks.GalleryPayload:
		return anyPresent(p.Images)
	case blocks.PartnersPayload:
		return anyPresent(p.Logos)
	case blocks.ListPayload:
		return anyPresent(p.Items)
	case blocks.TablePayload:
		if anyPresent(p.Headers) {
			return true
		}
		for _, row := range p.Rows {
			if anyPresent(row) {
				return true
			}
		}
		return false
	case blocks.AccordionPayload:
		for _, item := range p.Items {
			if present(item.Title) || blocks.StripTags(item.Content) != "" {
				return true
			}
		}
		return false
	case blocks.TabsPayload:
		for _, tab := range p.Tabs {
			if present(tab.Label) || blocks.StripTags(tab.Content) != "" {
				return true
			}
		}
		return false
	case blocks.RelatedEntitiesPayload:
		for _, id := range p.SelectedIDs {
			if id != "" {
				return true
			}
		}
		return false
	case blocks.JSONPayload:
		return present(p.Value)
	}
	return false
}

// Filled reports whether block is filled, counting a pending upload as a value.
func Filled(block blocks.Block, pending bool) bool {
	return pending || IsFilled(block.Type, block.Data)
}

func present(value string) bool {
	return strings.TrimSpace(value) != ""
}

func anyPresent(values []string) bool {
	for _, v := range values {
		if present(v) {
			return true
		}
	}
	return false
}
