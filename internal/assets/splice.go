package assets

import (
	"slices"

	"github.com/goliatone/go-cms-console/internal/blocks"
)

// Uploaded holds the references returned for one entry, aligned with the
// entry's fields.
type Uploaded struct {
	Single   string
	Document string
	List     []string

	SingleName   string
	DocumentName string
}

// Splice writes uploaded references into payload. Single files replace a url;
// lists append to the persisted images or logos. The boolean reports whether
// the payload type accepts uploads at all.
func Splice(payload blocks.Payload, up Uploaded) (blocks.Payload, bool) {
	switch p := payload.(type) {
	case blocks.ImagePayload:
		if up.Single != "" {
			p.URL = up.Single
		}
		return p, true
	case blocks.MediaPayload:
		if url := firstNonEmpty(up.Single, up.Document); url != "" {
			p.URL = url
		}
		return p, true
	case blocks.FilePayload:
		url, name := up.Document, up.DocumentName
		if url == "" {
			url, name = up.Single, up.SingleName
		}
		if url != "" {
			p.URL = url
			if p.Title == "" {
				p.Title = name
			}
		}
		return p, true
	case blocks.GalleryPayload:
		images := slices.Clone(p.Images)
		if up.Single != "" {
			images = append(images, up.Single)
		}
		p.Images = append(images, up.List...)
		return p, true
	case blocks.PartnersPayload:
		logos := slices.Clone(p.Logos)
		if up.Single != "" {
			logos = append(logos, up.Single)
		}
		p.Logos = append(logos, up.List...)
		return p, true
	case blocks.ContactPayload:
		if up.Single != "" {
			p.Icon = up.Single
			p.IconType = blocks.IconUpload
		}
		return p, true
	}
	return payload, false
}

// AcceptsUploads reports whether blocks of type t can carry pending assets.
func AcceptsUploads(t blocks.ContentType) bool {
	switch t {
	case blocks.TypeImage, blocks.TypeVideo, blocks.TypeAudio, blocks.TypeFile,
		blocks.TypeGallery, blocks.TypeCarousel, blocks.TypePartners, blocks.TypeContact:
		return true
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
