// Package schema declares the document shapes the studio edits: posts,
// authors and categories. Field names match the document store schema, so
// these structs marshal directly into queries and patch payloads.
package schema

import (
	"time"

	"github.com/caravanpress/studio/pkg/studiogen/locale"
	"github.com/caravanpress/studio/pkg/studiogen/richtext"
)

// Document type constants.
const (
	TypePost     = "post"
	TypeAuthor   = "author"
	TypeCategory = "category"
)

// Reference points at another document by id.
type Reference struct {
	Ref string `json:"_ref"`
}

// Slug is the document store's slug field shape.
type Slug struct {
	Current string `json:"current"`
}

// Image references an uploaded binary asset with display metadata.
type Image struct {
	AssetRef Reference `json:"asset"`
	Alt      string    `json:"alt,omitempty"`
	Credit   string    `json:"credit,omitempty"`
}

// SEO carries per-language search metadata for a post.
type SEO struct {
	MetaTitle       locale.String `json:"metaTitle"`
	MetaDescription locale.Text   `json:"metaDescription"`
}

// Post is the blog post document shape.
type Post struct {
	ID          string             `json:"_id,omitempty"`
	Type        string             `json:"_type"`
	Title       locale.String      `json:"title"`
	Slug        Slug               `json:"slug"`
	Excerpt     locale.Text        `json:"excerpt"`
	Body        richtext.Localized `json:"body"`
	MainImage   *Image             `json:"mainImage,omitempty"`
	Author      *Reference         `json:"author,omitempty"`
	Category    *Reference         `json:"category,omitempty"`
	Tags        []string           `json:"tags,omitempty"`
	SEO         *SEO               `json:"seo,omitempty"`
	PublishedAt *time.Time         `json:"publishedAt,omitempty"`
}

// Author is the author document shape.
type Author struct {
	ID     string        `json:"_id,omitempty"`
	Type   string        `json:"_type"`
	Name   string        `json:"name"`
	Slug   Slug          `json:"slug"`
	Bio    locale.Text   `json:"bio"`
	Role   locale.String `json:"role"`
	Avatar *Image        `json:"avatar,omitempty"`
}

// Category is the category document shape.
type Category struct {
	ID          string        `json:"_id,omitempty"`
	Type        string        `json:"_type"`
	Title       locale.String `json:"title"`
	Slug        Slug          `json:"slug"`
	Description locale.Text   `json:"description"`
}
