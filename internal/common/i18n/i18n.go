// Package i18n holds the English and Amharic message catalog and locale matching.
package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Catalog resolves locales and formats messages for them.
type Catalog struct {
	builder *catalog.Builder
	tags    []language.Tag
	matcher language.Matcher
}

var defaultCatalog = MustNew("en", []string{"en", "am"})

// New builds a catalog whose first tag is def. def is added to supported when missing.
func New(def string, supported []string) (*Catalog, error) {
	defTag, err := language.Parse(def)
	if err != nil {
		return nil, fmt.Errorf("parse default locale %q: %w", def, err)
	}

	tags := []language.Tag{defTag}
	for _, s := range supported {
		tag, err := language.Parse(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("parse locale %q: %w", s, err)
		}
		if tag != defTag {
			tags = append(tags, tag)
		}
	}

	builder := catalog.NewBuilder(catalog.Fallback(defTag))
	for key, tr := range messages {
		for _, tag := range tags {
			text := tr.en
			if base, _ := tag.Base(); base.String() == "am" && tr.am != "" {
				text = tr.am
			}
			if err := builder.SetString(tag, key, text); err != nil {
				return nil, fmt.Errorf("set message %s for %s: %w", key, tag, err)
			}
		}
	}

	return &Catalog{
		builder: builder,
		tags:    tags,
		matcher: language.NewMatcher(tags),
	}, nil
}

// MustNew is New for package-level catalogs; it panics on error.
func MustNew(def string, supported []string) *Catalog {
	c, err := New(def, supported)
	if err != nil {
		panic(err)
	}
	return c
}

// Default returns the built-in en/am catalog.
func Default() *Catalog {
	return defaultCatalog
}

func (c *Catalog) DefaultTag() language.Tag {
	return c.tags[0]
}

func (c *Catalog) Supported() []language.Tag {
	return append([]language.Tag(nil), c.tags...)
}

// ParseTag matches a single user-supplied value against the supported tags.
func (c *Catalog) ParseTag(value string) (language.Tag, bool) {
	tag, err := language.Parse(strings.TrimSpace(value))
	if err != nil {
		return c.DefaultTag(), false
	}
	return c.match(tag)
}

// MatchAcceptLanguage picks the best supported tag for an Accept-Language header.
func (c *Catalog) MatchAcceptLanguage(header string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return c.DefaultTag()
	}
	tag, _ := c.match(tags...)
	return tag
}

func (c *Catalog) match(candidates ...language.Tag) (language.Tag, bool) {
	_, idx, conf := c.matcher.Match(candidates...)
	if conf == language.No {
		return c.DefaultTag(), false
	}
	return c.tags[idx], true
}

// Printer returns a message printer bound to this catalog.
func (c *Catalog) Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(c.builder))
}

// Text formats the message key for tag.
func (c *Catalog) Text(tag language.Tag, key string, args ...interface{}) string {
	return c.Printer(tag).Sprintf(key, args...)
}

// English formats key with the default catalog's English text.
func English(key string, args ...interface{}) string {
	return defaultCatalog.Text(language.English, key, args...)
}
