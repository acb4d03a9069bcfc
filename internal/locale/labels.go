// Package locale holds the user-facing strings of the table as YAML label
// tables. The built-in tables are es (default) and en; a file can override
// any subset of keys.
package locale

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

//go:embed es.yaml en.yaml
var builtin embed.FS

// DefaultLocale is used when no locale is configured.
const DefaultLocale = "es"

// ErrUnknownLocale is returned for a locale with no built-in table.
var ErrUnknownLocale = errors.New("unknown locale")

// Labels is one label table.
type Labels struct {
	Locale            string            `yaml:"locale"`
	Title             string            `yaml:"title"`
	SearchPlaceholder string            `yaml:"search_placeholder"`
	Headers           map[string]string `yaml:"headers"`
	SortAsc           string            `yaml:"sort_asc"`
	SortDesc          string            `yaml:"sort_desc"`
	First             string            `yaml:"first"`
	Previous          string            `yaml:"previous"`
	Next              string            `yaml:"next"`
	Last              string            `yaml:"last"`

	// PageSize is a template with a {size} placeholder.
	PageSize string `yaml:"page_size"`

	// Summary is a template with {first}, {last} and {total} placeholders.
	Summary string `yaml:"summary"`

	Empty     string `yaml:"empty"`
	ExportCSV string `yaml:"export_csv"`
	ExportPDF string `yaml:"export_pdf"`
	Help      string `yaml:"help"`
}

// Builtin returns the embedded table for locale.
func Builtin(locale string) (*Labels, error) {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if locale == "" {
		locale = DefaultLocale
	}

	data, err := builtin.ReadFile(locale + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLocale, locale)
	}

	var l Labels
	if err := yaml.UnmarshalWithOptions(data, &l, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("parse %s labels: %w", locale, err)
	}
	return &l, nil
}

// Load returns the labels for locale, with keys from overrideFile (if set)
// layered on top. An unknown locale is allowed when an override file is
// given; the es table then supplies the missing keys.
func Load(locale, overrideFile string) (*Labels, error) {
	base, err := Builtin(locale)
	if err != nil {
		if overrideFile == "" || !errors.Is(err, ErrUnknownLocale) {
			return nil, err
		}
		if base, err = Builtin(DefaultLocale); err != nil {
			return nil, err
		}
		base.Locale = locale
	}
	if overrideFile == "" {
		return base, nil
	}

	data, err := os.ReadFile(overrideFile)
	if err != nil {
		return nil, fmt.Errorf("read labels file: %w", err)
	}
	return base.merge(data)
}

func (l *Labels) merge(data []byte) (*Labels, error) {
	var over Labels
	if err := yaml.UnmarshalWithOptions(data, &over, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("parse labels file: %w", err)
	}

	out := *l
	out.Headers = make(map[string]string, len(l.Headers)+len(over.Headers))
	for k, v := range l.Headers {
		out.Headers[k] = v
	}
	for k, v := range over.Headers {
		out.Headers[k] = v
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&out.Locale, over.Locale)
	set(&out.Title, over.Title)
	set(&out.SearchPlaceholder, over.SearchPlaceholder)
	set(&out.SortAsc, over.SortAsc)
	set(&out.SortDesc, over.SortDesc)
	set(&out.First, over.First)
	set(&out.Previous, over.Previous)
	set(&out.Next, over.Next)
	set(&out.Last, over.Last)
	set(&out.PageSize, over.PageSize)
	set(&out.Summary, over.Summary)
	set(&out.Empty, over.Empty)
	set(&out.ExportCSV, over.ExportCSV)
	set(&out.ExportPDF, over.ExportPDF)
	set(&out.Help, over.Help)
	return &out, nil
}

// Header returns the label for a column id, or the id itself when the
// table has none.
func (l *Labels) Header(id string) string {
	if h, ok := l.Headers[id]; ok && h != "" {
		return h
	}
	return id
}

// SortIndicator returns the glyph for a sort direction ("asc", "desc" or "").
func (l *Labels) SortIndicator(dir string) string {
	switch dir {
	case "asc":
		return l.SortAsc
	case "desc":
		return l.SortDesc
	default:
		return ""
	}
}

// PageSizeLabel renders the page-size option label, e.g. "10 pag".
func (l *Labels) PageSizeLabel(size int) string {
	return strings.ReplaceAll(l.PageSize, "{size}", strconv.Itoa(size))
}

// SummaryText renders the pagination summary.
func (l *Labels) SummaryText(first, last, total int) string {
	return strings.NewReplacer(
		"{first}", strconv.Itoa(first),
		"{last}", strconv.Itoa(last),
		"{total}", strconv.Itoa(total),
	).Replace(l.Summary)
}
