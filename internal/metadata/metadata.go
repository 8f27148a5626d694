// Package metadata renders and reads the About.xml document that describes a mod
package metadata

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chriscorrea/modsetup/internal/naming"
	"github.com/chriscorrea/modsetup/internal/template"

	"github.com/beevik/etree"
)

const (
	// FileName of the metadata document inside the about folder
	FileName = "About.xml"
	// RootElement is the document element of About.xml
	RootElement = "ModMetadata"

	// DefaultVersion is used when no product version is configured
	DefaultVersion = "1.0.0"
)

// Info holds the fields of an About.xml document
type Info struct {
	Name           string
	Author         string
	Version        string
	Description    string
	WorkshopHandle int64
	Tags           []string
}

// Values returns the template slots for the about template, in fill order.
// Name and author are sanitized, the description is escaped for XML text.
func (i Info) Values() template.Values {
	version := i.Version
	if version == "" {
		version = DefaultVersion
	}

	return template.Values{
		{Key: "productName", Text: naming.Sanitize(i.Name)},
		{Key: "author", Text: naming.Sanitize(i.Author)},
		{Key: "description", Text: escape(i.Description)},
		{Key: "productVersion", Text: escape(version)},
	}
}

// Render fills the about template and checks the result is well-formed XML
func Render(info Info) (string, error) {
	tmpl, err := template.Template(template.About)
	if err != nil {
		return "", err
	}

	out := template.Fill(tmpl, info.Values())

	doc := etree.NewDocument()
	if err := doc.ReadFromString(out); err != nil {
		return "", fmt.Errorf("rendered %s is not valid XML: %w", FileName, err)
	}
	if root := doc.Root(); root == nil || root.Tag != RootElement {
		return "", fmt.Errorf("rendered %s has no %s element", FileName, RootElement)
	}

	return out, nil
}

// Read parses an About.xml document
func Read(r io.Reader) (Info, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return Info{}, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}

	root := doc.Root()
	if root == nil || root.Tag != RootElement {
		return Info{}, fmt.Errorf("%s has no %s element", FileName, RootElement)
	}

	info := Info{
		Name:        childText(root, "Name"),
		Author:      childText(root, "Author"),
		Version:     childText(root, "Version"),
		Description: childText(root, "Description"),
	}

	if handle := childText(root, "WorkshopHandle"); handle != "" {
		n, err := strconv.ParseInt(handle, 10, 64)
		if err != nil {
			return Info{}, fmt.Errorf("invalid WorkshopHandle %q: %w", handle, err)
		}
		info.WorkshopHandle = n
	}

	for _, tag := range root.FindElements("./Tags/Tag") {
		if text := strings.TrimSpace(tag.Text()); text != "" {
			info.Tags = append(info.Tags, text)
		}
	}

	return info, nil
}

func childText(parent *etree.Element, tag string) string {
	el := parent.SelectElement(tag)
	if el == nil {
		return ""
	}
	return strings.TrimSpace(el.Text())
}

// textEscaper keeps line breaks and quotes readable in element text
var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escape(s string) string {
	return textEscaper.Replace(s)
}
