package models

import (
	"net/url"
	"regexp"
	"strings"
)

// SourceKind classifies the free-form source field for display.
type SourceKind string

const (
	SourceNone SourceKind = "none"
	SourceLink SourceKind = "link"
	SourceText SourceKind = "text"
)

var bareDomainPattern = regexp.MustCompile(`^(www\.)?[a-zA-Z0-9][a-zA-Z0-9-]*[a-zA-Z0-9]*\.[a-zA-Z]{2,}(/.*)?$`)

// ClassifySource decides whether source looks like a link or is text content.
// The result is never persisted.
func ClassifySource(source string) SourceKind {
	trimmed := strings.TrimSpace(source)
	if trimmed == "" {
		return SourceNone
	}

	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		if isAbsoluteURL(trimmed) {
			return SourceLink
		}
		return SourceText
	}

	if bareDomainPattern.MatchString(trimmed) && isAbsoluteURL("https://"+trimmed) {
		return SourceLink
	}

	return SourceText
}

// SourceURL returns the link target for a link-kind source, adding https://
// to bare domains. ok is false for anything that is not a link.
func SourceURL(source string) (link string, ok bool) {
	if ClassifySource(source) != SourceLink {
		return "", false
	}
	trimmed := strings.TrimSpace(source)
	if strings.HasPrefix(trimmed, "http") {
		return trimmed, true
	}
	return "https://" + trimmed, true
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}
