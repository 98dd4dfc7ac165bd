// Package share builds the metadata a client needs to share or download a recipe card.
package share

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const (
	twitterIntentURL = "https://twitter.com/intent/tweet"
	facebookShareURL = "https://www.facebook.com/sharer/sharer.php"
)

var whitespace = regexp.MustCompile(`\s+`)

// Metadata describes how a recipe is presented when shared.
type Metadata struct {
	Title       string `json:"title"`
	Text        string `json:"text"`
	FileName    string `json:"fileName"`
	TwitterURL  string `json:"twitterUrl"`
	FacebookURL string `json:"facebookUrl,omitempty"`
}

// For returns the share metadata for a recipe name. pageURL is the page the
// recipe is viewed on; without it no Facebook link is produced.
func For(name, pageURL string) Metadata {
	name = strings.TrimSpace(name)
	return Metadata{
		Title:       fmt.Sprintf("%s Recipe", name),
		Text:        fmt.Sprintf("Check out this delicious %s recipe I generated with Chef's Vision!", name),
		FileName:    FileName(name),
		TwitterURL:  TwitterURL(name),
		FacebookURL: FacebookURL(name, pageURL),
	}
}

// Slug lower-cases name and replaces whitespace runs with a dash.
func Slug(name string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

// FileName is the download name of the recipe card PDF.
func FileName(name string) string {
	return Slug(name) + "-recipe-card.pdf"
}

// TwitterURL is a tweet intent link with the share line pre-filled.
func TwitterURL(name string) string {
	return twitterIntentURL + "?text=" + url.QueryEscape(shareLine(name))
}

// FacebookURL is a sharer link for pageURL quoting the share line. It is
// empty when pageURL is not an absolute http(s) URL.
func FacebookURL(name, pageURL string) string {
	u, err := url.Parse(strings.TrimSpace(pageURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ""
	}
	return facebookShareURL + "?u=" + url.QueryEscape(u.String()) + "&quote=" + url.QueryEscape(shareLine(name))
}

func shareLine(name string) string {
	return fmt.Sprintf("Check out this %s recipe I made with Chef's Vision!", strings.TrimSpace(name))
}
