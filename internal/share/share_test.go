package share

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Lasagna", "lasagna"},
		{"Vegan  Chili", "vegan-chili"},
		{" Chicken Tikka\tMasala ", "chicken-tikka-masala"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Slug(tt.name), tt.name)
	}
}

func TestFor(t *testing.T) {
	m := For("Pad Thai", "")

	assert.Equal(t, "Pad Thai Recipe", m.Title)
	assert.Equal(t, "Check out this delicious Pad Thai recipe I generated with Chef's Vision!", m.Text)
	assert.Equal(t, "pad-thai-recipe-card.pdf", m.FileName)

	u, err := url.Parse(m.TwitterURL)
	require.NoError(t, err)
	assert.Equal(t, "twitter.com", u.Host)
	assert.Equal(t, "Check out this Pad Thai recipe I made with Chef's Vision!", u.Query().Get("text"))
	assert.Empty(t, m.FacebookURL)
}

func TestFacebookURL(t *testing.T) {
	tests := []struct {
		name    string
		pageURL string
		wantU   string
	}{
		{name: "https page", pageURL: "https://chefvision.app/?dish=pad+thai", wantU: "https://chefvision.app/?dish=pad+thai"},
		{name: "blank page", pageURL: ""},
		{name: "relative page", pageURL: "/recipes"},
		{name: "other scheme", pageURL: "javascript:alert(1)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FacebookURL("Pad Thai", tt.pageURL)
			if tt.wantU == "" {
				assert.Empty(t, got)
				return
			}
			u, err := url.Parse(got)
			require.NoError(t, err)
			assert.Equal(t, "www.facebook.com", u.Host)
			assert.Equal(t, "/sharer/sharer.php", u.Path)
			assert.Equal(t, tt.wantU, u.Query().Get("u"))
			assert.Equal(t, "Check out this Pad Thai recipe I made with Chef's Vision!", u.Query().Get("quote"))
		})
	}
}
