package render

import (
	"net/url"
	"strings"
)

const (
	PlaceholderImage     = "data:image/svg+xml;utf8,<svg xmlns='http://www.w3.org/2000/svg' width='100' height='100'><rect width='100' height='100' fill='%23e9ecef'/><text x='50%25' y='50%25' text-anchor='middle' font-family='sans-serif' font-size='12' fill='%23999'>No Image</text></svg>"
	MaxSubImages         = 3
	strayImageCharacters = "[]\"'"
)

// CleanImageUrl strips the bracket and quote characters some catalog entries
// carry around their urls, e.g. `["https://host/a.jpg"`.
func CleanImageUrl(raw string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), strayImageCharacters))
}

func IsAbsoluteHttpUrl(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// MainImage returns the first image or the placeholder.
func MainImage(images []string) string {
	if len(images) == 0 {
		return PlaceholderImage
	}
	if img := CleanImageUrl(images[0]); IsAbsoluteHttpUrl(img) {
		return img
	}
	return PlaceholderImage
}

// SubImages returns up to MaxSubImages valid urls following the main image,
// invalid ones are dropped.
func SubImages(images []string) []string {
	ret := make([]string, 0, MaxSubImages)
	for i := 1; i < len(images) && i <= MaxSubImages; i++ {
		if img := CleanImageUrl(images[i]); IsAbsoluteHttpUrl(img) {
			ret = append(ret, img)
		}
	}
	return ret
}
