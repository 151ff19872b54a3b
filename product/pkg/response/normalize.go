package response

import "encoding/json"

const placeholderImageURL = "/placeholder-image.jpg"

type rawImage struct {
	URL       string `json:"url"`
	Alt       string `json:"alt"`
	IsPrimary *bool  `json:"isPrimary"`
}

// NormalizeImages coerces the persisted image list into a uniform shape.
// Legacy rows store images as bare URL strings or partial objects; an
// empty or unreadable list yields a single placeholder. Exactly one
// image ends up marked primary: when zero or several are marked, the
// first one wins.
func NormalizeImages(raw []byte, fallbackAlt string) []Image {
	placeholder := []Image{{URL: placeholderImageURL, Alt: fallbackAlt, IsPrimary: true}}
	if len(raw) == 0 {
		return placeholder
	}

	entries := []json.RawMessage{}
	if err := json.Unmarshal(raw, &entries); err != nil || len(entries) == 0 {
		return placeholder
	}

	images := make([]Image, 0, len(entries))
	for _, entry := range entries {
		var url string
		if err := json.Unmarshal(entry, &url); err == nil {
			if url == "" {
				continue
			}
			images = append(images, Image{URL: url, Alt: fallbackAlt, IsPrimary: len(images) == 0})
			continue
		}
		var obj rawImage
		if err := json.Unmarshal(entry, &obj); err != nil || obj.URL == "" {
			continue
		}
		img := Image{URL: obj.URL, Alt: obj.Alt}
		if img.Alt == "" {
			img.Alt = fallbackAlt
		}
		if obj.IsPrimary != nil {
			img.IsPrimary = *obj.IsPrimary
		} else {
			img.IsPrimary = len(images) == 0
		}
		images = append(images, img)
	}
	if len(images) == 0 {
		return placeholder
	}

	primaries := 0
	for _, img := range images {
		if img.IsPrimary {
			primaries++
		}
	}
	if primaries != 1 {
		for i := range images {
			images[i].IsPrimary = i == 0
		}
	}
	return images
}
