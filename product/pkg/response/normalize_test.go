package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeImages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  []byte
		want []Image
	}{
		{
			name: "nil input yields placeholder",
			raw:  nil,
			want: []Image{{URL: "/placeholder-image.jpg", Alt: "Widget", IsPrimary: true}},
		},
		{
			name: "empty list yields placeholder",
			raw:  []byte(`[]`),
			want: []Image{{URL: "/placeholder-image.jpg", Alt: "Widget", IsPrimary: true}},
		},
		{
			name: "unreadable json yields placeholder",
			raw:  []byte(`{not json`),
			want: []Image{{URL: "/placeholder-image.jpg", Alt: "Widget", IsPrimary: true}},
		},
		{
			name: "bare strings get fallback alt and first primary",
			raw:  []byte(`["/a.jpg", "/b.jpg"]`),
			want: []Image{
				{URL: "/a.jpg", Alt: "Widget", IsPrimary: true},
				{URL: "/b.jpg", Alt: "Widget", IsPrimary: false},
			},
		},
		{
			name: "objects keep explicit primary flag",
			raw:  []byte(`[{"url":"/a.jpg","alt":"front"},{"url":"/b.jpg","alt":"back","isPrimary":true}]`),
			want: []Image{
				{URL: "/a.jpg", Alt: "front", IsPrimary: true},
				{URL: "/b.jpg", Alt: "back", IsPrimary: false},
			},
		},
		{
			name: "explicit single primary wins over position",
			raw:  []byte(`[{"url":"/a.jpg","alt":"front","isPrimary":false},{"url":"/b.jpg","alt":"back","isPrimary":true}]`),
			want: []Image{
				{URL: "/a.jpg", Alt: "front", IsPrimary: false},
				{URL: "/b.jpg", Alt: "back", IsPrimary: true},
			},
		},
		{
			name: "multiple primaries collapse to first",
			raw:  []byte(`[{"url":"/a.jpg","isPrimary":true},{"url":"/b.jpg","isPrimary":true}]`),
			want: []Image{
				{URL: "/a.jpg", Alt: "Widget", IsPrimary: true},
				{URL: "/b.jpg", Alt: "Widget", IsPrimary: false},
			},
		},
		{
			name: "zero primaries force first",
			raw:  []byte(`[{"url":"/a.jpg","isPrimary":false},{"url":"/b.jpg","isPrimary":false}]`),
			want: []Image{
				{URL: "/a.jpg", Alt: "Widget", IsPrimary: true},
				{URL: "/b.jpg", Alt: "Widget", IsPrimary: false},
			},
		},
		{
			name: "mixed strings and objects tolerated",
			raw:  []byte(`["/a.jpg",{"url":"/b.jpg","alt":"back"}]`),
			want: []Image{
				{URL: "/a.jpg", Alt: "Widget", IsPrimary: true},
				{URL: "/b.jpg", Alt: "back", IsPrimary: false},
			},
		},
		{
			name: "entries without url dropped, all dropped yields placeholder",
			raw:  []byte(`["",{"alt":"no url"}]`),
			want: []Image{{URL: "/placeholder-image.jpg", Alt: "Widget", IsPrimary: true}},
		},
		{
			name: "missing alt filled from fallback",
			raw:  []byte(`[{"url":"/a.jpg","isPrimary":true}]`),
			want: []Image{{URL: "/a.jpg", Alt: "Widget", IsPrimary: true}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := NormalizeImages(tt.raw, "Widget")
			assert.Equal(t, tt.want, got)
		})
	}
}
