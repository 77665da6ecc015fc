package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestRoles(t *testing.T) {
	cases := []struct {
		name        string
		description string
		language    string
		first       string
		count       int
		contains    string
	}{
		{"logistics", "We move freight: Logistics for the Gulf", "en", "CEO", 5, "Logistics Specialist"},
		{"platform", "A platform for tutors", "en", "CEO", 5, "Lead Software Engineer"},
		{"generic", "We bake bread", "en", "CEO", 4, "Technical Expert"},
		{"unknown language uses english", "shipping made easy", "fr", "CEO", 5, "COO"},
		{"arabic logistics", "نحن نبني منصة لربط شركات الخدمات اللوجستية", "ar", "الرئيس التنفيذي (CEO)", 5, "خبير في الخدمات اللوجستية"},
		{"arabic app", "تطبيق لحجز المواعيد", "ar", "الرئيس التنفيذي (CEO)", 5, "مدير المنتج"},
		{"arabic generic", "مخبز", "ar", "الرئيس التنفيذي (CEO)", 4, "خبير تقني"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SuggestRoles(tc.description, tc.language)
			assert.Len(t, got, tc.count)
			assert.Equal(t, tc.first, got[0])
			assert.Contains(t, got, tc.contains)
		})
	}
}

func TestSuggestRolesReturnsCopy(t *testing.T) {
	got := SuggestRoles("bread", "en")
	got[0] = "changed"
	assert.Equal(t, "CEO", SuggestRoles("bread", "en")[0])
}
