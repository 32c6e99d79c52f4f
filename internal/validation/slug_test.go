package validation

import "testing"

func TestValidateGroupSlug(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		slug string
		ok   bool
	}{
		{name: "valid with number", slug: "poetry-2", ok: true},
		{name: "valid plain", slug: "essays", ok: true},
		{name: "minimum length", slug: "abc", ok: true},
		{name: "too short", slug: "ab", ok: false},
		{name: "uppercase", slug: "Poetry", ok: false},
		{name: "underscore", slug: "long_reads", ok: false},
		{name: "space", slug: "long reads", ok: false},
		{name: "symbol", slug: "long!reads", ok: false},
		{name: "leading hyphen", slug: "-essays", ok: false},
		{name: "trailing hyphen", slug: "essays-", ok: false},
		{name: "reserved admin", slug: "admin", ok: false},
		{name: "reserved groups", slug: "groups", ok: false},
		{name: "reserved feed", slug: "feed", ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateGroupSlug(tc.slug)
			if tc.ok && err != nil {
				t.Fatalf("expected valid slug, got error: %v", err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("expected invalid slug, got nil error")
			}
		})
	}
}
