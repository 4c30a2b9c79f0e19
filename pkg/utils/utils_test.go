package utils

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Acme Corp", "acme-corp"},
		{"  Acme   Corp  ", "acme-corp"},
		{"Acme-Corp", "acme-corp"},
		{"ACME", "acme"},
		{"Acme & Sons, Inc.", "acme-sons-inc"},
		{"under_score", "under_score"},
		{"Trailing-", "trailing"},
		{"", ""},
	}
	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Errorf("Slugify(%q) => %q, want %q", c.in, got, c.want)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	for _, good := range []string{
		"a@b.com",
		"first.last@example.org",
		"user+tag@example.co.uk",
	} {
		if err := ValidateEmail(good); err != nil {
			t.Errorf("ValidateEmail(%q) => %v, want nil", good, err)
		}
	}
	for _, bad := range []string{
		"",
		"invalid-email",
		"missing@tld@double",
		"spaces in@address.com",
	} {
		if err := ValidateEmail(bad); err == nil {
			t.Errorf("ValidateEmail(%q) => nil, want error", bad)
		}
	}
}
