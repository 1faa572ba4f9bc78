package fetch

import (
	"strings"
	"testing"
)

// FuzzParseLocator fuzzes GitHub URL parsing with random input and checks the
// success-path invariants: a parsed locator always has a usable owner/repo.
func FuzzParseLocator(f *testing.F) {
	seeds := []string{
		"https://github.com/acme/shop",
		"https://github.com/acme/shop.git",
		"https://www.github.com/acme/shop/tree/main/src",
		"http://github.com/a/b",
		"git@github.com:acme/shop.git",
		"https://gitlab.com/acme/shop",
		"not a url at all",
		"",
		"https://github.com/",
		"https://github.com//",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, rawURL string) {
		locator, err := ParseLocator(rawURL)
		if err != nil {
			return
		}
		if locator.Owner == "" || locator.Repo == "" {
			t.Errorf("ParseLocator(%q) accepted empty owner/repo: %+v", rawURL, locator)
		}
		if strings.ContainsAny(locator.Owner, "/") || strings.ContainsAny(locator.Repo, "/") {
			t.Errorf("ParseLocator(%q) leaked path separators: %+v", rawURL, locator)
		}
	})
}
