package main

import (
	"testing"
	"time"
)

func TestNormalizeSeed(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "scheme added when missing", input: "example.com", want: "https://example.com"},
		{name: "existing scheme kept", input: "http://example.com", want: "http://example.com"},
		{name: "trailing slash trimmed", input: "https://example.com/", want: "https://example.com"},
		{name: "host lowercased", input: "https://EXAMPLE.com/About", want: "https://example.com/About"},
		{name: "default port dropped", input: "https://example.com:443/shop", want: "https://example.com/shop"},
		{name: "surrounding whitespace", input: "  example.com  ", want: "https://example.com"},
		{name: "unsupported scheme", input: "ftp://example.com", wantErr: true},
		{name: "no host", input: "https://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeSeed(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("normalizeSeed(%q) = %q, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("normalizeSeed(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("normalizeSeed(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "fragment stripped", input: "https://example.com/page#section", want: "https://example.com/page"},
		{name: "query stripped", input: "https://example.com/page?utm=x", want: "https://example.com/page"},
		{name: "root slash kept off", input: "https://example.com/", want: "https://example.com"},
		{name: "nested trailing slash trimmed", input: "https://example.com/a/b/", want: "https://example.com/a/b"},
		{name: "http default port dropped", input: "http://example.com:80/x", want: "http://example.com/x"},
		{name: "non-default port kept", input: "http://example.com:8080/x", want: "http://example.com:8080/x"},
		{name: "unparseable", input: "http://exa mple.com\x7f", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeURL(tt.input); got != tt.want {
				t.Errorf("normalizeURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	t.Run("missing seed is fatal", func(t *testing.T) {
		cfg := Config{}
		if err := cfg.Validate(); err == nil {
			t.Fatal("Validate() with no seed URL should fail")
		}
	})

	t.Run("defaults filled", func(t *testing.T) {
		cfg := Config{SeedURL: "example.com"}
		if err := cfg.Validate(); err != nil {
			t.Fatalf("Validate() error: %v", err)
		}
		if cfg.SeedURL != "https://example.com" {
			t.Errorf("SeedURL = %q, want normalized https form", cfg.SeedURL)
		}
		if cfg.MaxPages != defaultMaxPages {
			t.Errorf("MaxPages = %d, want %d", cfg.MaxPages, defaultMaxPages)
		}
		if cfg.Timeout != defaultTimeout {
			t.Errorf("Timeout = %v, want %v", cfg.Timeout, defaultTimeout)
		}
		if cfg.LinkSampleCap != defaultLinkSample {
			t.Errorf("LinkSampleCap = %d, want %d", cfg.LinkSampleCap, defaultLinkSample)
		}
		if cfg.UserAgent != defaultUserAgent {
			t.Errorf("UserAgent = %q, want default identity string", cfg.UserAgent)
		}
	})

	t.Run("explicit values kept", func(t *testing.T) {
		cfg := Config{SeedURL: "example.com", MaxPages: 5, Timeout: 2 * time.Second}
		if err := cfg.Validate(); err != nil {
			t.Fatalf("Validate() error: %v", err)
		}
		if cfg.MaxPages != 5 || cfg.Timeout != 2*time.Second {
			t.Errorf("explicit values were overwritten: max=%d timeout=%v", cfg.MaxPages, cfg.Timeout)
		}
	})
}

func TestSameHost(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"example.com", "example.com", true},
		{"www.example.com", "example.com", true},
		{"EXAMPLE.com", "www.example.com", true},
		{"example.com", "other.com", false},
		{"sub.example.com", "example.com", false},
	}
	for _, tt := range tests {
		if got := sameHost(tt.a, tt.b); got != tt.want {
			t.Errorf("sameHost(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
