package s3

import "testing"

func TestApplyPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prefix string
		key    string
		want   string
	}{
		{name: "no prefix", prefix: "", key: "abc_invoice.pdf", want: "abc_invoice.pdf"},
		{name: "simple prefix", prefix: "documents", key: "abc_invoice.pdf", want: "documents/abc_invoice.pdf"},
		{name: "prefix trailing slash", prefix: "documents/", key: "abc_invoice.pdf", want: "documents/abc_invoice.pdf"},
		{name: "prefix and key slashes", prefix: "/documents/", key: "/abc_invoice.pdf", want: "documents/abc_invoice.pdf"},
		{name: "nested prefix", prefix: "intake/documents", key: "abc_invoice.pdf", want: "intake/documents/abc_invoice.pdf"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := applyPrefix(tt.prefix, tt.key); got != tt.want {
				t.Fatalf("applyPrefix(%q, %q) = %q, want %q", tt.prefix, tt.key, got, tt.want)
			}
		})
	}
}

func TestStripPrefix(t *testing.T) {
	t.Parallel()

	if got := stripPrefix("documents", "documents/abc.pdf"); got != "abc.pdf" {
		t.Fatalf("stripPrefix = %q, want abc.pdf", got)
	}
	if got := stripPrefix("", "abc.pdf"); got != "abc.pdf" {
		t.Fatalf("stripPrefix = %q, want abc.pdf", got)
	}
}

func TestPublicURL(t *testing.T) {
	t.Parallel()

	store := &Store{bucket: "tax-docs", prefix: "documents", region: "us-east-1"}
	url, ok := store.PublicURL("abc_invoice.pdf")
	if !ok {
		t.Fatalf("expected URL resolved")
	}
	if url != "https://tax-docs.s3.us-east-1.amazonaws.com/documents/abc_invoice.pdf" {
		t.Fatalf("url = %q", url)
	}

	store.publicBaseURL = "https://files.example.com"
	url, ok = store.PublicURL("abc_invoice.pdf")
	if !ok || url != "https://files.example.com/documents/abc_invoice.pdf" {
		t.Fatalf("url = %q ok=%v", url, ok)
	}

	if _, ok := store.PublicURL("  "); ok {
		t.Fatalf("blank name should not resolve")
	}
}
