package language

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"es", "es"},
		{"ES", "es"},
		{"en", "en"},
		{"pt-BR", "pt"},
		{"zh-Hans", "zh"},
		{"spanish", "es"},
		{"Japanese", "ja"},
		{"GERMAN", "de"},
		// Unsupported languages resolve to empty.
		{"fi", ""},
		{"klingon", ""},
		{"", ""},
		{" ", ""},
	}
	for _, tc := range tests {
		if got := Normalize(tc.input); got != tc.expected {
			t.Errorf("Normalize(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestIsSupported(t *testing.T) {
	for _, code := range supported {
		if !IsSupported(code) {
			t.Errorf("expected %q to be supported", code)
		}
	}
	if IsSupported("sv") {
		t.Error("sv should not be supported")
	}
}

func TestSupportedCarriesDisplayNames(t *testing.T) {
	options := Supported()
	if len(options) != 12 {
		t.Fatalf("expected 12 options, got %d", len(options))
	}
	byCode := map[string]string{}
	for _, opt := range options {
		byCode[opt.Code] = opt.Name
	}
	for code, want := range map[string]string{
		"es": "Spanish",
		"de": "German",
		"zh": "Chinese",
		"ar": "Arabic",
	} {
		if byCode[code] != want {
			t.Errorf("Name(%s) = %q, want %q", code, byCode[code], want)
		}
	}
}
