package service

import (
	"strings"
	"testing"

	"github.com/iplanding-next/internal/config"
	"github.com/iplanding-next/internal/constants"
)

func TestSanitizeUserAgentStripsInjectionChars(t *testing.T) {
	got := SanitizeUserAgent(`Mozilla/5.0 <script>"x";'y'\z`)
	if strings.ContainsAny(got, `<>"';\`) {
		t.Fatalf("expected injection chars removed, got %q", got)
	}
	if !strings.Contains(got, "Mozilla/5.0") {
		t.Fatalf("expected UA body preserved, got %q", got)
	}
}

func TestSanitizeUserAgentEmptyFallsBackToUnknown(t *testing.T) {
	if got := SanitizeUserAgent(""); got != constants.UserAgentUnknown {
		t.Fatalf("expected %q, got %q", constants.UserAgentUnknown, got)
	}
	if got := SanitizeUserAgent("   "); got != constants.UserAgentUnknown {
		t.Fatalf("expected %q for blank input, got %q", constants.UserAgentUnknown, got)
	}
}

func TestSanitizeUserAgentTruncatesLongValues(t *testing.T) {
	got := SanitizeUserAgent(strings.Repeat("A", constants.UserAgentMaxLength+200))
	if len([]rune(got)) != constants.UserAgentMaxLength {
		t.Fatalf("expected %d runes, got %d", constants.UserAgentMaxLength, len([]rune(got)))
	}
}

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"user@example.com",
		"first.last+tag@sub.example.co",
		"user_name%x@example.io",
	}
	for _, email := range valid {
		if !ValidateEmail(email) {
			t.Fatalf("expected %q to be valid", email)
		}
	}

	invalid := []string{
		"",
		"plainaddress",
		"@example.com",
		"user@",
		"user@example",
		"user@example.c",
		strings.Repeat("a", 250) + "@example.com",
	}
	for _, email := range invalid {
		if ValidateEmail(email) {
			t.Fatalf("expected %q to be invalid", email)
		}
	}
}

func TestContainsSpamKeywords(t *testing.T) {
	if !ContainsSpam("Click HERE for a deal") {
		t.Fatal("expected keyword match to be spam")
	}
	if !ContainsSpam("limited time offer") {
		t.Fatal("expected keyword match to be spam")
	}
	if ContainsSpam("Hello, I would like a quote for my project.") {
		t.Fatal("expected normal text to pass")
	}
}

func TestContainsSpamRepeatedChars(t *testing.T) {
	if !ContainsSpam("aaaaa") {
		t.Fatal("expected five repeated letters to be spam")
	}
	if !ContainsSpam("price is 111110") {
		t.Fatal("expected five repeated digits to be spam")
	}
	if !ContainsSpam("AAAAA") {
		t.Fatal("expected repeated check to fold case")
	}
	if ContainsSpam("aaaa is fine") {
		t.Fatal("expected four repeats to pass")
	}
	if ContainsSpam("aa-aa-aa") {
		t.Fatal("expected punctuation to break the run")
	}
	if ContainsSpam("!!!!!") {
		t.Fatal("expected non-alphanumeric runs to pass")
	}
}

func TestStripControlChars(t *testing.T) {
	input := "ab\x00c\x08d\x0be\x0cf\x1fg\x7fh\tok\nline"
	got := StripControlChars(input)
	if got != "abcdefgh\tok\nline" {
		t.Fatalf("unexpected result %q", got)
	}
}

func TestDetectBotUserAgent(t *testing.T) {
	bots := []string{
		"Googlebot/2.1",
		"python-requests/2.31",
		"curl/8.0",
		"some-CRAWLER-thing",
	}
	for _, ua := range bots {
		if !DetectBotUserAgent(ua) {
			t.Fatalf("expected %q to be detected as bot", ua)
		}
	}
	if DetectBotUserAgent("") {
		t.Fatal("expected empty UA to pass")
	}
	if DetectBotUserAgent("Mozilla/5.0 (Windows NT 10.0) Gecko/20100101 Firefox/126.0") {
		t.Fatal("expected browser UA to pass")
	}
}

func TestIsLocalIP(t *testing.T) {
	local := []string{"127.0.0.1", "::1", "localhost", "127.0.0.2"}
	for _, ip := range local {
		if !IsLocalIP(ip) {
			t.Fatalf("expected %q to be local", ip)
		}
	}
	if IsLocalIP("8.8.8.8") {
		t.Fatal("expected public IP to be non-local")
	}
	if IsLocalIP("") {
		t.Fatal("expected empty string to be non-local")
	}
}

func newTestValidator() *ContactFormValidator {
	return NewContactFormValidator(config.FormConfig{
		MinNameLength:    2,
		MaxNameLength:    100,
		MaxEmailLength:   255,
		MaxMessageLength: 1000,
	})
}

func TestContactFormValidatorAcceptsValidInput(t *testing.T) {
	validator := newTestValidator()
	formData, errs := validator.Validate(ContactFormInput{
		Name:    "  Jane O'Neil  ",
		Email:   "jane@example.com",
		Message: "Hello, I have a question about pricing.",
	})
	if len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
	if formData["name"] != "Jane O'Neil" {
		t.Fatalf("expected trimmed name, got %q", formData["name"])
	}
	if formData["email"] != "jane@example.com" {
		t.Fatalf("unexpected email %q", formData["email"])
	}
}

func TestContactFormValidatorCollectsAllErrors(t *testing.T) {
	validator := newTestValidator()
	_, errs := validator.Validate(ContactFormInput{
		Name:    "J",
		Email:   "not-an-email",
		Message: strings.Repeat("ab", 501),
	})
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %d: %v", len(errs), errs)
	}
}

func TestContactFormValidatorRejectsInvalidNameChars(t *testing.T) {
	validator := newTestValidator()
	_, errs := validator.Validate(ContactFormInput{
		Name:    "Jane123",
		Email:   "jane@example.com",
		Message: "hi there",
	})
	if len(errs) == 0 {
		t.Fatal("expected error for numeric name")
	}
}

func TestContactFormValidatorAllowsEmptyMessage(t *testing.T) {
	validator := newTestValidator()
	_, errs := validator.Validate(ContactFormInput{
		Name:    "Jane",
		Email:   "jane@example.com",
		Message: "",
	})
	if len(errs) != 0 {
		t.Fatalf("expected empty message to be allowed, got %v", errs)
	}
}

func TestContactFormValidatorRejectsSpam(t *testing.T) {
	validator := newTestValidator()
	_, errs := validator.Validate(ContactFormInput{
		Name:    "Jane",
		Email:   "jane@example.com",
		Message: "click here to win now",
	})
	if len(errs) == 0 {
		t.Fatal("expected spam content to be rejected")
	}
}

func TestCleanFormDataStripsControlChars(t *testing.T) {
	cleaned := CleanFormData(map[string]interface{}{
		"name":  " Jane\x00 ",
		"count": 3,
	})
	if cleaned["name"] != "Jane" {
		t.Fatalf("expected cleaned name, got %q", cleaned["name"])
	}
	if cleaned["count"] != 3 {
		t.Fatalf("expected non-string values untouched, got %v", cleaned["count"])
	}
}
