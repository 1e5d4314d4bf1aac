package llm

import (
	"reflect"
	"testing"
)

func TestParseListValidArray(t *testing.T) {
	items, clean := ParseList(`["first claim", " second ", ""]`)
	if !clean {
		t.Fatal("expected clean parse")
	}
	if !reflect.DeepEqual(items, []string{"first claim", "second"}) {
		t.Fatalf("unexpected items: %v", items)
	}
}

func TestParseListFencedArray(t *testing.T) {
	items, clean := ParseList("```json\n[\"a\",\"b\"]\n```")
	if !clean || len(items) != 2 {
		t.Fatalf("expected fenced array parsed, got clean=%t items=%v", clean, items)
	}
}

func TestParseListPlainStringBecomesSingleItem(t *testing.T) {
	items, clean := ParseList(`"just one finding"`)
	if !clean || len(items) != 1 || items[0] != "just one finding" {
		t.Fatalf("unexpected result clean=%t items=%v", clean, items)
	}
}

func TestParseListMalformedJSON(t *testing.T) {
	items, clean := ParseList("the model rambled instead of returning JSON")
	if clean || items != nil {
		t.Fatalf("expected fallback, got clean=%t items=%v", clean, items)
	}
}

func TestParseListNonStringItemsStringified(t *testing.T) {
	items, clean := ParseList(`[{"claim":"x"}, 42]`)
	if !clean || len(items) != 2 {
		t.Fatalf("unexpected result clean=%t items=%v", clean, items)
	}
}

func TestNormalizeChoiceTokenScan(t *testing.T) {
	got, ok := NormalizeChoice("The answer is YES, definitely.", []string{"YES", "NO", "MIXED", "POSSIBLY"})
	if !ok || got != "YES" {
		t.Fatalf("unexpected choice %q ok=%t", got, ok)
	}
}

func TestNormalizeChoiceHyphenatedToken(t *testing.T) {
	got, ok := NormalizeChoice("This is a meta-analysis of 14 trials.", []string{"RCT", "META-ANALYSIS", "OTHER"})
	if !ok || got != "META-ANALYSIS" {
		t.Fatalf("unexpected choice %q ok=%t", got, ok)
	}
}

func TestNormalizeChoiceSubstringFallback(t *testing.T) {
	got, ok := NormalizeChoice("likelyes", []string{"YES", "NO"})
	if !ok || got != "YES" {
		t.Fatalf("expected substring fallback to YES, got %q ok=%t", got, ok)
	}
}

func TestNormalizeChoiceNoMatch(t *testing.T) {
	_, ok := NormalizeChoice("unclear", []string{"YES", "MIXED"})
	if ok {
		t.Fatal("expected no match")
	}
}
