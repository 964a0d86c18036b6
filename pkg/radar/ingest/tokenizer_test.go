package ingest

import (
	"reflect"
	"strings"
	"testing"

	"github.com/cognicore/radar/pkg/radar/lexicon"
	"github.com/cognicore/radar/pkg/radar/stoplist"
)

func TestTokenizerBasic(t *testing.T) {
	tokenizer := NewTokenizer(stoplist.NewEnglishManager(), nil)

	tokens := tokenizer.Tokenize("The quick brown foxes jump over the lazy dogs")
	want := []string{"quick", "brown", "fox", "jump", "lazy", "dog"}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("Tokenize = %v, want %v", tokens, want)
	}
}

func TestTokenizerEmpty(t *testing.T) {
	tokenizer := NewTokenizer(nil, nil)

	for _, in := range []string{"", "   ", "\n\t"} {
		tokens := tokenizer.Tokenize(in)
		if tokens == nil || len(tokens) != 0 {
			t.Errorf("Tokenize(%q) = %#v, want empty non-nil slice", in, tokens)
		}
	}
}

func TestTokenizerRemovesURLs(t *testing.T) {
	tokenizer := NewTokenizer(nil, nil)

	tokens := tokenizer.Tokenize("Check https://example.com/pricing?plan=pro and www.tool.io/docs for invoices")
	want := []string{"check", "and", "for", "invoice"}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("Tokenize = %v, want %v", tokens, want)
	}
}

func TestTokenizerStripsNonAlphabetic(t *testing.T) {
	tokenizer := NewTokenizer(nil, nil)

	tokens := tokenizer.Tokenize("GPT-4 costs $20/month!!! (seriously)")
	want := []string{"gpt", "cost", "month", "seriously"}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("Tokenize = %v, want %v", tokens, want)
	}
}

func TestTokenizerCaseNormalization(t *testing.T) {
	tokenizer := NewTokenizer(nil, nil)

	for _, tok := range tokenizer.Tokenize("CRM Software SaaS Startup") {
		if tok != strings.ToLower(tok) {
			t.Errorf("Token %s should be lowercased", tok)
		}
	}
}

func TestTokenizerDropsShortTokens(t *testing.T) {
	tokenizer := NewTokenizer(nil, nil)

	tokens := tokenizer.Tokenize("an ox is on it ux api")
	want := []string{"api"}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("Tokenize = %v, want %v", tokens, want)
	}
}

func TestTokenizerFoldsAccents(t *testing.T) {
	tokenizer := NewTokenizer(nil, nil)

	tokens := tokenizer.Tokenize("Café résumé naïve")
	want := []string{"cafe", "resume", "naive"}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("Tokenize = %v, want %v", tokens, want)
	}
}

func TestTokenizerLemmatizes(t *testing.T) {
	lex := lexicon.English()
	lex.AddGroup("app", []string{"application"})
	tokenizer := NewTokenizer(stoplist.NewEnglishManager(), lex)

	tokens := tokenizer.Tokenize("Children love applications for companies")
	want := []string{"child", "love", "app", "company"}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("Tokenize = %v, want %v", tokens, want)
	}
}

func TestTokenizerStopwordsAfterLemma(t *testing.T) {
	tokenizer := NewTokenizer(stoplist.NewManager([]string{"thing"}), nil)

	tokens := tokenizer.Tokenize("things happen")
	want := []string{"happen"}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("Tokenize = %v, want %v", tokens, want)
	}
	if !tokenizer.IsStopword("Thing") {
		t.Error("IsStopword should be case-insensitive")
	}
}

func TestPhraseParser(t *testing.T) {
	tokenizer := NewTokenizer(stoplist.NewEnglishManager(), nil)
	parser := NewPhraseParser([]PhraseEntry{
		{Canonical: "project management", Variants: []string{"project managing"}},
		{Canonical: "crm", Variants: []string{"customer relationship management"}},
	}, tokenizer.Tokenize)

	tokens := parser.Parse(tokenizer.Tokenize("Our project management and customer relationship management tools suck"))
	want := []string{"project management", "crm", "tool", "suck"}
	if !reflect.DeepEqual(tokens, want) {
		t.Errorf("Parse = %v, want %v", tokens, want)
	}

	if parser.Len() != 4 {
		t.Errorf("expected 4 phrase keys, got %d", parser.Len())
	}
}

func TestPhraseParserEmpty(t *testing.T) {
	parser := NewPhraseParser(nil, NewTokenizer(nil, nil).Tokenize)
	in := []string{"alpha", "beta"}
	if got := parser.Parse(in); !reflect.DeepEqual(got, in) {
		t.Errorf("empty parser should pass tokens through, got %v", got)
	}
}
