package ingest

import (
	"github.com/cognicore/radar/pkg/radar/extract"
)

// Pipeline orchestrates the per-document flow:
// text → tokenization → phrase joining, and text → indicator mentions.
// It holds no mutable state and is safe for concurrent use.
type Pipeline struct {
	tokenizer *Tokenizer
	parser    *PhraseParser
	extractor *extract.Extractor
}

// NewPipeline creates an ingestion pipeline with the given components
func NewPipeline(tokenizer *Tokenizer, parser *PhraseParser, extractor *extract.Extractor) *Pipeline {
	return &Pipeline{
		tokenizer: tokenizer,
		parser:    parser,
		extractor: extractor,
	}
}

// ProcessedDoc represents a document after ingestion processing
type ProcessedDoc struct {
	Tokens   []string
	Mentions []extract.Mention
}

// Process normalizes one document and extracts its mentions. Extraction runs
// on the raw text so captured clauses stay readable.
func (p *Pipeline) Process(d Document) ProcessedDoc {
	tokens := p.tokenizer.Tokenize(d.Text)
	if p.parser != nil {
		tokens = p.parser.Parse(tokens)
	}

	var mentions []extract.Mention
	if p.extractor != nil {
		mentions = p.extractor.Extract(d.ID, d.Timestamp, d.Text)
	}

	return ProcessedDoc{
		Tokens:   tokens,
		Mentions: mentions,
	}
}
