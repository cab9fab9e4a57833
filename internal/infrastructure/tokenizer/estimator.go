// Package tokenizer provides offline token counting for OpenAI models using
// the tiktoken BPE tables embedded in github.com/tiktoken-go/tokenizer.
package tokenizer

import (
	"context"
	"strings"
	"sync"

	"github.com/tiktoken-go/tokenizer"

	"github.com/jbctechsolutions/tokcount/internal/application/ports"
	domainErrors "github.com/jbctechsolutions/tokcount/internal/domain/errors"
)

// DefaultEncoding is used for models the mapping does not recognise.
const DefaultEncoding = tokenizer.O200kBase

// Estimator counts tokens locally. It never performs network I/O.
// Codecs are loaded once per encoding and shared.
type Estimator struct {
	codecs map[tokenizer.Encoding]tokenizer.Codec
	mu     sync.RWMutex
}

// Ensure Estimator implements ports.TokenCounter.
var _ ports.TokenCounter = (*Estimator)(nil)

// NewEstimator creates a new offline estimator.
func NewEstimator() *Estimator {
	return &Estimator{
		codecs: make(map[tokenizer.Encoding]tokenizer.Codec),
	}
}

// CountTokens returns the number of BPE tokens in text for model.
func (e *Estimator) CountTokens(_ context.Context, model, text string) (int, error) {
	if text == "" {
		return 0, nil
	}

	codec, err := e.codec(EncodingForModel(model))
	if err != nil {
		return 0, err
	}

	ids, _, err := codec.Encode(text)
	if err != nil {
		return 0, domainErrors.WithContext(
			domainErrors.Dependency("tokenizer failed to encode text", err), "model", model)
	}
	return len(ids), nil
}

func (e *Estimator) codec(encoding tokenizer.Encoding) (tokenizer.Codec, error) {
	e.mu.RLock()
	cached, ok := e.codecs[encoding]
	e.mu.RUnlock()
	if ok {
		return cached, nil
	}

	codec, err := tokenizer.Get(encoding)
	if err != nil {
		return nil, domainErrors.WithContext(
			domainErrors.Dependency("failed to load tokenizer encoding "+string(encoding), domainErrors.ErrEncodingUnavailable),
			"cause", err.Error())
	}

	e.mu.Lock()
	e.codecs[encoding] = codec
	e.mu.Unlock()
	return codec, nil
}

// EncodingForModel maps an OpenAI model name to its BPE encoding.
//
//   - o200k_base: GPT-5, GPT-4.1, GPT-4o, o-series and anything unrecognised
//   - cl100k_base: GPT-4, GPT-3.5, text-embedding-*
//   - p50k_base: text-davinci-*
//   - r50k_base: davinci, curie, babbage, ada
func EncodingForModel(model string) tokenizer.Encoding {
	model = strings.ToLower(strings.TrimSpace(model))

	switch {
	case strings.HasPrefix(model, "gpt-5"),
		strings.HasPrefix(model, "gpt-4.1"),
		strings.HasPrefix(model, "gpt-4o"),
		strings.HasPrefix(model, "chatgpt-4o"),
		strings.HasPrefix(model, "o1"),
		strings.HasPrefix(model, "o3"),
		strings.HasPrefix(model, "o4"):
		return tokenizer.O200kBase
	case strings.HasPrefix(model, "gpt-4"),
		strings.HasPrefix(model, "gpt-3.5"),
		strings.HasPrefix(model, "text-embedding"):
		return tokenizer.Cl100kBase
	case strings.HasPrefix(model, "text-davinci"):
		return tokenizer.P50kBase
	case model == "davinci" || model == "curie" || model == "babbage" || model == "ada":
		return tokenizer.R50kBase
	default:
		return DefaultEncoding
	}
}
