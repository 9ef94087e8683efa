package format

import (
	"sync"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// tokenEncoding is the BPE encoding used for the manifest's additive
// TOKENS annotations. cl100k_base is the encoding used by GPT-3.5/GPT-4
// family models and is a reasonable default estimate for "a large language
// model" in general, matching the teacher's own default tokenizer choice.
const tokenEncoding = "cl100k_base"

var (
	encOnce sync.Once
	enc     *tiktoken.Tiktoken
	encErr  error
)

func getEncoding() (*tiktoken.Tiktoken, error) {
	encOnce.Do(func() {
		enc, encErr = tiktoken.GetEncoding(tokenEncoding)
	})
	return enc, encErr
}

// CountTokens returns the number of BPE tokens in content. If the encoding
// cannot be loaded (e.g. no network access to fetch the BPE ranks on first
// use and no local cache), CountTokens falls back to the industry-standard
// len/4 heuristic rather than failing the whole snapshot over an
// informational annotation.
func CountTokens(content string) int {
	if content == "" {
		return 0
	}

	e, err := getEncoding()
	if err != nil || e == nil {
		return len(content) / 4
	}

	return len(e.Encode(content, nil, nil))
}
