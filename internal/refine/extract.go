package refine

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Pre-compiled patterns. Compiling per parse is an order of magnitude slower.
var (
	// Code fence patterns. Newlines are optional because models sometimes
	// omit them around the fence markers.
	codeFenceRegex = regexp.MustCompile("(?s)```(?:json)?\\s*\n?([\\s\\S]*?)\n?```")

	// Cleanup patterns for common model JSON quirks.
	trailingCommaRegex     = regexp.MustCompile(`,(\s*[}\]])`)
	singleLineCommentRegex = regexp.MustCompile(`(?m)//.*$`)
	multiLineCommentRegex  = regexp.MustCompile(`(?s)/\*.*?\*/`)

	// Greedy object extraction for JSON embedded in prose.
	objectRegex = regexp.MustCompile(`(?s)\{[\s\S]*\}`)
)

// decodeJSON parses a model response into dst, trying progressively more
// aggressive recovery strategies:
//
//  1. Direct JSON parse
//  2. Strip markdown code fences and retry
//  3. Fix common issues (trailing commas, comments) and retry
//  4. Extract the outermost JSON object from mixed prose and retry
//
// A nil error means dst holds the decoded document. The returned error
// describes the direct-parse failure, which is the most useful diagnostic
// for a corrective re-prompt.
func decodeJSON(text string, dst any) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return fmt.Errorf("empty response")
	}

	directErr := json.Unmarshal([]byte(trimmed), dst)
	if directErr == nil {
		return nil
	}

	if m := codeFenceRegex.FindStringSubmatch(trimmed); m != nil {
		if err := json.Unmarshal([]byte(strings.TrimSpace(m[1])), dst); err == nil {
			return nil
		}
		// Later strategies work on the fenced content once a fence exists.
		trimmed = strings.TrimSpace(m[1])
	}

	cleaned := cleanupJSON(trimmed)
	if err := json.Unmarshal([]byte(cleaned), dst); err == nil {
		return nil
	}

	if m := objectRegex.FindString(trimmed); m != "" {
		if err := json.Unmarshal([]byte(cleanupJSON(m)), dst); err == nil {
			return nil
		}
	}

	return fmt.Errorf("no JSON document found: %v", directErr)
}

func cleanupJSON(s string) string {
	s = singleLineCommentRegex.ReplaceAllString(s, "")
	s = multiLineCommentRegex.ReplaceAllString(s, "")
	s = trailingCommaRegex.ReplaceAllString(s, "$1")
	return strings.TrimSpace(s)
}
