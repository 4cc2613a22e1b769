package utils

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// repair is one textual fix applied to malformed model output.
type repair struct {
	re   *regexp.Regexp
	repl string
}

// Applied in order. Each targets a mistake chat models make when asked for
// a JSON object; none of them can turn valid JSON into invalid JSON.
var repairs = []repair{
	// "value"\n"key": -> "value",\n"key":
	{regexp.MustCompile(`(")\s*\n\s*("[\w][^"]*"\s*:)`), `$1, $2`},
	// 42\n"key": -> 42,\n"key":
	{regexp.MustCompile(`(\d|true|false|null)\s*\n\s*("[\w][^"]*"\s*:)`), `$1, $2`},
	// } "title" -> }, "title"
	{regexp.MustCompile(`([}\]])\s*\n?\s*("[\w])`), `$1, $2`},
	// ,} -> }
	{regexp.MustCompile(`,\s*([}\]])`), `$1`},
	// {'key': -> {"key":
	{regexp.MustCompile(`([{,]\s*)'(\w+)'(\s*:)`), `$1"$2"$3`},
}

var (
	singleQuoteValueRegex = regexp.MustCompile(`(:\s*)'((?:[^'\\]|\\.)*)'(\s*[,}\]])`)
	unquotedValueRegex    = regexp.MustCompile(`(:\s*)([a-zA-Z][a-zA-Z0-9_-]*)(\s*[,}\]])`)
)

// ExtractAndParseJSON pulls the first JSON value out of a model response and
// decodes it into T. Markdown fences, leading prose and trailing text are
// ignored; common syntax slips are repaired before giving up.
func ExtractAndParseJSON[T any](response string) (T, error) {
	var result T

	cleaned := stripFences(response)
	if cleaned == "" {
		return result, fmt.Errorf("no JSON found in response")
	}

	// A JSON document wrapped in a string literal.
	if strings.HasPrefix(cleaned, `"`) {
		var inner string
		if err := json.Unmarshal([]byte(cleaned), &inner); err == nil {
			return ExtractAndParseJSON[T](inner)
		}
	}

	idx := strings.IndexAny(cleaned, "{[")
	if idx == -1 {
		return result, fmt.Errorf("no JSON start ({ or [) found")
	}

	body := cleaned[idx:]
	err := decodeFirst(body, &result)
	if err == nil {
		return result, nil
	}
	if fixed := repairJSON(body); fixed != body {
		var retry T
		if decodeFirst(fixed, &retry) == nil {
			return retry, nil
		}
	}
	return result, fmt.Errorf("parse JSON: %w", err)
}

func decodeFirst(s string, v any) error {
	return json.NewDecoder(strings.NewReader(s)).Decode(v)
}

func repairJSON(input string) string {
	out := escapeControlChars(input)
	for _, r := range repairs {
		out = r.re.ReplaceAllString(out, r.repl)
	}

	// : 'value' -> : "value"
	out = singleQuoteValueRegex.ReplaceAllStringFunc(out, func(match string) string {
		parts := singleQuoteValueRegex.FindStringSubmatch(match)
		if len(parts) != 4 {
			return match
		}
		value := strings.ReplaceAll(parts[2], `\'`, `'`)
		value = strings.ReplaceAll(value, `"`, `\"`)
		return parts[1] + `"` + value + `"` + parts[3]
	})

	// : high, -> : "high",
	out = unquotedValueRegex.ReplaceAllStringFunc(out, func(match string) string {
		parts := unquotedValueRegex.FindStringSubmatch(match)
		if len(parts) != 4 {
			return match
		}
		switch parts[2] {
		case "true", "false", "null":
			return match
		}
		return parts[1] + `"` + parts[2] + `"` + parts[3]
	})

	return closeTruncated(out)
}

// escapeControlChars escapes raw control characters that appear inside
// string literals.
func escapeControlChars(input string) string {
	var b strings.Builder
	b.Grow(len(input))

	inString, escaped := false, false
	for i := 0; i < len(input); i++ {
		c := input[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString && c < 0x20:
			switch c {
			case '\n':
				b.WriteString(`\n`)
			case '\r':
				b.WriteString(`\r`)
			case '\t':
				b.WriteString(`\t`)
			default:
				fmt.Fprintf(&b, `\u%04x`, c)
			}
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// closeTruncated terminates an unfinished string and closes any brackets
// left open by output that was cut off mid-generation.
func closeTruncated(input string) string {
	var open []byte
	inString, escaped := false, false
	for i := 0; i < len(input); i++ {
		c := input[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			open = append(open, '}')
		case c == '[':
			open = append(open, ']')
		case (c == '}' || c == ']') && len(open) > 0:
			open = open[:len(open)-1]
		}
	}
	if inString {
		input += `"`
	}
	for i := len(open) - 1; i >= 0; i-- {
		input += string(open[i])
	}
	return input
}

func stripFences(response string) string {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	return strings.TrimSpace(response)
}
