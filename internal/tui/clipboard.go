package tui

import (
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
)

// readClipboard returns the system clipboard as plain text. On macOS pbpaste
// is asked for the plain-text flavor first.
func readClipboard() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return cleanClipboardText(string(output)), nil
		}
	}
	text, err := clipboard.ReadAll()
	if err != nil {
		return "", err
	}
	return cleanClipboardText(text), nil
}

func writeClipboard(text string) error {
	return clipboard.WriteAll(text)
}

// cleanClipboardText strips RTF or HTML markup, drops control characters and
// folds line endings into single spaces, since text shapes are one line.
func cleanClipboardText(text string) string {
	if text == "" {
		return text
	}
	switch {
	case isRTF(text):
		text = stripRTF(text)
	case isHTML(text):
		text = stripHTML(text)
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var result strings.Builder
	result.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			result.WriteRune(' ')
		case r >= 32 && r != 127:
			result.WriteRune(r)
		}
	}
	return strings.TrimSpace(result.String())
}

func isRTF(text string) bool {
	return strings.HasPrefix(text, "{\\rtf") || strings.Contains(text, "\\rtf1")
}

func isHTML(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), "<") &&
		(strings.Contains(text, "<html") || strings.Contains(text, "<body") || strings.Contains(text, "<div") || strings.Contains(text, "<span"))
}

func stripRTF(text string) string {
	var result strings.Builder
	result.Grow(len(text))
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '{' || r == '}' {
			continue
		}
		if r != '\\' {
			result.WriteRune(r)
			continue
		}
		if i+1 >= len(runes) {
			break
		}
		next := runes[i+1]
		switch {
		case next == '\\' || next == '{' || next == '}':
			result.WriteRune(next)
			i++
		case (next >= 'a' && next <= 'z') || (next >= 'A' && next <= 'Z'):
			start := i + 1
			i++
			for i < len(runes) && ((runes[i] >= 'a' && runes[i] <= 'z') || (runes[i] >= 'A' && runes[i] <= 'Z')) {
				i++
			}
			word := string(runes[start:i])
			for i < len(runes) && (runes[i] == '-' || (runes[i] >= '0' && runes[i] <= '9')) {
				i++
			}
			if word == "par" || word == "line" || word == "tab" {
				result.WriteRune(' ')
			}
			// A single space terminates a control word and is swallowed.
			if i < len(runes) && runes[i] != ' ' {
				i--
			}
		}
	}
	return result.String()
}

func stripHTML(html string) string {
	var result strings.Builder
	result.Grow(len(html))
	inTag := false
	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			result.WriteRune(r)
		}
	}
	return strings.NewReplacer(
		"&lt;", "<",
		"&gt;", ">",
		"&amp;", "&",
		"&quot;", "\"",
		"&#39;", "'",
		"&nbsp;", " ",
	).Replace(result.String())
}
