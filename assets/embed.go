// Package assets embeds the default word lists shipped with the bot.
//
// Lists are plain text, one word per line; blank lines and lines starting
// with '#' are skipped.
package assets

import (
	"bufio"
	"embed"
	"strings"
)

const (
	AnswersFile = "answers.txt"
	AllowedFile = "allowed.txt"
)

//go:embed answers.txt allowed.txt
var lists embed.FS

// Lines returns the words in the embedded list name, lowercased.
func Lines(name string) ([]string, error) {
	f, err := lists.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		out = append(out, strings.ToLower(line))
	}
	return out, sc.Err()
}
