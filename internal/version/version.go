// Package version implements the snapshot version token rules of
// spec.md §4.7: parsing the token out of an existing manifest's prelude
// line and incrementing it for the next snapshot.
package version

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Initial is the version token a snapshot with no prior state begins at.
const Initial = "V1"

const prefix = "[DIRCONTXT_LLM_SNAPSHOT_"

// ParseFirstLine extracts the version token from a manifest's first line,
// which has the shape "[DIRCONTXT_LLM_SNAPSHOT_<TOKEN>]". If the line
// doesn't match that shape, ParseFirstLine returns Initial.
func ParseFirstLine(r io.Reader) string {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return Initial
	}
	return parseLine(scanner.Text())
}

func parseLine(line string) string {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, prefix) || !strings.HasSuffix(line, "]") {
		return Initial
	}
	token := line[len(prefix) : len(line)-1]
	if token == "" {
		return Initial
	}
	return token
}

// Increment applies spec.md §4.7's increment rule: "V<a>.<b>" becomes
// "V<a>.<b+1>", "V<a>" becomes "V<a>.1", and anything unrecognized
// resets to Initial.
func Increment(token string) string {
	major, minor, ok := parse(token)
	if !ok {
		return Initial
	}
	if minor < 0 {
		return fmt.Sprintf("V%d.1", major)
	}
	return fmt.Sprintf("V%d.%d", major, minor+1)
}

// parse splits a token of shape "V<a>" or "V<a>.<b>" into its numeric
// parts. minor is -1 when the token carries no minor component. ok is
// false for anything that doesn't match either shape.
func parse(token string) (major, minor int, ok bool) {
	if !strings.HasPrefix(token, "V") {
		return 0, 0, false
	}
	body := token[1:]

	dot := strings.IndexByte(body, '.')
	if dot < 0 {
		m, err := strconv.Atoi(body)
		if err != nil || m < 0 {
			return 0, 0, false
		}
		return m, -1, true
	}

	majorPart, minorPart := body[:dot], body[dot+1:]
	m, err := strconv.Atoi(majorPart)
	if err != nil || m < 0 {
		return 0, 0, false
	}
	n, err := strconv.Atoi(minorPart)
	if err != nil || n < 0 {
		return 0, 0, false
	}
	return m, n, true
}
