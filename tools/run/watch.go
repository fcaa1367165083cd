package run

import (
	"bufio"
	"io"
	"strings"
)

// Watch copies the console output of a test kernel from r to out, line by
// line. The first line telling the outcome of the tests calls done with the
// exit code. Watch returns the exit code once r reaches EOF, 1 if the outcome
// was never seen.
func Watch(r io.Reader, out io.Writer, done func(code int)) int {
	scanner := bufio.NewScanner(r)
	code := -1
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		io.WriteString(out, line+"\n")
		if code != -1 {
			continue
		}
		switch {
		case strings.HasPrefix(line, "fatal error:"), strings.HasPrefix(line, "panic:"):
			fallthrough
		case line == "FAIL":
			code = 1
			done(code)
		case line == "PASS":
			code = 0
			done(code)
		}
	}
	if code == -1 {
		return 1
	}
	return code
}
