package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/MGT-HRZ/URL-VIDS-EXTRACT/internal/model"
)

// Accepted prompt tokens
const (
	TokenYes = "1"
	TokenNo  = "2"
)

// Selector asks the user, per extracted video, whether to download it.
// Invalid input re-prompts in a plain loop; end of input ends selection.
type Selector struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewSelector creates a selector reading answers from in and writing prompts
// to out
func NewSelector(in io.Reader, out io.Writer) *Selector {
	return &Selector{in: bufio.NewScanner(in), out: out}
}

// Select returns the subset of urls the user approved, in input order
func (s *Selector) Select(urls []string) []string {
	approved := make([]string, 0, len(urls))

	for _, url := range urls {
		answer, ok := s.ask(url)
		if !ok {
			// input exhausted; remaining videos are treated as declined
			break
		}
		if answer {
			approved = append(approved, url)
		} else {
			fmt.Fprintf(s.out, "Skipping video: %s\n", url)
		}
	}
	return approved
}

// ask prompts for one URL until a valid token arrives. The second return is
// false once the input stream ends.
func (s *Selector) ask(url string) (bool, bool) {
	for {
		fmt.Fprintf(s.out, "Do you want to download this video? %s (1 for yes, 2 for no): ", url)
		if !s.in.Scan() {
			return false, false
		}

		switch strings.TrimSpace(s.in.Text()) {
		case TokenYes:
			return true, true
		case TokenNo:
			return false, true
		default:
			fmt.Fprintln(s.out, "Invalid input. Please enter '1' for yes or '2' for no.")
		}
	}
}

// PrintSummary writes the final downloaded-count line
func PrintSummary(out io.Writer, summary *model.BatchSummary) {
	fmt.Fprintf(out, "\nTotal videos downloaded: %s\n", summary)
}
