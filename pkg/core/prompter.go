package core

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nodewee/scan-archiver/pkg/imaging"
	"github.com/nodewee/scan-archiver/pkg/interfaces"
	"github.com/nodewee/scan-archiver/pkg/types"
	"github.com/nodewee/scan-archiver/pkg/utils"
)

// ConsolePrompter asks the operator on a line-oriented terminal
type ConsolePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

var _ interfaces.Prompter = (*ConsolePrompter)(nil)

// NewConsolePrompter reads answers from in and writes questions to out
func NewConsolePrompter(in io.Reader, out io.Writer) *ConsolePrompter {
	return &ConsolePrompter{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// AskRotation prompts until the answer is empty or a number. Empty keeps current.
func (p *ConsolePrompter) AskRotation(index int, current float64) (float64, error) {
	for {
		answer, err := p.ask(fmt.Sprintf("Put page %d into scanner!\nEnter rotation in degrees cw [%s]:", index, imaging.FormatDegrees(current)))
		if err != nil {
			return 0, err
		}
		if answer == "" {
			return current, nil
		}
		degrees, err := strconv.ParseFloat(answer, 64)
		if err == nil {
			return degrees, nil
		}
		fmt.Fprintf(p.out, "Not a number: %q\n", answer)
	}
}

// ReviewPage accepts unless the answer is n or N
func (p *ConsolePrompter) ReviewPage(index int) (bool, error) {
	answer, err := p.ask(fmt.Sprintf("Page %d scanned. Accept it for OCR? [Y/n]", index))
	if err != nil {
		return false, err
	}
	return answer != "n" && answer != "N", nil
}

// AskContinue maps n/N to finish, r/R to repeat and anything else to continue
func (p *ConsolePrompter) AskContinue(index int) (types.Decision, error) {
	answer, err := p.ask(fmt.Sprintf("Page %d finished. Continue? Is the next page in the scanner? [Y/n/r]", index))
	if err != nil {
		return types.DecisionFinish, err
	}
	switch answer {
	case "n", "N":
		return types.DecisionFinish, nil
	case "r", "R":
		return types.DecisionRepeat, nil
	default:
		return types.DecisionContinue, nil
	}
}

func (p *ConsolePrompter) ask(question string) (string, error) {
	if _, err := io.WriteString(p.out, question); err != nil {
		return "", utils.NewIOError("failed to write prompt", err)
	}
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", utils.NewIOError("operator input closed", err)
	}
	return strings.TrimSpace(line), nil
}
