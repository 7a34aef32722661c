package liscrape

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/codeGROOVE-dev/liscrape/lobstr"
)

// Prompter answers the interactive questions the pipeline asks. The
// terminal implementation reads stdin; tests supply a scripted one.
type Prompter interface {
	// SelectSquid picks an existing squid or requests a new one.
	// lastUsed marks the default choice and may be empty.
	SelectSquid(squids []lobstr.Squid, lastUsed string) (squidID string, createNew bool, err error)
	// SelectAccount picks one of the available accounts.
	SelectAccount(accounts []lobstr.Account) (string, error)
	// ConfirmEmpty asks whether to empty a reused squid. Defaults to no.
	ConfirmEmpty(squidID string) (bool, error)
	// ConfirmAbort asks whether to abort the remote run. Defaults to no.
	ConfirmAbort(runID string) (bool, error)
}

// TerminalPrompter prompts on an io.Writer and reads answers from an io.Reader.
type TerminalPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminalPrompter creates a prompter, typically over stdin/stdout.
func NewTerminalPrompter(in io.Reader, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{in: bufio.NewReader(in), out: out}
}

// SelectSquid lists the available squids and reads a selection. Empty input
// picks the last-used squid when one is marked; any input that is neither a
// valid number nor "n" falls back to creating a new squid.
func (p *TerminalPrompter) SelectSquid(squids []lobstr.Squid, lastUsed string) (string, bool, error) {
	fmt.Fprintln(p.out, "\n--- Available LinkedIn squids ---")
	defaultIdx := -1
	for i, s := range squids {
		marker := ""
		if s.ID == lastUsed {
			marker = " (last used)"
			defaultIdx = i
		}
		fmt.Fprintf(p.out, "[%d] ID: %s | Name: %s | Created: %s%s\n", i+1, s.ID, s.Name, s.CreatedAt, marker)
	}
	fmt.Fprintln(p.out, "[N] Create new squid")
	fmt.Fprintln(p.out, "---------------------------------")

	choice, err := p.readLine("Select a squid (number) or 'N' for new: ")
	if err != nil {
		return "", false, err
	}
	choice = strings.ToLower(choice)

	switch {
	case choice == "" && defaultIdx >= 0:
		return squids[defaultIdx].ID, false, nil
	case choice == "n":
		return "", true, nil
	}

	idx, err := strconv.Atoi(choice)
	if err != nil || idx < 1 || idx > len(squids) {
		fmt.Fprintln(p.out, "Invalid selection. Creating a new squid.")
		return "", true, nil
	}
	return squids[idx-1].ID, false, nil
}

// SelectAccount lists the available accounts and reads a selection,
// reprompting until the input is a valid number.
func (p *TerminalPrompter) SelectAccount(accounts []lobstr.Account) (string, error) {
	fmt.Fprintln(p.out, "\n--- Available accounts ---")
	for i, a := range accounts {
		fmt.Fprintf(p.out, "[%d] ID: %s | Username: %s | Type: %s\n", i+1, a.ID, a.Username, a.Type)
	}
	fmt.Fprintln(p.out, "--------------------------")

	for {
		choice, err := p.readLine("Select an account (number): ")
		if err != nil {
			return "", err
		}
		idx, err := strconv.Atoi(choice)
		if err != nil || idx < 1 || idx > len(accounts) {
			fmt.Fprintln(p.out, "Invalid selection. Try again.")
			continue
		}
		return accounts[idx-1].ID, nil
	}
}

// ConfirmEmpty asks whether to drop the existing tasks of a reused squid.
func (p *TerminalPrompter) ConfirmEmpty(string) (bool, error) {
	return p.confirm("Empty existing tasks from this squid? (y/N): ")
}

// ConfirmAbort asks whether to abort the remote run after an interrupt.
func (p *TerminalPrompter) ConfirmAbort(string) (bool, error) {
	fmt.Fprintln(p.out, "\n[!] Execution interrupted.")
	return p.confirm("Abort the remote run as well? (y/N): ")
}

func (p *TerminalPrompter) confirm(prompt string) (bool, error) {
	answer, err := p.readLine(prompt)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(answer, "y"), nil
}

func (p *TerminalPrompter) readLine(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.in.ReadString('\n')
	// A final unterminated line still counts as input.
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
