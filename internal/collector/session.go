// Package collector fetches ONT summary reports from Huawei OLTs over
// an interactive SSH CLI session and writes them as dump files for the
// ingest pipeline.
package collector

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	expect "github.com/google/goexpect"
	"golang.org/x/crypto/ssh"
)

// huaweiPrompt matches the Huawei CLI prompts, both the user view
// "<hostname>" and the config views "[hostname]" / "[hostname-gpon-0/1]".
var huaweiPrompt = regexp.MustCompile(`(?m)(<[\w\-]+>|\[[\w\-~/]+\])\s*$`)

// pagerDisableCommand turns off the "---- More ----" pager for the
// session so long tables arrive in one piece.
const pagerDisableCommand = "screen-length 0 temporary"

// Session wraps google/goexpect for Huawei OLT CLI interaction
type Session struct {
	expecter *expect.GExpect
	timeout  time.Duration
}

// NewSession spawns an interactive CLI session over an established SSH
// connection, waits for the first prompt and disables the pager.
func NewSession(client *ssh.Client, timeout time.Duration) (*Session, error) {
	if client == nil {
		return nil, fmt.Errorf("SSH client is required")
	}
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	exp, _, err := expect.SpawnSSH(client, timeout,
		expect.Verbose(false),
		expect.CheckDuration(500*time.Millisecond),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to spawn SSH expect session: %w", err)
	}

	session := &Session{
		expecter: exp,
		timeout:  timeout,
	}

	if _, _, err := exp.Expect(huaweiPrompt, timeout); err != nil {
		exp.Close()
		return nil, fmt.Errorf("failed to detect initial prompt: %w", err)
	}

	// Pager failures are non-fatal, the parser skips "More" noise anyway
	_, _ = session.Execute(pagerDisableCommand)

	return session, nil
}

// Execute sends a command, waits for the next prompt and returns the
// cleaned output.
func (s *Session) Execute(command string) (string, error) {
	if s.expecter == nil {
		return "", fmt.Errorf("session not initialized")
	}

	if err := s.expecter.Send(command + "\n"); err != nil {
		return "", fmt.Errorf("failed to send command: %w", err)
	}

	output, _, err := s.expecter.Expect(huaweiPrompt, s.timeout)
	if err != nil {
		return output, fmt.Errorf("timeout waiting for prompt after command %q: %w", command, err)
	}

	return cleanOutput(output, command), nil
}

// cleanOutput removes the command echo and prompt lines from raw output
func cleanOutput(output, command string) string {
	lines := strings.Split(output, "\n")
	var cleaned []string

	for i, line := range lines {
		if i == 0 && strings.Contains(line, command) {
			continue
		}
		if huaweiPrompt.MatchString(strings.TrimSpace(line)) {
			continue
		}
		cleaned = append(cleaned, line)
	}

	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}

// Close closes the expect session
func (s *Session) Close() error {
	if s.expecter != nil {
		return s.expecter.Close()
	}
	return nil
}
