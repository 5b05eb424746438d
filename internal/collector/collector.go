package collector

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/ontreportdb/internal/logging"
)

// Target describes one OLT to collect from. Name becomes the dump
// filename (and therefore the OLT name the parser derives), so it
// should follow the site naming convention.
type Target struct {
	Name     string
	Address  string
	Port     int
	Username string
	Password string
	// Ports lists the PON ports to query as "board/slot/port". Empty
	// means query the whole shelf with the per-board variant.
	Ports   []string
	Timeout time.Duration
}

// Collector runs the ONT summary command set against OLTs and writes
// one dump file per target.
type Collector struct {
	outputDir string
}

// New creates a collector writing dumps into outputDir
func New(outputDir string) *Collector {
	return &Collector{outputDir: outputDir}
}

// Collect connects to one OLT, gathers `display ont info summary`
// output for its ports and writes `<Name>.txt`. Returns the dump path.
func (c *Collector) Collect(ctx context.Context, target Target) (string, error) {
	if target.Name == "" {
		return "", fmt.Errorf("target name is required")
	}
	if target.Port == 0 {
		target.Port = 22
	}
	if target.Timeout == 0 {
		target.Timeout = 30 * time.Second
	}

	sshConfig := &ssh.ClientConfig{
		User: target.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(target.Password),
			ssh.KeyboardInteractive(func(name, instruction string, questions []string, echos []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range questions {
					answers[i] = target.Password
				}
				return answers, nil
			}),
		},
		Timeout:         target.Timeout,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec // OLT management networks rarely have known_hosts
	}

	start := time.Now()
	addr := fmt.Sprintf("%s:%d", target.Address, target.Port)

	logging.Info("connecting to OLT", logging.OLT(target.Name), "address", addr)

	client, err := ssh.Dial("tcp", addr, sshConfig)
	if err != nil {
		return "", fmt.Errorf("failed to dial SSH to %s: %w", target.Name, err)
	}
	defer client.Close()

	session, err := NewSession(client, target.Timeout)
	if err != nil {
		return "", fmt.Errorf("failed to start CLI session on %s: %w", target.Name, err)
	}
	defer session.Close()

	// The summary command needs the privileged view
	if _, err := session.Execute("enable"); err != nil {
		return "", fmt.Errorf("failed to enter privileged view on %s: %w", target.Name, err)
	}

	output, err := c.gather(ctx, session, target)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(c.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(c.outputDir, target.Name+".txt")
	if err := os.WriteFile(path, []byte(output), 0644); err != nil {
		return "", fmt.Errorf("failed to write dump file: %w", err)
	}

	logging.Info("collected OLT dump",
		logging.OLT(target.Name), logging.File(path),
		logging.Count("byte", len(output)), logging.Duration("collect", time.Since(start)))

	return path, nil
}

// gather runs the summary command for every configured port
func (c *Collector) gather(ctx context.Context, session *Session, target Target) (string, error) {
	ports := target.Ports
	if len(ports) == 0 {
		return "", fmt.Errorf("no PON ports configured for %s", target.Name)
	}

	var sb strings.Builder
	for _, port := range ports {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		cmd := "display ont info summary " + port
		output, err := session.Execute(cmd)
		if err != nil {
			logging.Warn("port query failed",
				logging.OLT(target.Name), logging.PONPort(port), logging.Err(err))
			continue
		}

		sb.WriteString(output)
		sb.WriteString("\n")
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("no output collected from %s", target.Name)
	}

	return sb.String(), nil
}

// CollectAll runs Collect for every target, returning the dump paths
// of the targets that succeeded.
func (c *Collector) CollectAll(ctx context.Context, targets []Target) []string {
	var paths []string
	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return paths
		}

		path, err := c.Collect(ctx, target)
		if err != nil {
			logging.Error("collection failed", logging.OLT(target.Name), logging.Err(err))
			continue
		}
		paths = append(paths, path)
	}
	return paths
}
