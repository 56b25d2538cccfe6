package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/genricoloni/musicbridge/internal/commands"
	"github.com/genricoloni/musicbridge/internal/domain"
	"github.com/genricoloni/musicbridge/internal/server"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const invokeTimeout = 15 * time.Second

var invokeCmd = &cobra.Command{
	Use:       "invoke <command>",
	Short:     "Send a command to the running daemon",
	Long:      "Send a command to the running daemon. Commands: " + commandList(),
	Args:      cobra.ExactArgs(1),
	ValidArgs: commandNames(),
	RunE:      invokeRun,
}

func commandNames() []string {
	var names []string
	for _, c := range domain.Commands() {
		names = append(names, string(c))
	}
	return names
}

func commandList() string {
	return strings.Join(commandNames(), ", ")
}

func invokeRun(cmd *cobra.Command, args []string) error {
	name, err := commands.Parse(args[0])
	if err != nil {
		return fmt.Errorf("%w (expected one of: %s)", err, commandList())
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), invokeTimeout)
	defer cancel()

	base := "http://" + cfg.ListenAddr
	outcome, err := postCommand(ctx, http.DefaultClient, base, name)
	if err != nil {
		return err
	}

	// Warnings are always reported, even in pipelines
	if outcome != nil && outcome.Type == server.MessageNotice {
		fmt.Fprintln(cmd.ErrOrStderr(), outcome.Message)
		return nil
	}

	// Stay quiet in pipelines
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), describeOutcome(base, name, outcome))
	return nil
}

// describeOutcome formats a successful command for the terminal
func describeOutcome(base string, name domain.CommandName, outcome *server.Message) string {
	if outcome != nil && outcome.Type == server.MessageDocument {
		return fmt.Sprintf("%s: %s%s", outcome.Title, base, outcome.URL)
	}
	return fmt.Sprintf("%s: ok", name)
}

// postCommand sends one command to the daemon's HTTP surface.
// The outcome is non-nil when the daemon reports what the command presented.
func postCommand(ctx context.Context, client *http.Client, base string, name domain.CommandName) (*server.Message, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/commands/"+string(name), nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("contacting daemon at %s: %w", base, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent:
		return nil, nil
	case http.StatusOK:
		var outcome server.Message
		if err := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&outcome); err != nil {
			return nil, fmt.Errorf("decoding %s response: %w", name, err)
		}
		return &outcome, nil
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("daemon rejected %s: %s: %s", name, resp.Status, strings.TrimSpace(string(body)))
	}
}
