package cli_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/felixgeelhaar/fsagent/interfaces/cli"
)

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	app := cli.New().WithOutput(&stdout, &stderr)

	if err := app.ExecuteWithArgs(context.Background(), []string{"version"}); err != nil {
		t.Fatalf("version command error = %v", err)
	}
	if !strings.Contains(stdout.String(), "fsagent version") {
		t.Errorf("version output = %q", stdout.String())
	}
}

func TestUnknownCommand(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	app := cli.New().WithOutput(&stdout, &stderr)

	if err := app.ExecuteWithArgs(context.Background(), []string{"frobnicate"}); err == nil {
		t.Error("unknown command succeeded")
	}
}

func TestIndexCommand_RequiresRoot(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	app := cli.New().WithOutput(&stdout, &stderr)

	if err := app.ExecuteWithArgs(context.Background(), []string{"index"}); err == nil {
		t.Error("index with no roots succeeded")
	}
}
