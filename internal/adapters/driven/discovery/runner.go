package discovery

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"text/template"
	"time"

	"github.com/datamill-co/knots/internal/core/domain"
	"github.com/datamill-co/knots/internal/core/ports/driven"
	"github.com/datamill-co/knots/internal/logger"
)

// Ensure Runner implements the interface.
var _ driven.DiscoveryRunner = (*Runner)(nil)

// waitDelay bounds how long Run waits for output pipes after the process is killed.
const waitDelay = 5 * time.Second

// Config configures a Runner.
type Config struct {
	// Command is the text/template shell command.
	Command string
	// Timeout bounds each run. Zero disables the bound.
	Timeout time.Duration
	// WorkDir is the directory the command runs in.
	WorkDir string
	// CatalogPath is where the command is expected to write the catalog.
	CatalogPath string
	// Shell is the interpreter invoked with -c. Defaults to "sh".
	Shell string
}

// TemplateData is the data the command template is rendered with.
type TemplateData struct {
	TapName     string
	TapVersion  string
	WorkDir     string
	StageDir    string
	ConfigPath  string
	CatalogPath string
}

// Runner stages configuration and runs the discovery command.
type Runner struct {
	stager  driven.ConfigStager
	tmpl    *template.Template
	timeout time.Duration
	workDir string
	catalog string
	shell   string
}

// NewRunner creates a runner. The command template is parsed eagerly.
func NewRunner(stager driven.ConfigStager, cfg Config) (*Runner, error) {
	if strings.TrimSpace(cfg.Command) == "" {
		return nil, fmt.Errorf("%w: discovery command is empty", domain.ErrInvalidInput)
	}
	tmpl, err := template.New("discovery").
		Option("missingkey=error").
		Funcs(template.FuncMap{"quote": shellQuote}).
		Parse(cfg.Command)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing discovery command: %w", domain.ErrInvalidInput, err)
	}

	shell := cfg.Shell
	if shell == "" {
		shell = "sh"
	}
	return &Runner{
		stager:  stager,
		tmpl:    tmpl,
		timeout: cfg.Timeout,
		workDir: cfg.WorkDir,
		catalog: cfg.CatalogPath,
		shell:   shell,
	}, nil
}

// Run stages req.Values and runs the discovery command to completion.
func (r *Runner) Run(ctx context.Context, req driven.DiscoveryRequest) error {
	if err := r.stager.Stage(ctx, req.Values); err != nil {
		return fmt.Errorf("staging config: %w", err)
	}

	data := TemplateData{
		TapName:     req.TapName,
		TapVersion:  req.TapVersion,
		WorkDir:     r.workDir,
		StageDir:    r.stager.StageDir(),
		ConfigPath:  r.stager.ConfigPath(),
		CatalogPath: r.catalog,
	}
	command, err := r.render(data)
	if err != nil {
		return err
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	logger.Debug("Discovery command: %s", command)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.shell, "-c", command)
	cmd.Dir = r.workDir
	cmd.Env = append(os.Environ(),
		"KNOTS_TAP_NAME="+data.TapName,
		"KNOTS_TAP_VERSION="+data.TapVersion,
		"KNOTS_STAGE_DIR="+data.StageDir,
		"KNOTS_CONFIG_PATH="+data.ConfigPath,
		"KNOTS_CATALOG_PATH="+data.CatalogPath,
	)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay
	killGroup(cmd)

	runErr := cmd.Run()

	if ctxErr := ctx.Err(); ctxErr != nil {
		msg := "discovery cancelled"
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			msg = fmt.Sprintf("discovery timed out after %s", r.timeout)
		}
		return &domain.DiscoveryError{Message: msg, ExitCode: -1, Err: ctxErr}
	}

	diagnostics := strings.TrimSpace(stderr.String())
	if runErr != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		msg := diagnostics
		if msg == "" {
			msg = runErr.Error()
		}
		return &domain.DiscoveryError{Message: msg, ExitCode: exitCode, Err: runErr}
	}
	if stderr.Len() > 0 {
		return &domain.DiscoveryError{Message: diagnostics, ExitCode: 0}
	}

	if out := strings.TrimSpace(stdout.String()); out != "" {
		logger.Debug("Discovery stdout: %s", out)
	}
	return nil
}

func (r *Runner) render(data TemplateData) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: rendering discovery command: %w", domain.ErrInvalidInput, err)
	}
	return buf.String(), nil
}

// shellQuote wraps s in single quotes for POSIX shells.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
