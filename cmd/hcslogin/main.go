// Command hcslogin submits a self-check portal password through the secure
// keypad protocol and prints the issued token as JSON.
//
// Usage:
//
//	hcslogin login    read the password from the terminal (or stdin) and log in
//	hcslogin check    report whether the account has a password
//
// Configuration comes from the environment, after loading .env if present:
//
//	HCS_TOKEN       authorization token (required)
//	HCS_BASE_URL    portal base URL
//	HCS_TIMEOUT     per-request timeout, e.g. 20s
//	HCS_LOG_LEVEL   zerolog level, default warn
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	hcs "github.com/hcskit/client-go"
)

const usage = "usage: hcslogin <login|check>"

// Config holds the process dependencies so tests can replace them.
type Config struct {
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Getenv  func(string) string
	EnvFile string
}

// DefaultConfig returns a Config wired to the real process.
func DefaultConfig() Config {
	return Config{
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Getenv:  os.Getenv,
		EnvFile: ".env",
	}
}

// LoginOutput is printed after a successful login.
type LoginOutput struct {
	Token     string `json:"token"`
	AttemptID string `json:"attemptId"`
}

// RejectedOutput is printed when the portal refuses the password.
type RejectedOutput struct {
	Error     string `json:"error"`
	FailCount int    `json:"failCount"`
	Remaining int    `json:"remaining"`
	Locked    bool   `json:"locked"`
}

func run(args []string, cfg Config) error {
	if len(args) < 2 {
		return errors.New(usage)
	}

	if cfg.EnvFile != "" {
		if err := godotenv.Load(cfg.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", cfg.EnvFile, err)
		}
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	opts := []hcs.Option{hcs.WithLogger(logger)}
	if url := cfg.Getenv("HCS_BASE_URL"); url != "" {
		opts = append(opts, hcs.WithBaseURL(url))
	}
	timeout := 60 * time.Second
	if v := cfg.Getenv("HCS_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("HCS_TIMEOUT: %w", err)
		}
		timeout = d
		opts = append(opts, hcs.WithTimeout(d))
	}

	client, err := hcs.New(cfg.Getenv("HCS_TOKEN"), opts...)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*timeout)
	defer cancel()

	switch args[1] {
	case "login":
		return login(ctx, client, cfg)
	case "check":
		return check(ctx, client, cfg)
	default:
		return fmt.Errorf("unknown command: %s\n%s", args[1], usage)
	}
}

func newLogger(cfg Config) (zerolog.Logger, error) {
	level := zerolog.WarnLevel
	if v := cfg.Getenv("HCS_LOG_LEVEL"); v != "" {
		l, err := zerolog.ParseLevel(strings.ToLower(v))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("HCS_LOG_LEVEL: %w", err)
		}
		level = l
	}
	out := zerolog.ConsoleWriter{Out: cfg.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}

func login(ctx context.Context, client *hcs.Client, cfg Config) error {
	password, err := readPassword(cfg.Stdin, cfg.Stderr)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	auth, err := client.Login(ctx, password)
	var rejected *hcs.AuthorizationRejectedError
	var locked *hcs.AccountLockedError
	switch {
	case errors.As(err, &rejected):
		writeJSON(cfg.Stdout, RejectedOutput{
			Error:     "wrong password",
			FailCount: rejected.FailCount,
			Remaining: rejected.Remaining(),
		})
		return err
	case errors.As(err, &locked):
		writeJSON(cfg.Stdout, RejectedOutput{
			Error:     "account locked",
			FailCount: locked.FailCount,
			Locked:    true,
		})
		return err
	case err != nil:
		return fmt.Errorf("login: %w", err)
	}

	return writeJSON(cfg.Stdout, LoginOutput{Token: auth.Token, AttemptID: auth.AttemptID})
}

func check(ctx context.Context, client *hcs.Client, cfg Config) error {
	ok, err := client.HasPassword(ctx)
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}
	return writeJSON(cfg.Stdout, map[string]bool{"hasPassword": ok})
}

// readPassword prompts without echo on a terminal and reads one line
// otherwise.
func readPassword(stdin io.Reader, prompt io.Writer) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
