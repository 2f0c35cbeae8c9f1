package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// promptURL reads the page URL from standard input.
func promptURL() (string, error) {
	fmt.Fprint(os.Stderr, "Page URL: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading page URL: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptToken reads the bearer token with terminal echo disabled so the
// credential never appears on screen or in scrollback.
func promptToken() (string, error) {
	fmt.Fprint(os.Stderr, "Bearer token: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading bearer token: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}
