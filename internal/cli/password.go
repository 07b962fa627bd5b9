package cli

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// promptPassword reads a password from the terminal without echo. Fails
// when stdin is not a terminal; piped input must use SMTP_PASSWORD.
func promptPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("--prompt-password requires an interactive terminal; set SMTP_PASSWORD instead")
	}

	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(password), nil
}
