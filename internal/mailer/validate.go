package mailer

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/alhadhrami/bizreport/pkg/bizreport"
)

// ValidateEmailList normalizes and validates recipient addresses. Every
// address must parse and carry a dotted domain. An empty list or any bad
// address fails the whole list.
func ValidateEmailList(emails []string) ([]string, error) {
	if len(emails) == 0 {
		return nil, fmt.Errorf("%w: recipient list is empty", bizreport.ErrInvalidRecipient)
	}

	valid := make([]string, 0, len(emails))
	for _, email := range emails {
		email = strings.TrimSpace(email)
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		valid = append(valid, email)
	}
	return valid, nil
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("%w: %q", bizreport.ErrInvalidRecipient, email)
	}
	// Require a dotted domain so bare hostnames like user@localhost are
	// rejected the same way the address-format check always has.
	domain := email[strings.LastIndex(email, "@")+1:]
	if !strings.Contains(domain, ".") || strings.HasSuffix(domain, ".") {
		return fmt.Errorf("%w: %q", bizreport.ErrInvalidRecipient, email)
	}
	return nil
}
