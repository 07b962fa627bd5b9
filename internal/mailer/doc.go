// Package mailer delivers rendered reports over SMTP. Message assembly
// and transport use go-mail; delivery runs beneath the shared retry
// executor so transient connection failures are absorbed.
package mailer
