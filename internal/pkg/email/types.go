// internal/pkg/email/types.go
package email

// Email represents an outgoing message
type Email struct {
	To          []string
	Subject     string
	HTMLContent string
	TextContent string
}
