package email

// Email is one outbound message.
type Email struct {
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// Provider sends notification emails. Delivery is best-effort everywhere
// it is used; the submission pipeline never depends on it.
type Provider interface {
	Send(email *Email) error
	Validate() error
}
