// Package mail defines the outbound mail collaborator of the server.
// Delivery itself is owned by whatever implementation is plugged in; the
// server only builds the activation message.
package mail

import (
	"bytes"
	"context"
	"text/template"

	"github.com/nkarpov/authd/internal/logging"
)

// Sender delivers account activation messages. Sends are best effort from
// the caller's perspective: a failed delivery never rolls registration back.
type Sender interface {
	SendActivationMail(ctx context.Context, email, activationURL string) error
}

var activationTemplate = template.Must(template.New("activation").Parse(`Hi {{.Email}},

Follow this link to activate your account:

{{.ActivationURL}}

If you did not register, you can ignore this message.
`))

type activationParams struct {
	Email         string
	ActivationURL string
}

// LogSender renders the activation message and writes it to the log instead
// of delivering it. It stands in wherever a real mail transport is not wired.
type LogSender struct {
	logger logging.Logger
	from   string
}

// NewLogSender constructs a LogSender announcing messages as sent from from.
func NewLogSender(logger logging.Logger, from string) *LogSender {
	return &LogSender{logger: logger.With("module", "mail"), from: from}
}

func (s *LogSender) SendActivationMail(ctx context.Context, email, activationURL string) error {
	var body bytes.Buffer
	err := activationTemplate.Execute(&body, activationParams{Email: email, ActivationURL: activationURL})
	if err != nil {
		return err
	}
	s.logger.Info(ctx, "activation mail", "from", s.from, "to", email, "body", body.String())
	return nil
}
