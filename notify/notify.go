// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds in-flight sends.
const DefaultConcurrency = 4

// Draw is what one giver learns after a draw.
type Draw struct {
	GroupName      string
	Budget         string
	GiverName      string
	GiverEmail     string
	TargetName     string
	TargetWishlist string
}

// Notifier tells givers who they drew.
type Notifier struct {
	mailer      Mailer
	from        string
	concurrency int
}

// New creates a Notifier sending from the given address.
func New(mailer Mailer, from string) *Notifier {
	return &Notifier{mailer: mailer, from: from, concurrency: DefaultConcurrency}
}

var drawTemplate = template.Must(template.New("draw").Parse(
	`<p>Hi {{.GiverName}},</p>` +
		`<p>You are buying for <b>{{.TargetName}}</b>!</p>` +
		`<p>Wishlist: {{if .TargetWishlist}}{{.TargetWishlist}}{{else}}none listed{{end}}</p>` +
		`{{if .Budget}}<p>Budget: {{.Budget}}</p>{{end}}`,
))

// Compose renders the email for d.
func (n *Notifier) Compose(d Draw) (Email, error) {
	var body bytes.Buffer
	if err := drawTemplate.Execute(&body, d); err != nil {
		return Email{}, fmt.Errorf("render draw email: %w", err)
	}
	return Email{
		From:    n.from,
		To:      d.GiverEmail,
		Subject: fmt.Sprintf("Your Secret Santa for %s!", d.GroupName),
		HTML:    body.String(),
	}, nil
}

// NotifyDraw emails every giver that has an address. All sends are
// attempted; the failures are joined into the returned error.
func (n *Notifier) NotifyDraw(ctx context.Context, draws []Draw) error {
	errs := make([]error, len(draws))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(n.concurrency)

	for i, d := range draws {
		if d.GiverEmail == "" {
			continue
		}
		g.Go(func() error {
			email, err := n.Compose(d)
			if err == nil {
				err = n.mailer.Send(ctx, email)
			}
			if err != nil {
				errs[i] = fmt.Errorf("notify %s: %w", d.GiverEmail, err)
				return nil
			}
			slog.Debug("draw email sent", "to", d.GiverEmail)
			return nil
		})
	}

	_ = g.Wait()
	return errors.Join(errs...)
}
