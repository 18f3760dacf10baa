// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package notify emails draw results to givers.

A Notifier renders one email per giver and hands it to a Mailer.
ResendMailer posts to the Resend API; LogMailer only logs and is used when
RESEND_API_KEY is unset.

	n := notify.New(notify.NewResendMailer(cfg.ResendAPIKey, ""), cfg.MailFrom)
	if err := n.NotifyDraw(ctx, draws); err != nil {
		slog.Warn("some draw emails failed", "error", err)
	}

Sends run concurrently, at most DefaultConcurrency at a time. A failed send
never cancels the others. Notification runs after the draw is committed and
its errors never undo it.
*/
package notify
