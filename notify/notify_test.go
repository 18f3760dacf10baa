// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type recordingMailer struct {
	mu     sync.Mutex
	sent   []Email
	failTo map[string]bool
}

func (m *recordingMailer) Send(ctx context.Context, email Email) error {
	if m.failTo[email.To] {
		return errors.New("mailbox full")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, email)
	return nil
}

func (m *recordingMailer) recipients() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.sent))
	for _, e := range m.sent {
		out = append(out, e.To)
	}
	sort.Strings(out)
	return out
}

func TestNotifyDraw_SendsToGiversWithEmail(t *testing.T) {
	defer goleak.VerifyNone(t)

	mailer := &recordingMailer{}
	n := New(mailer, "santa@example.org")

	draws := []Draw{
		{GroupName: "Office", GiverName: "Ann", GiverEmail: "ann@example.org", TargetName: "Bob"},
		{GroupName: "Office", GiverName: "Bob", GiverEmail: "", TargetName: "Cy"},
		{GroupName: "Office", GiverName: "Cy", GiverEmail: "cy@example.org", TargetName: "Ann"},
	}

	require.NoError(t, n.NotifyDraw(context.Background(), draws))
	assert.Equal(t, []string{"ann@example.org", "cy@example.org"}, mailer.recipients())
}

func TestNotifyDraw_FailuresDoNotStopOthers(t *testing.T) {
	defer goleak.VerifyNone(t)

	mailer := &recordingMailer{failTo: map[string]bool{"b@example.org": true}}
	n := New(mailer, "santa@example.org")

	var draws []Draw
	for _, addr := range []string{"a@example.org", "b@example.org", "c@example.org", "d@example.org", "e@example.org", "f@example.org"} {
		draws = append(draws, Draw{GroupName: "G", GiverEmail: addr, TargetName: "X"})
	}

	err := n.NotifyDraw(context.Background(), draws)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "b@example.org")
	assert.Len(t, mailer.recipients(), 5)
}

func TestCompose_EscapesUserInput(t *testing.T) {
	n := New(LogMailer{}, "santa@example.org")

	email, err := n.Compose(Draw{
		GroupName:      "Family",
		Budget:         "$25.00",
		GiverName:      "Ann",
		GiverEmail:     "ann@example.org",
		TargetName:     "<script>alert(1)</script>",
		TargetWishlist: "socks & books",
	})
	require.NoError(t, err)

	assert.Equal(t, "Your Secret Santa for Family!", email.Subject)
	assert.Equal(t, "santa@example.org", email.From)
	assert.Equal(t, "ann@example.org", email.To)
	assert.NotContains(t, email.HTML, "<script>")
	assert.Contains(t, email.HTML, "socks &amp; books")
	assert.Contains(t, email.HTML, "Budget: $25.00")
}

func TestCompose_EmptyWishlist(t *testing.T) {
	n := New(LogMailer{}, "santa@example.org")

	email, err := n.Compose(Draw{GroupName: "G", TargetName: "Bob"})
	require.NoError(t, err)
	assert.Contains(t, email.HTML, "Wishlist: none listed")
	assert.NotContains(t, email.HTML, "Budget:")
}

func TestResendMailer_Send(t *testing.T) {
	var got resendRequest
	var auth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"email_123"}`))
	}))
	defer srv.Close()

	m := NewResendMailer("re_test", srv.URL)
	err := m.Send(context.Background(), Email{From: "santa@example.org", To: "ann@example.org", Subject: "Hi", HTML: "<p>x</p>"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer re_test", auth)
	assert.Equal(t, []string{"ann@example.org"}, got.To)
	assert.Equal(t, "Hi", got.Subject)
}

func TestResendMailer_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"statusCode":422,"message":"Invalid to field"}`))
	}))
	defer srv.Close()

	m := NewResendMailer("re_test", srv.URL)
	err := m.Send(context.Background(), Email{To: "bad"})
	require.Error(t, err)

	assert.True(t, IsStatus(err, http.StatusUnprocessableEntity))
	assert.True(t, strings.Contains(err.Error(), "Invalid to field"))
}

func TestResendMailer_DefaultEndpoint(t *testing.T) {
	m := NewResendMailer("re_test", "")
	assert.Equal(t, DefaultResendURL, m.endpoint)
}
