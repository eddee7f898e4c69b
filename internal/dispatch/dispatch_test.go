package dispatch

import (
	"context"
	"net/url"
	"strings"
	"testing"
)

func TestDeepLinkURL(t *testing.T) {
	dl := &DeepLink{}

	t.Run("plain text", func(t *testing.T) {
		got := dl.URL("573001112233", "Hola")
		want := "https://wa.me/573001112233?text=Hola"
		if got != want {
			t.Errorf("URL = %q, want %q", got, want)
		}
	})

	t.Run("encodes spaces, newlines, and accents", func(t *testing.T) {
		body := "*NUEVO PEDIDO*\n\nCamiseta Básica\nTotal: $50.000"
		got := dl.URL("573001112233", body)

		if !strings.HasPrefix(got, "https://wa.me/573001112233?text=") {
			t.Fatalf("unexpected prefix: %q", got)
		}

		// The encoded text must round-trip to the original body
		u, err := url.Parse(got)
		if err != nil {
			t.Fatalf("parsing link: %v", err)
		}
		if decoded := u.Query().Get("text"); decoded != body {
			t.Errorf("round-trip = %q, want %q", decoded, body)
		}

		// No raw whitespace survives in the link itself
		if strings.ContainsAny(got, " \n") {
			t.Errorf("link contains unencoded whitespace: %q", got)
		}
	})
}

func TestDeepLinkSend(t *testing.T) {
	t.Run("nil Open succeeds", func(t *testing.T) {
		dl := &DeepLink{}
		if err := dl.Send(context.Background(), "573001112233", "Hola"); err != nil {
			t.Errorf("Send = %v, want nil", err)
		}
	})

	t.Run("Open receives the built link", func(t *testing.T) {
		var opened string
		dl := &DeepLink{Open: func(ctx context.Context, link string) error {
			opened = link
			return nil
		}}

		if err := dl.Send(context.Background(), "573001112233", "Hola mundo"); err != nil {
			t.Fatal(err)
		}
		if opened != dl.URL("573001112233", "Hola mundo") {
			t.Errorf("Open got %q", opened)
		}
	})
}

func TestMockRecordsSends(t *testing.T) {
	m := &Mock{}
	if err := m.Send(context.Background(), "1", "uno"); err != nil {
		t.Fatal(err)
	}
	if err := m.Send(context.Background(), "2", "dos"); err != nil {
		t.Fatal(err)
	}

	if len(m.Sent) != 2 {
		t.Fatalf("Sent = %d, want 2", len(m.Sent))
	}
	if m.Sent[1].To != "2" || m.Sent[1].Body != "dos" {
		t.Errorf("unexpected record: %+v", m.Sent[1])
	}
}
