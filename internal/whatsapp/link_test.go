package whatsapp

import (
	"net/url"
	"strings"
	"testing"
)

func TestLink_NormalizaNumero(t *testing.T) {
	tests := []struct {
		name   string
		numero string
		want   string
	}{
		{name: "plain digits", numero: "5491122334455", want: "https://wa.me/5491122334455?text="},
		{name: "international format", numero: "+54 9 11 2233-4455", want: "https://wa.me/5491122334455?text="},
		{name: "with parentheses", numero: "+54 (911) 2233-4455", want: "https://wa.me/5491122334455?text="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewLinkBuilder(tt.numero)
			got := b.Link("")
			if got != tt.want {
				t.Fatalf("link = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLink_CodificaMensaje(t *testing.T) {
	b := NewLinkBuilder("5491122334455")

	link := b.Link("Pedido: Runner X $1440\nTotal: $1440")

	if strings.Contains(link, "\n") || strings.Contains(link, " ") {
		t.Fatalf("link must not contain raw whitespace: %q", link)
	}

	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("parse link: %v", err)
	}
	if got := u.Query().Get("text"); got != "Pedido: Runner X $1440\nTotal: $1440" {
		t.Fatalf("decoded text = %q", got)
	}
}
