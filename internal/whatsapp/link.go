// Package whatsapp строит deep-link для передачи заказа в мессенджер.
package whatsapp

import (
	"net/url"
	"strings"
)

const baseURL = "https://wa.me/"

// LinkBuilder формирует ссылки wa.me для фиксированного номера получателя.
type LinkBuilder struct {
	numero string
}

// NewLinkBuilder создаёт построитель ссылок. Номер нормализуется:
// wa.me принимает только цифры в международном формате.
func NewLinkBuilder(numero string) *LinkBuilder {
	r := strings.NewReplacer("+", "", " ", "", "-", "", "(", "", ")", "")
	return &LinkBuilder{numero: r.Replace(numero)}
}

// Link возвращает ссылку с URL-кодированным текстом сообщения.
func (b *LinkBuilder) Link(mensaje string) string {
	return baseURL + b.numero + "?text=" + url.QueryEscape(mensaje)
}
