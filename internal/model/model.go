// Package model содержит доменные сущности витрины оптовой обуви.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func init() {
	// Сохранённые блобы и ответы API хранят суммы как JSON-числа, а не строки.
	decimal.MarshalJSONWithoutQuotes = true
}

// TipoCurva описывает возрастную/размерную курву, привязанную к позиции корзины.
type TipoCurva string

const (
	CurvaNinos   TipoCurva = "Niño (28-33)"
	CurvaJuvenil TipoCurva = "Juvenil (34-37)"
	CurvaAdulto  TipoCurva = "Adulto (38-43)"
)

// Допустимые размеры упаковки: полдюжины и дюжина пар.
const (
	PackMediaDocena = 6
	PackDocena      = 12
)

// EtiquetaPack возвращает человекочитаемую метку размера упаковки.
func EtiquetaPack(cantidadPares int) string {
	switch cantidadPares {
	case PackMediaDocena:
		return "Media Docena"
	case PackDocena:
		return "Docena"
	default:
		return ""
	}
}

// ItemCarrito представляет одну позицию корзины. TotalLinea вычисляется
// один раз при добавлении и далее не пересчитывается.
type ItemCarrito struct {
	ID             string          `json:"id"`
	Nombre         string          `json:"nombre"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Imagen         string          `json:"imagen"`
	TipoCurva      TipoCurva       `json:"tipo_curva"`
	CantidadPares  int             `json:"cantidad_pares"`
	Color          string          `json:"color,omitempty"`
	Marca          string          `json:"marca,omitempty"`
	TotalLinea     decimal.Decimal `json:"total_linea"`
}

// Favorito представляет сокращённую карточку товара в списке избранного.
type Favorito struct {
	ID         string          `json:"id"`
	Nombre     string          `json:"nombre"`
	Precio     decimal.Decimal `json:"precio"`
	Imagen     string          `json:"imagen"`
	Categoria  string          `json:"categoria"`
	Disponible bool            `json:"disponible"`
}

// EstadoPedido описывает статус локально сохранённого заказа.
type EstadoPedido string

const (
	EstadoEnviado   EstadoPedido = "enviado"
	EstadoPendiente EstadoPedido = "pendiente"
)

// ItemPedido — снимок позиции корзины на момент оформления заказа.
// Это копия по значению: последующие изменения каталога или корзины
// не затрагивают историю.
type ItemPedido struct {
	Nombre        string          `json:"nombre"`
	TipoCurva     TipoCurva       `json:"tipo_curva"`
	CantidadPares int             `json:"cantidad_pares"`
	TotalItem     decimal.Decimal `json:"total_item"`
	Color         string          `json:"color,omitempty"`
}

// Pedido — запись локальной истории заказов. После создания неизменяема,
// допускается только полная очистка истории.
type Pedido struct {
	ID     string          `json:"id"`
	Fecha  time.Time       `json:"fecha"`
	Items  []ItemPedido    `json:"items"`
	Total  decimal.Decimal `json:"total"`
	Estado EstadoPedido    `json:"estado"`
}

// Producto представляет товар каталога в удалённой БД.
type Producto struct {
	ID         uuid.UUID       `json:"id"`
	Nombre     string          `json:"nombre"`
	Precio     decimal.Decimal `json:"precio"`
	Imagen     string          `json:"imagen"`
	Genero     string          `json:"genero"`
	GrupoTalle string          `json:"grupo_talle"`
	Marca      string          `json:"marca"`
	Disponible bool            `json:"disponible"`
	CreadoEn   time.Time       `json:"creado_en"`
}

// Genero — элемент таксономии «пол/аудитория», управляется из админ-панели.
type Genero struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
}

// GrupoTalle — элемент таксономии «размерная группа».
type GrupoTalle struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
	Rango  string `json:"rango"`
}
