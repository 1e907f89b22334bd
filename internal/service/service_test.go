package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/avdeevsm/mayorista-system/internal/cart"
	"github.com/avdeevsm/mayorista-system/internal/favorites"
	"github.com/avdeevsm/mayorista-system/internal/model"
	"github.com/avdeevsm/mayorista-system/internal/order"
	"github.com/avdeevsm/mayorista-system/internal/repository"
	"github.com/avdeevsm/mayorista-system/internal/store"
	"github.com/avdeevsm/mayorista-system/internal/whatsapp"
)

type stubRepo struct {
	productos    []model.Producto
	productosErr error

	generos    []model.Genero
	generosErr error

	createGeneroID  int64
	createGeneroErr error
}

func (s *stubRepo) Close() error { return nil }

func (s *stubRepo) ListProductos(ctx context.Context, f repository.FiltroProductos) ([]model.Producto, error) {
	return s.productos, s.productosErr
}

func (s *stubRepo) GetProducto(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	return nil, repository.ErrNotFound
}

func (s *stubRepo) CreateProducto(ctx context.Context, p model.Producto) (uuid.UUID, error) {
	return uuid.New(), nil
}

func (s *stubRepo) UpdateProducto(ctx context.Context, p model.Producto) error { return nil }
func (s *stubRepo) DeleteProducto(ctx context.Context, id uuid.UUID) error     { return nil }

func (s *stubRepo) ListGeneros(ctx context.Context) ([]model.Genero, error) {
	return s.generos, s.generosErr
}

func (s *stubRepo) CreateGenero(ctx context.Context, nombre string) (int64, error) {
	return s.createGeneroID, s.createGeneroErr
}

func (s *stubRepo) UpdateGenero(ctx context.Context, id int64, nombre string) error { return nil }
func (s *stubRepo) DeleteGenero(ctx context.Context, id int64) error                { return nil }

func (s *stubRepo) ListGruposTalle(ctx context.Context) ([]model.GrupoTalle, error) {
	return nil, nil
}

func (s *stubRepo) CreateGrupoTalle(ctx context.Context, nombre, rango string) (int64, error) {
	return 0, nil
}

func (s *stubRepo) UpdateGrupoTalle(ctx context.Context, id int64, nombre, rango string) error {
	return nil
}

func (s *stubRepo) DeleteGrupoTalle(ctx context.Context, id int64) error { return nil }

func newTestService(repo Repository) *Service {
	st := store.NewMemStore()
	logger := zap.NewNop()

	carrito := cart.New(st, logger)
	favoritos := favorites.New(st, logger)
	historial := order.NewHistorial(st, logger)
	compiler := order.NewCompiler(carrito, historial, whatsapp.NewLinkBuilder("5491122334455"))

	return NewService(repo, carrito, favoritos, historial, compiler, nil)
}

func TestAddToCart_ValidaPack(t *testing.T) {
	svc := newTestService(&stubRepo{})

	err := svc.AddToCart(model.ItemCarrito{
		Nombre:         "Runner X",
		PrecioUnitario: decimal.NewFromInt(120),
		TipoCurva:      model.CurvaAdulto,
		CantidadPares:  10,
	})
	if !errors.Is(err, ErrInvalidPackCount) {
		t.Fatalf("expected ErrInvalidPackCount, got %v", err)
	}

	err = svc.AddToCart(model.ItemCarrito{
		Nombre:         "Runner X",
		PrecioUnitario: decimal.NewFromInt(120),
		TipoCurva:      "talle unico",
		CantidadPares:  12,
	})
	if !errors.Is(err, ErrInvalidCurva) {
		t.Fatalf("expected ErrInvalidCurva, got %v", err)
	}

	if svc.GetCart().Cantidad != 0 {
		t.Fatalf("invalid items must not reach the cart")
	}
}

func TestGetCart_Totales(t *testing.T) {
	svc := newTestService(&stubRepo{})

	for _, pares := range []int{6, 12} {
		err := svc.AddToCart(model.ItemCarrito{
			Nombre:         "Runner X",
			PrecioUnitario: decimal.NewFromInt(100),
			TipoCurva:      model.CurvaAdulto,
			CantidadPares:  pares,
		})
		if err != nil {
			t.Fatalf("AddToCart error: %v", err)
		}
	}

	resumen := svc.GetCart()
	if resumen.Cantidad != 2 {
		t.Fatalf("cantidad = %d, want 2", resumen.Cantidad)
	}
	if resumen.TotalPares != 18 {
		t.Fatalf("total_pares = %d, want 18", resumen.TotalPares)
	}
	if !resumen.Total.Equal(decimal.NewFromInt(1800)) {
		t.Fatalf("total = %s, want 1800", resumen.Total)
	}
}

func TestCheckout_GeneraPedidoYLink(t *testing.T) {
	svc := newTestService(&stubRepo{})

	if err := svc.AddToCart(model.ItemCarrito{
		Nombre:         "Runner X",
		PrecioUnitario: decimal.NewFromInt(120),
		TipoCurva:      model.CurvaAdulto,
		CantidadPares:  12,
	}); err != nil {
		t.Fatalf("AddToCart error: %v", err)
	}

	pedido, link, err := svc.Checkout()
	if err != nil {
		t.Fatalf("Checkout error: %v", err)
	}
	if !pedido.Total.Equal(decimal.NewFromInt(1440)) {
		t.Fatalf("pedido total = %s, want 1440", pedido.Total)
	}
	if !strings.HasPrefix(link, "https://wa.me/") {
		t.Fatalf("unexpected link: %q", link)
	}

	historial := svc.GetHistorial()
	if len(historial) != 1 {
		t.Fatalf("historial length = %d, want 1", len(historial))
	}
}

func TestCheckout_CarritoVacio(t *testing.T) {
	svc := newTestService(&stubRepo{})

	_, _, err := svc.Checkout()
	if !errors.Is(err, order.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if len(svc.GetHistorial()) != 0 {
		t.Fatalf("empty checkout must not create history records")
	}
}

func TestCreateGenero_PropagaDuplicado(t *testing.T) {
	repo := &stubRepo{createGeneroErr: repository.ErrGeneroExists}
	svc := newTestService(repo)

	_, err := svc.CreateGenero(context.Background(), "Hombre")
	if !errors.Is(err, repository.ErrGeneroExists) {
		t.Fatalf("expected ErrGeneroExists, got %v", err)
	}
}

func TestAdminLogin_SinCliente(t *testing.T) {
	svc := newTestService(&stubRepo{})

	_, err := svc.AdminLogin(context.Background(), "tok")
	if err == nil {
		t.Fatalf("expected error without auth client")
	}
}
