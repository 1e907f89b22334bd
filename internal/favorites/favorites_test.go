package favorites

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/avdeevsm/mayorista-system/internal/model"
	"github.com/avdeevsm/mayorista-system/internal/store"
)

func favPrueba(id, nombre string) model.Favorito {
	return model.Favorito{
		ID:         id,
		Nombre:     nombre,
		Precio:     decimal.NewFromInt(150),
		Imagen:     "https://img.example/" + id + ".jpg",
		Categoria:  "zapatillas",
		Disponible: true,
	}
}

func TestToggle_AgregaYQuita(t *testing.T) {
	f := New(store.NewMemStore(), zap.NewNop())

	miembro := f.Toggle(favPrueba("p1", "Runner X"))
	assert.True(t, miembro)
	assert.True(t, f.IsFavorite("p1"))

	miembro = f.Toggle(favPrueba("p1", "Runner X"))
	assert.False(t, miembro)
	assert.False(t, f.IsFavorite("p1"))
}

func TestToggle_EsInvolucion(t *testing.T) {
	f := New(store.NewMemStore(), zap.NewNop())
	f.Toggle(favPrueba("p1", "Runner X"))

	antes := f.List()

	f.Toggle(favPrueba("p2", "Urbana Z"))
	f.Toggle(favPrueba("p2", "Urbana Z"))

	if diff := cmp.Diff(antes, f.List()); diff != "" {
		t.Fatalf("double toggle must restore membership (-want +got):\n%s", diff)
	}
}

func TestList_ConservaOrdenDeInsercion(t *testing.T) {
	f := New(store.NewMemStore(), zap.NewNop())

	f.Toggle(favPrueba("p1", "Runner X"))
	f.Toggle(favPrueba("p2", "Urbana Z"))
	f.Toggle(favPrueba("p3", "Trekking W"))

	list := f.List()
	require.Len(t, list, 3)
	assert.Equal(t, "p1", list[0].ID)
	assert.Equal(t, "p2", list[1].ID)
	assert.Equal(t, "p3", list[2].ID)
}

func TestNew_RehidrataDesdeElStore(t *testing.T) {
	st := store.NewMemStore()

	f := New(st, zap.NewNop())
	f.Toggle(favPrueba("p1", "Runner X"))
	f.Toggle(favPrueba("p2", "Urbana Z"))

	f2 := New(st, zap.NewNop())

	if diff := cmp.Diff(f.List(), f2.List()); diff != "" {
		t.Fatalf("favorites round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestNew_BlobMalformado(t *testing.T) {
	st := store.NewMemStore()
	require.NoError(t, st.Set(store.KeyFavoritos, []byte(`no-json`)))

	f := New(st, zap.NewNop())

	assert.Empty(t, f.List())
	assert.False(t, f.IsFavorite("p1"))
}
