// Package validation содержит функции валидации входных данных.
package validation

import "github.com/avdeevsm/mayorista-system/internal/model"

// IsValidPackCount проверяет, что размер упаковки входит в закрытый набор:
// полдюжины или дюжина пар.
func IsValidPackCount(cantidadPares int) bool {
	return cantidadPares == model.PackMediaDocena || cantidadPares == model.PackDocena
}

// IsValidCurva проверяет, что метка курвы принадлежит закрытому набору.
func IsValidCurva(curva model.TipoCurva) bool {
	switch curva {
	case model.CurvaNinos, model.CurvaJuvenil, model.CurvaAdulto:
		return true
	}
	return false
}
