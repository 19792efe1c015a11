package repository

// SequenceRepository asigna consecutivos únicos por (boutique, familia de documento).
// Next se ejecuta dentro de la transacción del caller: si la transacción hace
// rollback, el número nunca se observa. Se admiten huecos, nunca duplicados.
type SequenceRepository interface {
	Next(boutiqueID, docType string) (int64, error)
}
