package domain

import (
	"encoding/hex"
	"strconv"

	"golang.org/x/crypto/blake2b"
)

// Columnas con las que fue entrenado el modelo, en orden.
const (
	ColumnEmploymentStatus = "employment_status"
	ColumnInterestRate     = "interest_rate"
	ColumnEducationLevel   = "education_level"
)

// ApplicationRecord es la fila unica que se envia al clasificador.
// Se construye por cada envio del formulario y nunca se persiste.
type ApplicationRecord struct {
	EmploymentStatus string  `json:"employment_status"`
	InterestRate     float64 `json:"interest_rate"`
	EducationLevel   string  `json:"education_level"`
}

// Columns devuelve los nombres de columna en el orden de entrenamiento.
func (r ApplicationRecord) Columns() []string {
	return []string{ColumnEmploymentStatus, ColumnInterestRate, ColumnEducationLevel}
}

// Row devuelve los valores alineados con Columns.
func (r ApplicationRecord) Row() []any {
	return []any{r.EmploymentStatus, r.InterestRate, r.EducationLevel}
}

// Value devuelve el valor de una columna por nombre.
func (r ApplicationRecord) Value(column string) (any, bool) {
	switch column {
	case ColumnEmploymentStatus:
		return r.EmploymentStatus, true
	case ColumnInterestRate:
		return r.InterestRate, true
	case ColumnEducationLevel:
		return r.EducationLevel, true
	}
	return nil, false
}

// Fingerprint calcula un digest estable de la fila (BLAKE2b-256 en hex).
func (r ApplicationRecord) Fingerprint() string {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(r.EmploymentStatus))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatFloat(r.InterestRate, 'g', -1, 64)))
	h.Write([]byte{0})
	h.Write([]byte(r.EducationLevel))
	return hex.EncodeToString(h.Sum(nil))
}
