package entity

// Company datos del emisor que encabezan las exportaciones (Excel/PDF).
// Se leen de la configuración; no se persisten.
type Company struct {
	Name    string
	Address string
	Phone   string
}
