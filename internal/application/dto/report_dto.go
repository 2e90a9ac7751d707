package dto

// ReportRow una fila del reporte de asistencia, ya formateada en la zona
// horaria de presentación.
type ReportRow struct {
	EmployeeID string `json:"employee_id"`
	FullName   string `json:"full_name"`
	Date       string `json:"date"`     // DD/MM/AAAA
	FirstIn    string `json:"first_in"` // HH:MM del primer emparejamiento completo
	LastOut    string `json:"last_out"` // HH:MM del último emparejamiento completo
	Worked     string `json:"worked"`   // HH:MM entre ambos (00:00 con un solo emparejamiento)
}

// AttendanceReportResponse reporte listo para la API.
type AttendanceReportResponse struct {
	Period string      `json:"period"`
	Rows   []ReportRow `json:"rows"`
}
