package patientdirectory

// Patient модель пациента из справочника
type Patient struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// createOrFindRequest тело запроса на поиск или создание пациента
type createOrFindRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ErrorResponse модель ошибки от справочника пациентов
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
