package usecase

// ExtractBase64Input тело запроса на извлечение из base64
type ExtractBase64Input struct {
	ContentBytes string  // base64 содержимое PDF
	Name         *string // Необязательная метка, возвращается как filename
}
