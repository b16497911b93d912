// Package models содержит типы данных, которыми обмениваются хранилище и сервис.
package models

// ShortLink описывает пару «короткий код → адрес назначения»
type ShortLink struct {
	Code           string `json:"short_url" db:"shortUrl"`
	DestinationURL string `json:"url" db:"url"`
}

// Quotation представляет строку таблицы quotations
type Quotation struct {
	Collection string `json:"collection" db:"collection"`
	Quote      string `json:"quote" db:"quote"`
	Source     string `json:"source,omitempty" db:"source"`
}

// HasSource сообщает, есть ли у цитаты непустая подпись
func (q Quotation) HasSource() bool {
	return q.Source != ""
}

// FallbackQuotation возвращает цитату, которая показывается при отсутствии данных
func FallbackQuotation() Quotation {
	return Quotation{
		Collection: "hardcoded",
		Quote:      "Don't panic",
		Source:     "–Douglas Adams",
	}
}
