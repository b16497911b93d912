// Package qrcode строит QR-код канонического адреса запроса и упаковывает его
// в data URI с SVG-изображением, которое можно встроить прямо в страницу.
package qrcode

import (
	"bytes"
	"encoding/base64"
	"fmt"

	svg "github.com/ajstarks/svgo"
	goqrcode "github.com/skip2/go-qrcode"
)

const (
	// Version фиксирует размер символа: 33×33 модуля, до 78 байт при уровне Low
	Version = 4
	// ModuleSize задаёт размер одного модуля в единицах SVG
	ModuleSize = 4
)

// EncodeError возвращается, если содержимое не удалось закодировать
type EncodeError struct {
	Content string
	Err     error
}

// Error реализует интерфейс error
func (e *EncodeError) Error() string {
	return fmt.Sprintf("qr encode %d bytes: %v", len(e.Content), e.Err)
}

// Unwrap возвращает исходную ошибку кодировщика
func (e *EncodeError) Unwrap() error {
	return e.Err
}

// Encoder превращает строку в SVG-изображение QR-кода
type Encoder interface {
	Encode(content string) ([]byte, error)
}

// SVGEncoder кодирует строку с уровнем коррекции Low и фиксированной версией символа
type SVGEncoder struct {
	Level   goqrcode.RecoveryLevel
	Version int
}

// NewSVGEncoder создаёт кодировщик с настройками по умолчанию
func NewSVGEncoder() *SVGEncoder {
	return &SVGEncoder{Level: goqrcode.Low, Version: Version}
}

// Encode строит матрицу QR-кода и рисует её прямоугольниками SVG
func (e *SVGEncoder) Encode(content string) ([]byte, error) {
	code, err := goqrcode.NewWithForcedVersion(content, e.Version, e.Level)
	if err != nil {
		return nil, &EncodeError{Content: content, Err: err}
	}

	bitmap := code.Bitmap()
	side := len(bitmap) * ModuleSize

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(side, side, fmt.Sprintf(`viewBox="0 0 %d %d"`, side, side))
	canvas.Rect(0, 0, side, side, "fill:#ffffff")
	for y, row := range bitmap {
		for x, dark := range row {
			if dark {
				canvas.Rect(x*ModuleSize, y*ModuleSize, ModuleSize, ModuleSize, "fill:#000000")
			}
		}
	}
	canvas.End()

	return buf.Bytes(), nil
}

// CanonicalURL восстанавливает адрес текущего запроса: схема, хост и полный URI
func CanonicalURL(secure bool, host, requestURI string) string {
	scheme := "http"
	if secure {
		scheme = "https"
	}
	return scheme + "://" + host + requestURI
}

// DataURI упаковывает SVG в самодостаточный data URI
func DataURI(image []byte) string {
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(image)
}

// Adapter связывает кодировщик с упаковкой в data URI
type Adapter struct {
	encoder Encoder
}

// NewAdapter создаёт адаптер поверх заданного кодировщика
func NewAdapter(encoder Encoder) *Adapter {
	return &Adapter{encoder: encoder}
}

// BuildImage кодирует канонический адрес и возвращает data URI изображения
func (a *Adapter) BuildImage(canonicalURL string) (string, error) {
	image, err := a.encoder.Encode(canonicalURL)
	if err != nil {
		return "", err
	}
	return DataURI(image), nil
}
