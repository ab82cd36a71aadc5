package qrcode

import (
	"encoding/base64"

	goqrcode "github.com/skip2/go-qrcode"
)

const dataURLPrefix = "data:image/png;base64,"

type Renderer interface {
	Render(codeValue string) (string, error)
}

// PNGRenderer encodes code values as PNG data URLs.
type PNGRenderer struct {
	Size  int
	Level goqrcode.RecoveryLevel
}

func NewPNGRenderer() *PNGRenderer {
	return &PNGRenderer{
		Size:  256,
		Level: goqrcode.Medium,
	}
}

func (r *PNGRenderer) Render(codeValue string) (string, error) {
	png, err := goqrcode.Encode(codeValue, r.Level, r.Size)
	if err != nil {
		return "", err
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(png), nil
}
