package source

import (
	"bytes"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodeBytes decodes a script byte stream into a UTF-8 string.
// UTF-16 sources (with BOM) are transcoded; a UTF-8 BOM is stripped.
func DecodeBytes(data []byte) (string, error) {
	var dec transform.Transformer
	switch {
	case len(data) >= 2 && data[0] == 0xFE && data[1] == 0xFF:
		dec = unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
	case len(data) >= 2 && data[0] == 0xFF && data[1] == 0xFE:
		dec = unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
	default:
		dec = unicode.UTF8BOM.NewDecoder()
	}
	out, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), dec))
	if err != nil {
		return "", err
	}
	return string(out), nil
}
