package document

import (
	"strings"

	"github.com/skip2/go-qrcode"
)

const qrSize = 256

// SigningURL is the link a worker opens to review and sign a contract.
func SigningURL(baseURL, contractID string) string {
	return strings.TrimRight(baseURL, "/") + "/worker/contract/" + contractID
}

// ShareQR encodes url as a PNG QR code.
func ShareQR(url string) ([]byte, error) {
	return qrcode.Encode(url, qrcode.Medium, qrSize)
}
