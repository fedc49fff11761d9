package tracking

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// queryParam is the provider's "param" payload. Field order is part of the
// signature and must stay com, num, phone.
type queryParam struct {
	Com   string `json:"com"`
	Num   string `json:"num"`
	Phone string `json:"phone"`
}

// EncodeParam serializes the query payload the way the provider expects:
// compact JSON without HTML escaping.
func EncodeParam(carrierCode, trackingNumber, phoneSuffix string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(queryParam{Com: carrierCode, Num: trackingNumber, Phone: phoneSuffix}); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// Sign returns the uppercase hex MD5 of param+key+customer.
func Sign(param, key, customer string) string {
	sum := md5.Sum([]byte(param + key + customer))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}
