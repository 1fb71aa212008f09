package handler

import "encoding/base64"

func encodeFlashForTest(jsonData, signature []byte) string {
	return base64.URLEncoding.EncodeToString(jsonData) + flashSeparator + base64.URLEncoding.EncodeToString(signature)
}
