package vnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"sort"
	"strings"
)

// buildSignData строит каноническую форму параметров для подписи:
// пустые значения отбрасываются, ключи сортируются лексикографически,
// пары соединяются как key=value&... без дополнительного экранирования.
// Форма должна быть бит-в-бит воспроизводимой - шлюз подписывает ровно
// такую же строку на своей стороне.
func buildSignData(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for key, value := range params {
		if value == "" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+params[key])
	}

	return strings.Join(pairs, "&")
}

// sign вычисляет HMAC-SHA512 канонической формы в hex
func sign(signData, secret string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(signData))
	return hex.EncodeToString(mac.Sum(nil))
}

// SignParams подписывает набор параметров, возвращая каноническую
// форму и hex-подпись
func SignParams(params map[string]string, secret string) (signData, hash string) {
	signData = buildSignData(params)
	return signData, sign(signData, secret)
}

// VerifyParams проверяет подпись набора параметров.
// Поля vnp_SecureHash и vnp_SecureHashType исключаются из канонической
// формы; сравнение подписи регистронезависимое.
func VerifyParams(params map[string]string, secret string) bool {
	received := params[paramSecureHash]
	if received == "" {
		return false
	}

	filtered := make(map[string]string, len(params))
	for key, value := range params {
		if key == paramSecureHash || key == paramHashType {
			continue
		}
		filtered[key] = value
	}

	_, expected := SignParams(filtered, secret)
	return strings.EqualFold(expected, received)
}
