package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	// Standard values, the key carries the ':' separated cache key
	accessedAt := time.Date(2024, 5, 15, 14, 30, 45, 123456789, time.UTC)
	key := "bal_gen:CI13:2024:1:12::false::3f2a"

	token := EncodeToken(accessedAt, key)
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedAt, decodedKey, err := DecodeToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, accessedAt, decodedAt, "Accessed time should match after decode")
	assert.Equal(t, key, decodedKey, "Key should match after decode")

	// Zero time and a key containing the separator
	zeroToken := EncodeToken(time.Time{}, "a|b")
	decodedAt, decodedKey, err = DecodeToken(zeroToken)
	assert.NoError(t, err, "Decoding zero time should not return an error")
	assert.True(t, decodedAt.IsZero())
	assert.Equal(t, "a|b", decodedKey)

	// Current time in a non-UTC zone
	now := time.Now().In(time.FixedZone("WAT", 3600))
	decodedAt, _, err = DecodeToken(EncodeToken(now, "k"))
	assert.NoError(t, err)
	assert.True(t, now.Equal(decodedAt), "Current time should match after decode")
}

func TestDecodeTokenError(t *testing.T) {
	// Test invalid base64
	_, _, err := DecodeToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode", "Error should mention base64 decoding")

	// Test invalid format (missing separator)
	invalidToken := "MjAyMy0wNS0xNVQwMDowMDowMFo=" // Base64 encoded date without separator
	_, _, err = DecodeToken(invalidToken)
	assert.Error(t, err, "Should return an error for invalid token format")
	assert.Contains(t, err.Error(), "split", "Error should mention splitting issue")

	// Test invalid date format
	invalidDateToken := "bm90YWRhdGV8MjAyMy0wNS0xNVQxNDozMDo0NS4xMjM0NTY3ODla" // Base64 encoded "notadate|2023-05-15T14:30:45.123456789Z"
	_, _, err = DecodeToken(invalidDateToken)
	assert.Error(t, err, "Should return an error for invalid date format")
	assert.Contains(t, err.Error(), "accessed_at parse", "Error should mention date parsing issue")
}
