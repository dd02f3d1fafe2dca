package httpapi

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

type authError struct {
	status  int
	message string
}

func (e *authError) Error() string {
	return e.message
}

// Slack request signing headers (v0 scheme).
const (
	headerTimestamp = "X-Slack-Request-Timestamp"
	headerSignature = "X-Slack-Signature"
)

// verifySlackSignature checks Slack's v0 request signature:
// v0=hex(hmac_sha256(secret, "v0:<timestamp>:<body>")), with the
// timestamp bounded to maxSkew to reject replays.
func verifySlackSignature(
	secret, timestamp, signature string, body []byte, now time.Time, maxSkew time.Duration,
) *authError {
	if timestamp == "" || signature == "" {
		return &authError{status: 401, message: "missing signature headers"}
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return &authError{status: 401, message: "invalid request timestamp"}
	}
	delta := now.Sub(time.Unix(ts, 0))
	if delta < 0 {
		delta = -delta
	}
	if delta > maxSkew {
		return &authError{status: 401, message: "request outside replay window"}
	}

	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte("v0:" + timestamp + ":"))
	_, _ = mac.Write(body)
	expected := "v0=" + hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(signature), []byte(expected)) {
		return &authError{status: 401, message: "signature mismatch"}
	}
	return nil
}

// signSlackRequest produces a valid signature for a body and timestamp.
// Used by tests and by local tooling that replays commands.
func signSlackRequest(secret, timestamp string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte("v0:" + timestamp + ":"))
	_, _ = mac.Write(body)
	return "v0=" + hex.EncodeToString(mac.Sum(nil))
}
