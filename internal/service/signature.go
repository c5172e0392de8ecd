package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"member-portal-be/internal/pkg/apperr"
)

// SignatureVerifier checks the processor's transport-level signature:
// header "t=<unix_ts>,v1=<hex_hmac_sha256>", HMAC computed over
// "<timestamp>.<rawBody>" with the shared secret.
type SignatureVerifier struct {
	secret       []byte
	replayWindow time.Duration
	now          func() time.Time
}

func NewSignatureVerifier(secret string, replayWindow time.Duration) *SignatureVerifier {
	return &SignatureVerifier{
		secret:       []byte(secret),
		replayWindow: replayWindow,
		now:          time.Now,
	}
}

func (v *SignatureVerifier) Verify(header string, body []byte) error {
	ts, digest, err := parseSignatureHeader(header)
	if err != nil {
		return apperr.New(apperr.KindAuthentication, "", err)
	}

	signedAt := time.Unix(ts, 0)
	age := v.now().Sub(signedAt)
	if age > v.replayWindow || age < -v.replayWindow {
		return apperr.Newf(apperr.KindAuthentication, "", "signature timestamp outside replay window: %s", signedAt.UTC().Format(time.RFC3339))
	}

	expected := v.compute(ts, body)
	if !hmac.Equal([]byte(expected), []byte(digest)) {
		return apperr.Newf(apperr.KindAuthentication, "", "signature digest mismatch")
	}
	return nil
}

// Sign produces a valid header for body at ts. Used by the simulator and
// tests; the verification path never calls it.
func (v *SignatureVerifier) Sign(ts time.Time, body []byte) string {
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), v.compute(ts.Unix(), body))
}

func (v *SignatureVerifier) compute(ts int64, body []byte) string {
	mac := hmac.New(sha256.New, v.secret)
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func parseSignatureHeader(header string) (ts int64, digest string, err error) {
	if header == "" {
		return 0, "", fmt.Errorf("missing signature header")
	}
	for _, part := range strings.Split(header, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch key {
		case "t":
			ts, err = strconv.ParseInt(value, 10, 64)
			if err != nil {
				return 0, "", fmt.Errorf("malformed signature timestamp: %q", value)
			}
		case "v1":
			digest = value
		}
	}
	if ts == 0 || digest == "" {
		return 0, "", fmt.Errorf("signature header missing t or v1 element")
	}
	return ts, digest, nil
}
