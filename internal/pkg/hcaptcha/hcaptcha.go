// Package hcaptcha verifies captcha tokens submitted with the registration
// form. Verification only runs when HCAPTCHA_SECRET_KEY is configured, so
// local setups register without a captcha.
package hcaptcha

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/jkimani/PairMatch/internal/pkg/env"
)

// verifyURL is a var so tests can point it at a local server.
var verifyURL = "https://api.hcaptcha.com/siteverify"

var client = &http.Client{Timeout: 10 * time.Second}

type siteverifyResponse struct {
	Success    bool     `json:"success"`
	Hostname   string   `json:"hostname"`
	ErrorCodes []string `json:"error-codes"`
}

// Enabled reports whether captcha verification is configured.
func Enabled() bool {
	return env.GetEnv("HCAPTCHA_SECRET_KEY", "") != ""
}

// Verify checks a registration captcha token against the hCaptcha API.
// A rejected token is (false, nil); a non-nil error means the verification
// could not be performed at all and the caller decides whether to let the
// registration through.
func Verify(token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	secret := env.GetEnv("HCAPTCHA_SECRET_KEY", "")
	if secret == "" {
		return false, errors.New("HCAPTCHA_SECRET_KEY is not set")
	}

	resp, err := client.PostForm(verifyURL, url.Values{
		"secret":   {secret},
		"response": {token},
	})
	if err != nil {
		return false, fmt.Errorf("captcha verification request failed: %w", err)
	}
	defer resp.Body.Close()

	var result siteverifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Errorf("captcha verification response unreadable: %w", err)
	}
	if !result.Success {
		log.WithField("error_codes", strings.Join(result.ErrorCodes, ",")).
			Info("captcha token rejected")
		return false, nil
	}
	return true, nil
}
