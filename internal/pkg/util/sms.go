package util

import (
	"courtyard/internal/api/config"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	log "log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const smsSuccessResp = "0"

// SendSms dispatches an OTP to the gateway. Best effort: the OTP state is
// already persisted before this is called.
func SendSms(phone string, code string) error {
	smsCfg := config.Cfg.SMS

	client := resty.New().SetTimeout(10 * time.Second)
	resp, err := client.R().
		SetQueryParams(map[string]string{
			"u": smsCfg.Username,
			"p": smsCfg.ApiKey,
			"m": phone,
			"c": fmt.Sprintf("[Courtyard] Your one-time passcode is %s.", code),
		}).
		Get(smsCfg.URL)
	if err != nil {
		return err
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("sms send failed: %s", resp.Status())
	}
	if string(resp.Body()) != smsSuccessResp {
		return fmt.Errorf("sms send failed: response code %s", string(resp.Body()))
	}

	log.Info("OTP dispatched", "phone", phone)
	return nil
}

// GenerateOtp returns a 6-character upper-cased hex passcode.
func GenerateOtp() string {
	buf := make([]byte, 3)
	_, _ = rand.Read(buf)
	return strings.ToUpper(hex.EncodeToString(buf))
}
