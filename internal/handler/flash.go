package handler

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"unicode/utf8"

	"github.com/msomdec/photo-host/internal/view"
)

const (
	flashCookieName = "flash"
	maxFlashLines   = 10
	// Per-line cap; lines may echo uploaded file names.
	maxFlashLineBytes = 200
	// Leaves room for the name and attributes under the 4096-byte cookie limit.
	maxFlashValueLen = 3600
)

type flashPayload struct {
	Messages []string `json:"m,omitempty"`
	Errors   []string `json:"e,omitempty"`
}

// setFlash stores a one-time message for the next page render.
func setFlash(w http.ResponseWriter, f view.Flash, secure bool) {
	value, ok := encodeFlash(f)
	if !ok {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   60,
	})
}

// popFlash reads and clears the flash cookie.
func popFlash(w http.ResponseWriter, r *http.Request, secure bool) view.Flash {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil {
		return view.Flash{}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})

	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return view.Flash{}
	}
	var p flashPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return view.Flash{}
	}
	return view.Flash{Messages: p.Messages, Errors: p.Errors}
}

// encodeFlash serializes f, dropping trailing lines (errors first) until the
// value fits in a cookie.
func encodeFlash(f view.Flash) (string, bool) {
	p := flashPayload{Messages: capLines(f.Messages), Errors: capLines(f.Errors)}
	for {
		var raw bytes.Buffer
		enc := json.NewEncoder(&raw)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(p); err != nil {
			return "", false
		}
		value := base64.RawURLEncoding.EncodeToString(raw.Bytes())
		switch {
		case len(value) <= maxFlashValueLen:
			return value, true
		case len(p.Errors) > 0:
			p.Errors = p.Errors[:len(p.Errors)-1]
		case len(p.Messages) > 0:
			p.Messages = p.Messages[:len(p.Messages)-1]
		default:
			return value, true
		}
	}
}

func capLines(lines []string) []string {
	if len(lines) > maxFlashLines {
		lines = append(lines[:maxFlashLines-1:maxFlashLines-1], "…and more")
	}
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, truncateLine(l))
	}
	return out
}

func truncateLine(s string) string {
	if len(s) <= maxFlashLineBytes {
		return s
	}
	cut := maxFlashLineBytes - len("…")
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}
