package web

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const flashCookie = "hr_flash"

type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashInfo    FlashKind = "info"
	FlashWarning FlashKind = "warning"
	FlashDanger  FlashKind = "danger"
)

type Flash struct {
	Kind    FlashKind `json:"k"`
	Message string    `json:"m"`
}

func Success(message string) Flash { return Flash{Kind: FlashSuccess, Message: message} }
func Info(message string) Flash    { return Flash{Kind: FlashInfo, Message: message} }
func Warning(message string) Flash { return Flash{Kind: FlashWarning, Message: message} }
func Danger(message string) Flash  { return Flash{Kind: FlashDanger, Message: message} }

// SetFlash stores messages for the next rendered page. Messages already
// pending on the request are kept ahead of the new ones.
func SetFlash(w http.ResponseWriter, r *http.Request, flashes ...Flash) {
	if len(flashes) == 0 {
		return
	}
	all := append(readFlashes(r), flashes...)
	payload, err := json.Marshal(all)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(payload),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlashes returns pending messages and clears them.
func PopFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	flashes := readFlashes(r)
	if len(flashes) > 0 {
		http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	}
	return flashes
}

func readFlashes(r *http.Request) []Flash {
	cookie, err := r.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}
	payload, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	var flashes []Flash
	if err := json.Unmarshal(payload, &flashes); err != nil {
		return nil
	}
	return flashes
}

// Redirect answers a form post with 303 See Other and optional messages.
func Redirect(w http.ResponseWriter, r *http.Request, location string, flashes ...Flash) {
	SetFlash(w, r, flashes...)
	http.Redirect(w, r, location, http.StatusSeeOther)
}
