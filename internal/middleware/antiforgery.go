package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"net/http"
)

const (
	antiForgeryCookie = "paystripe_aft"
	antiForgeryHeader = "X-Anti-Forgery-Token"
)

// AntiForgery validates mutating admin requests with a double-submit token:
// the value sent in the request header must match the session cookie issued
// with the admin view. Safe methods pass through untouched.
func AntiForgery() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			cookie, err := r.Cookie(antiForgeryCookie)
			if err != nil || cookie.Value == "" {
				writeForgeryError(w, "missing anti-forgery cookie")
				return
			}

			header := r.Header.Get(antiForgeryHeader)
			if header == "" {
				writeForgeryError(w, "missing anti-forgery token")
				return
			}

			if subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(header)) != 1 {
				writeForgeryError(w, "anti-forgery token mismatch")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// IssueAntiForgeryToken generates a fresh token, sets it as the session
// cookie, and returns it so the admin view can embed it for later POSTs.
func IssueAntiForgeryToken(w http.ResponseWriter) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)

	http.SetCookie(w, &http.Cookie{
		Name:     antiForgeryCookie,
		Value:    token,
		Path:     "/admin",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	return token, nil
}

func writeForgeryError(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	json.NewEncoder(w).Encode(map[string]string{
		"error": msg,
		"code":  "anti_forgery",
	})
}
