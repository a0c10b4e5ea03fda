package handlers

import (
	"net/http"

	"github.com/gov-dx-sandbox/home-inventory/shared/utils"
	"github.com/gov-dx-sandbox/home-inventory/v1/i18n"
	"github.com/gov-dx-sandbox/home-inventory/v1/models"
)

// LanguageResponse reports the active locale
type LanguageResponse struct {
	Lang      i18n.Locale   `json:"lang"`
	Supported []i18n.Locale `json:"supported"`
	Message   string        `json:"message,omitempty"`
}

// GetLanguage returns the locale negotiated for this request
func GetLanguage(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithSuccess(w, http.StatusOK, LanguageResponse{
		Lang:      i18n.FromContext(r.Context()),
		Supported: i18n.Supported(),
	})
}

// SetLanguage stores the preferred locale in the lang cookie
func SetLanguage(w http.ResponseWriter, r *http.Request) {
	var req models.SetLanguageRequest
	if !decodeFormOrJSON(w, r, "lang", &req.Lang, &req) {
		return
	}

	locale, ok := i18n.Parse(req.Lang)
	if !ok {
		current := i18n.FromContext(r.Context())
		utils.RespondWithError(w, http.StatusBadRequest,
			i18n.T(current, "language.unsupported", i18n.Values("lang", req.Lang)))
		return
	}

	http.SetCookie(w, i18n.NewCookie(locale))
	if isFormPost(r) && wantsHTML(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	utils.RespondWithSuccess(w, http.StatusOK, LanguageResponse{
		Lang:      locale,
		Supported: i18n.Supported(),
		Message:   i18n.T(locale, "language.updated", i18n.Values("lang", string(locale))),
	})
}
