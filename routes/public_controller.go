package routes

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/mbolis/grace-register/app"
	"github.com/mbolis/grace-register/httpx"
	"github.com/mbolis/grace-register/link"
	"github.com/mbolis/grace-register/log"
	"github.com/mbolis/grace-register/model"
	"github.com/mbolis/grace-register/registration"
	"github.com/mbolis/grace-register/store"
)

const (
	saveStatusSaved = "saved"
	saveStatusError = "error"
)

type bootResponse struct {
	link.Resolution
	AdminNav    bool           `json:"adminNav"`
	Unavailable bool           `json:"unavailable"`
	SaveStatus  string         `json:"saveStatus,omitempty"`
	Configs     []model.Config `json:"configs,omitempty"`
}

// Boot resolves the query string of one page load: which event is active
// and whether the page must hide every administrative surface.
func Boot(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := app.Resolver.Resolve(r.URL.Query())

		resp := bootResponse{
			Resolution:  res,
			AdminNav:    !res.GuestMode,
			Unavailable: res.Unavailable(),
		}
		if res.PersistFailed {
			resp.SaveStatus = saveStatusError
		}
		if !res.GuestMode {
			resp.Configs = app.Configs.List()
		}

		render.JSON(w, r, resp)
	}
}

func PublicGetEvent(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		cfg, ok := app.Configs.Get(id)
		if !ok {
			httpx.LogNotFound(w, "get_event", id)
			return
		}

		render.JSON(w, r, cfg)
	}
}

func PublicSubmit(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		input := registration.Input{}
		err := render.DecodeJSON(r.Body, &input)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		cfg, ok := app.Configs.Get(id)
		if !ok {
			httpx.LogNotFound(w, "submit.get_event", id)
			return
		}

		ctx := r.Context()
		if app.GenerateTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, app.GenerateTimeout)
			defer cancel()
		}

		receipt, err := app.Registrations.Submit(ctx, cfg, input)
		var invalid *registration.InvalidError
		switch {
		case errors.As(err, &invalid):
			log.Debugf("submit.validate: %s", err)
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, map[string]any{
				"errors": invalid.Messages(),
			})
			return
		case errors.Is(err, store.ErrPersist):
			httpx.LogStorageFull(w, r, "submit.persist", err, map[string]any{
				"saveStatus": saveStatusError,
			})
			return
		case err != nil:
			httpx.LogInternalError(w, "submit", err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, receipt)
	}
}
