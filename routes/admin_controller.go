package routes

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/hashicorp/go-multierror"

	"github.com/mbolis/grace-register/app"
	"github.com/mbolis/grace-register/httpx"
	"github.com/mbolis/grace-register/link"
	"github.com/mbolis/grace-register/log"
	"github.com/mbolis/grace-register/model"
	"github.com/mbolis/grace-register/store"
)

type saveResponse struct {
	Config     model.Config `json:"config"`
	SaveStatus string       `json:"saveStatus"`
}

// save upserts cfg and answers with the outcome. A storage failure still
// answers with the record: it is kept in memory for this process.
func save(app app.App, w http.ResponseWriter, r *http.Request, code string, status int, cfg model.Config) {
	err := app.Configs.Upsert(cfg)
	switch {
	case errors.Is(err, store.ErrPersist):
		httpx.LogStorageFull(w, r, code, err, saveResponse{Config: cfg, SaveStatus: saveStatusError})
		return
	case err != nil:
		httpx.LogInternalError(w, code, err)
		return
	}

	render.Status(r, status)
	render.JSON(w, r, saveResponse{Config: cfg, SaveStatus: saveStatusSaved})
}

func validationFailed(w http.ResponseWriter, r *http.Request, code string, err error) {
	log.Debugf("%s: %s", code, err)

	messages := []string{err.Error()}
	var merr *multierror.Error
	if errors.As(err, &merr) {
		messages = messages[:0]
		for _, e := range merr.Errors {
			messages = append(messages, e.Error())
		}
	}

	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, map[string]any{
		"errors": messages,
	})
}

func CreateEvent(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg := model.NewConfig(model.NewID())

		err := render.DecodeJSON(r.Body, &cfg)
		if err != nil && !errors.Is(err, io.EOF) {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if cfg.ID == "" {
			cfg.ID = model.NewID()
		}
		if _, exists := app.Configs.Get(cfg.ID); exists {
			httpx.LogStatusMsg(w, http.StatusConflict, log.DebugLevel, "create_event.conflict", "event %s already exists", cfg.ID)
			return
		}

		if err = cfg.Validate(); err != nil {
			validationFailed(w, r, "create_event.validate", err)
			return
		}

		save(app, w, r, "create_event.persist", http.StatusCreated, cfg)
	}
}

func ListEvents(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]any{
			"events": app.Configs.List(),
		})
	}
}

func GetEvent(app app.App) http.HandlerFunc {
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

// UpdateEvent stores every edit right away; there is no separate save
// step. The id in the path is authoritative and cannot be changed.
func UpdateEvent(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		cfg := model.Config{}
		err := render.DecodeJSON(r.Body, &cfg)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if cfg.ID == "" {
			cfg.ID = id
		}
		if cfg.ID != id {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "update_event.id", "event id %s cannot become %s", id, cfg.ID)
			return
		}

		if err = cfg.Validate(); err != nil {
			validationFailed(w, r, "update_event.validate", err)
			return
		}

		save(app, w, r, "update_event.persist", http.StatusOK, cfg)
	}
}

// DeleteEvent removes an event; its submissions stay behind. The active
// query parameter names the dashboard's current selection so the answer
// can tell which event to select next.
func DeleteEvent(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		active := r.URL.Query().Get("active")

		err := app.Configs.Delete(id)
		if errors.Is(err, store.ErrNotFound) {
			httpx.LogNotFound(w, "delete_event", id)
			return
		}

		resp := map[string]any{
			"activeId":   store.Reselect(active, id, app.Configs.List()),
			"saveStatus": saveStatusSaved,
		}
		switch {
		case errors.Is(err, store.ErrPersist):
			resp["saveStatus"] = saveStatusError
			httpx.LogStorageFull(w, r, "delete_event.persist", err, resp)
			return
		case err != nil:
			httpx.LogInternalError(w, "delete_event", err)
			return
		}

		render.JSON(w, r, resp)
	}
}

func GetEventSubmissions(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		submissions, err := app.Submissions.ListByConfig(id)
		if err != nil {
			httpx.LogInternalError(w, "get_submissions", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"submissions": submissions,
		})
	}
}

func GetEventLinks(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		cfg, ok := app.Configs.Get(id)
		if !ok {
			httpx.LogNotFound(w, "get_links", id)
			return
		}

		share, err := link.NewShare(app.PublicURL, cfg)
		if err != nil {
			httpx.LogInternalError(w, "get_links.encode", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"links":    share,
			"problems": cfg.PublishProblems(),
		})
	}
}

// GenerateScript writes a fresh invitation script into the event.
func GenerateScript(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		cfg, ok := app.Configs.Get(id)
		if !ok {
			httpx.LogNotFound(w, "generate_script", id)
			return
		}

		ctx := r.Context()
		if app.GenerateTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, app.GenerateTimeout)
			defer cancel()
		}

		cfg.BiblicalScript = app.Writer.EventScript(ctx, cfg.Title, cfg.Description)
		save(app, w, r, "generate_script.persist", http.StatusOK, cfg)
	}
}

func UploadLogo(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		cfg, ok := app.Configs.Get(id)
		if !ok {
			httpx.LogNotFound(w, "upload_logo", id)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, 2*httpx.MaxLogoSize)
		file, _, err := r.FormFile("logo")
		if err != nil {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "upload_logo.form", "missing logo file")
			return
		}
		defer file.Close()

		cfg.LogoURL, err = httpx.LogoDataURL(file)
		switch {
		case errors.Is(err, httpx.ErrLogoTooLarge):
			httpx.LogStatusMsg(w, http.StatusRequestEntityTooLarge, log.DebugLevel, "upload_logo.size", "%s", err)
			return
		case errors.Is(err, httpx.ErrNotImage):
			httpx.LogStatusMsg(w, http.StatusUnsupportedMediaType, log.DebugLevel, "upload_logo.type", "%s", err)
			return
		case err != nil:
			httpx.LogInternalError(w, "upload_logo", err)
			return
		}

		save(app, w, r, "upload_logo.persist", http.StatusOK, cfg)
	}
}

func DeleteLogo(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		cfg, ok := app.Configs.Get(id)
		if !ok {
			httpx.LogNotFound(w, "delete_logo", id)
			return
		}

		cfg.LogoURL = ""
		save(app, w, r, "delete_logo.persist", http.StatusOK, cfg)
	}
}
