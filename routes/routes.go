package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mbolis/grace-register/app"
	"github.com/mbolis/grace-register/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Mount("/api", apiRouter(app))

	root.
		With(middlewares.GuestGate, middlewares.CookieAuth(app.BearerServer), middlewares.Admin(app.TokenSecret)).
		Mount("/admin", servePrivateFiles("/admin", app.PrivateDir))
	root.Mount("/", servePublicFiles(app.StaticDir))

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	api.Get("/boot", Boot(app))
	api.Get("/events/{id}", PublicGetEvent(app))
	api.Post("/events/{id}/submissions", PublicSubmit(app))

	api.
		With(middlewares.GuestGate, middlewares.Admin(app.TokenSecret)).
		Mount("/admin", adminRouter(app))

	api.Post("/login", Login(app))
	api.Post("/refresh", Refresh(app))

	return api
}

func adminRouter(app app.App) http.Handler {
	r := chi.NewRouter()

	// CRUD events
	r.Post("/events", CreateEvent(app))
	r.Get("/events", ListEvents(app))
	r.Get("/events/{id}", GetEvent(app))
	r.Put("/events/{id}", UpdateEvent(app))
	r.Delete("/events/{id}", DeleteEvent(app))

	r.Get("/events/{id}/submissions", GetEventSubmissions(app))
	r.Get("/events/{id}/links", GetEventLinks(app))
	r.Post("/events/{id}/script", GenerateScript(app))
	r.Put("/events/{id}/logo", UploadLogo(app))
	r.Delete("/events/{id}/logo", DeleteLogo(app))

	return r
}

func servePublicFiles(dir string) http.Handler {
	return http.FileServer(http.Dir(dir))
}

func servePrivateFiles(path, dir string) http.Handler {
	return http.StripPrefix(path, http.FileServer(http.Dir(dir)))
}
