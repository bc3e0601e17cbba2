package api

// Server interface and chi wiring for openapi.yaml, in the shape oapi-codegen
// emits for its chi-server target.

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// GetSortStepsParams defines parameters for GetSortSteps.
type GetSortStepsParams struct {
	Notes *string `form:"notes,omitempty" json:"notes,omitempty"`
}

// ReplaySortParams defines parameters for ReplaySort.
type ReplaySortParams struct {
	Notes      *string `form:"notes,omitempty" json:"notes,omitempty"`
	IntervalMs *int    `form:"intervalMs,omitempty" json:"intervalMs,omitempty"`
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET /health)
	GetHealth(w http.ResponseWriter, r *http.Request)
	// (GET /v1/grid)
	GetGrid(w http.ResponseWriter, r *http.Request)
	// (GET /v1/sorts/{algorithm})
	GetSortSteps(w http.ResponseWriter, r *http.Request, algorithm string, params GetSortStepsParams)
	// (GET /v1/sorts/{algorithm}/replay)
	ReplaySort(w http.ResponseWriter, r *http.Request, algorithm string, params ReplaySortParams)
	// (POST /v1/log)
	PostLog(w http.ResponseWriter, r *http.Request)
}

// Unimplemented answers every operation with 501.
type Unimplemented struct{}

func (Unimplemented) GetHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotImplemented)
}

func (Unimplemented) GetGrid(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotImplemented)
}

func (Unimplemented) GetSortSteps(w http.ResponseWriter, r *http.Request, algorithm string, params GetSortStepsParams) {
	w.WriteHeader(http.StatusNotImplemented)
}

func (Unimplemented) ReplaySort(w http.ResponseWriter, r *http.Request, algorithm string, params ReplaySortParams) {
	w.WriteHeader(http.StatusNotImplemented)
}

func (Unimplemented) PostLog(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotImplemented)
}

// MiddlewareFunc wraps a single operation handler.
type MiddlewareFunc func(http.Handler) http.Handler

// ServerInterfaceWrapper converts contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandlerFunc   func(w http.ResponseWriter, r *http.Request, err error)
}

func (siw *ServerInterfaceWrapper) wrap(h http.Handler) http.Handler {
	for _, middleware := range siw.HandlerMiddlewares {
		h = middleware(h)
	}
	return h
}

func (siw *ServerInterfaceWrapper) GetHealth(w http.ResponseWriter, r *http.Request) {
	siw.wrap(http.HandlerFunc(siw.Handler.GetHealth)).ServeHTTP(w, r)
}

func (siw *ServerInterfaceWrapper) GetGrid(w http.ResponseWriter, r *http.Request) {
	siw.wrap(http.HandlerFunc(siw.Handler.GetGrid)).ServeHTTP(w, r)
}

func (siw *ServerInterfaceWrapper) GetSortSteps(w http.ResponseWriter, r *http.Request) {
	var err error

	// ------------- Path parameter "algorithm" -------------
	var algorithm string

	err = runtime.BindStyledParameterWithOptions("simple", "algorithm", chi.URLParam(r, "algorithm"), &algorithm,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "algorithm", Err: err})
		return
	}

	var params GetSortStepsParams

	// ------------- Optional query parameter "notes" -------------
	err = runtime.BindQueryParameter("form", true, false, "notes", r.URL.Query(), &params.Notes)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "notes", Err: err})
		return
	}

	siw.wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.GetSortSteps(w, r, algorithm, params)
	})).ServeHTTP(w, r)
}

func (siw *ServerInterfaceWrapper) ReplaySort(w http.ResponseWriter, r *http.Request) {
	var err error

	// ------------- Path parameter "algorithm" -------------
	var algorithm string

	err = runtime.BindStyledParameterWithOptions("simple", "algorithm", chi.URLParam(r, "algorithm"), &algorithm,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "algorithm", Err: err})
		return
	}

	var params ReplaySortParams

	// ------------- Optional query parameter "notes" -------------
	err = runtime.BindQueryParameter("form", true, false, "notes", r.URL.Query(), &params.Notes)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "notes", Err: err})
		return
	}

	// ------------- Optional query parameter "intervalMs" -------------
	err = runtime.BindQueryParameter("form", true, false, "intervalMs", r.URL.Query(), &params.IntervalMs)
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "intervalMs", Err: err})
		return
	}

	siw.wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.ReplaySort(w, r, algorithm, params)
	})).ServeHTTP(w, r)
}

func (siw *ServerInterfaceWrapper) PostLog(w http.ResponseWriter, r *http.Request) {
	siw.wrap(http.HandlerFunc(siw.Handler.PostLog)).ServeHTTP(w, r)
}

// InvalidParamFormatError reports a parameter that could not be bound.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

// ChiServerOptions configures HandlerWithOptions.
type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	Middlewares      []MiddlewareFunc
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// Handler creates http.Handler with routing matching OpenAPI spec.
func Handler(si ServerInterface) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{})
}

// HandlerWithOptions creates http.Handler with additional options.
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter

	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandlerFunc:   options.ErrorHandlerFunc,
	}

	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/health", wrapper.GetHealth)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/v1/grid", wrapper.GetGrid)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/v1/sorts/{algorithm}", wrapper.GetSortSteps)
	})
	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/v1/sorts/{algorithm}/replay", wrapper.ReplaySort)
	})
	r.Group(func(r chi.Router) {
		r.Post(options.BaseURL+"/v1/log", wrapper.PostLog)
	})

	return r
}
