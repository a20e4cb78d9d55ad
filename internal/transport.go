package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"github.com/derWhity/hackpulse/internal/ctxhelper"
	"github.com/derWhity/hackpulse/internal/log"
	"github.com/derWhity/hackpulse/internal/models"
)

const (
	apiBasePath = "/api"
	// Name of the request header carrying the session token
	tokenHeader = "token"
)

// Defines an error that defines the HTTP status that should be returned
type httpStatuser interface {
	Status() int
}

// Defines an error that returns a machine-readable error code
type errorCoder interface {
	ErrorCode() string
}

// Defines an error that contains a data field with additional information
type dataBearer interface {
	Data() interface{}
}

type errorResponse struct {
	basicResponse
	// The error code
	Error   string      `json:"error"`
	Message string      `json:"errorMessage"`
	Details interface{} `json:"errorDetails,omitempty"`
}

// MakeHTTPHandler creates the main HTTP handler for the HackPulse service. If uiDir is not empty, the files inside
// it are served for every path not matched by the API.
func MakeHTTPHandler(
	ls ListingService,
	as AuthService,
	cs ConfigService,
	eo EndpointOptions,
	uiDir string,
	logger *logrus.Entry,
) http.Handler {
	r := mux.NewRouter()
	eo.Auth = as

	options := []httptransport.ServerOption{
		httptransport.ServerErrorEncoder(encodeError),
		httptransport.ServerBefore(makeContextInjector(logger)),
		httptransport.ServerBefore(makeTokenDecoder()),
	}

	// -- Listing service ------------------------------
	{
		lEp := MakeListingEndpoints(ls, eo)

		// List
		r.Methods(http.MethodGet).Path(apiBasePath + "/hackathons").Handler(httptransport.NewServer(
			lEp.List,
			decodeListFilter,
			encodeJSONResponse,
			options...,
		))

		// Stats - needs to be registered before the ID route
		r.Methods(http.MethodGet).Path(apiBasePath + "/hackathons/stats").Handler(httptransport.NewServer(
			lEp.Stats,
			decodeNilRequest,
			encodeJSONResponse,
			options...,
		))

		// Get
		r.Methods(http.MethodGet).Path(apiBasePath + "/hackathons/{id}").Handler(httptransport.NewServer(
			lEp.Get,
			decodeIDFromPath,
			encodeJSONResponse,
			options...,
		))

		// Create
		r.Methods(http.MethodPost).Path(apiBasePath + "/hackathons").Handler(httptransport.NewServer(
			lEp.Create,
			decodeHackathonInput,
			encodeJSONResponse,
			options...,
		))

		// Update
		r.Methods(http.MethodPut).Path(apiBasePath + "/hackathons/{id}").Handler(httptransport.NewServer(
			lEp.Update,
			decodeUpdateRequest,
			encodeJSONResponse,
			options...,
		))

		// Delete
		r.Methods(http.MethodDelete).Path(apiBasePath + "/hackathons/{id}").Handler(httptransport.NewServer(
			lEp.Delete,
			decodeIDFromPath,
			encodeJSONResponse,
			options...,
		))

		// Tags
		r.Methods(http.MethodGet).Path(apiBasePath + "/tags").Handler(httptransport.NewServer(
			lEp.Tags,
			decodeNilRequest,
			encodeJSONResponse,
			options...,
		))
	}

	// -- Config service -------------------------------
	{
		cEp := MakeConfigEndpoints(cs, eo)

		// AddTag
		r.Methods(http.MethodPost).Path(apiBasePath + "/tags").Handler(httptransport.NewServer(
			cEp.AddTag,
			decodeTagFromJSONBody,
			encodeJSONResponse,
			options...,
		))

		// RemoveTag
		r.Methods(http.MethodDelete).Path(apiBasePath + "/tags/{tag}").Handler(httptransport.NewServer(
			cEp.RemoveTag,
			decodeTagFromPath,
			encodeJSONResponse,
			options...,
		))
	}

	// -- Auth service ---------------------------------
	{
		aEp := MakeAuthEndpoints(as, eo)

		// Login
		r.Methods(http.MethodPost).Path(apiBasePath + "/login").Handler(httptransport.NewServer(
			aEp.Login,
			decodeLoginRequest,
			encodeJSONResponse,
			options...,
		))

		// Logout
		r.Methods(http.MethodPost).Path(apiBasePath + "/logout").Handler(httptransport.NewServer(
			aEp.Logout,
			decodeToken,
			encodeJSONResponse,
			options...,
		))

		// WhoAmI
		r.Methods(http.MethodGet).Path(apiBasePath + "/whoami").Handler(httptransport.NewServer(
			aEp.WhoAmI,
			decodeToken,
			encodeJSONResponse,
			options...,
		))
	}

	// Simple alive answer for checking if HTTP can be reached
	r.Methods(http.MethodGet).Path("/alive").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		data := map[string]bool{"ok": true}
		json.NewEncoder(w).Encode(data)
	})

	// Plain file service for the UI
	if uiDir != "" {
		r.Methods(http.MethodGet).PathPrefix("/").Handler(http.FileServer(http.Dir(uiDir)))
	}

	return r
}

// decodeNilRequest just does nothing with the request. It is used for endpoints that don't need anything to be passed
func decodeNilRequest(_ context.Context, r *http.Request) (request interface{}, err error) {
	return nil, nil
}

// decodeJSONBody decodes the request body into the given target
func decodeJSONBody(r *http.Request, target interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		return MakeError(
			http.StatusBadRequest,
			ErrCodeIllegalJSON,
			fmt.Sprintf("Failed to decode JSON body: %v", err),
		)
	}
	return nil
}

// decodeListFilter reads the list filter from the request's query variables
func decodeListFilter(_ context.Context, r *http.Request) (interface{}, error) {
	val := r.URL.Query()
	filter := ListFilter{
		Status: models.Status(val.Get("status")),
		Mode:   models.Mode(val.Get("mode")),
		Tag:    val.Get("tag"),
		Search: strings.TrimSpace(val.Get("search")),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, MakeError(http.StatusBadRequest, ErrCodeIllegalValue, fmt.Sprintf("Unknown status '%s'", filter.Status))
	}
	if filter.Mode != "" && !filter.Mode.Valid() {
		return nil, MakeError(http.StatusBadRequest, ErrCodeIllegalValue, fmt.Sprintf("Unknown mode '%s'", filter.Mode))
	}
	return filter, nil
}

// Decodes an ID from the "id" path variable provided by GoRilla
func decodeIDFromPath(_ context.Context, r *http.Request) (interface{}, error) {
	vars := mux.Vars(r)
	str, ok := vars["id"]
	if !ok || str == "" {
		return nil, MakeError(http.StatusBadRequest, ErrCodeRequiredFieldMissing, "No ID provided")
	}
	return str, nil
}

// decodeHackathonInput decodes the data of a new hackathon from the JSON body
func decodeHackathonInput(_ context.Context, r *http.Request) (interface{}, error) {
	var in models.HackathonInput
	if err := decodeJSONBody(r, &in); err != nil {
		return nil, err
	}
	return in, nil
}

// decodeUpdateRequest decodes the fields to change from the JSON body and gets the hackathon's ID from the path
func decodeUpdateRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	id, err := decodeIDFromPath(ctx, r)
	if err != nil {
		return nil, err
	}
	req := updateRequest{ID: id.(string)}
	if err := decodeJSONBody(r, &req.Patch); err != nil {
		return nil, err
	}
	return req, nil
}

// decodeTagFromJSONBody reads a tag from a provided JSON body
func decodeTagFromJSONBody(_ context.Context, r *http.Request) (interface{}, error) {
	var req tagRequest
	if err := decodeJSONBody(r, &req); err != nil {
		return nil, err
	}
	return req, nil
}

func decodeTagFromPath(_ context.Context, r *http.Request) (interface{}, error) {
	vars := mux.Vars(r)
	str, ok := vars["tag"]
	if !ok {
		return nil, MakeError(http.StatusBadRequest, ErrCodeRequiredFieldMissing, "Missing tag")
	}
	return tagRequest{Tag: str}, nil
}

// decodeLoginRequest decodes a login request from the JSON body
func decodeLoginRequest(_ context.Context, r *http.Request) (interface{}, error) {
	var req loginRequest
	if err := decodeJSONBody(r, &req); err != nil {
		return nil, err
	}
	return req, nil
}

// decodeToken gets the session token from the call's context
func decodeToken(ctx context.Context, r *http.Request) (request interface{}, err error) {
	return ctxhelper.Token(ctx), nil
}

// Encodes a typical JSON response
func encodeJSONResponse(ctx context.Context, w http.ResponseWriter, response interface{}) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	return json.NewEncoder(w).Encode(response)
}

// Builds an error response based on the incoming error
func encodeError(_ context.Context, err error, w http.ResponseWriter) {
	if err == nil {
		panic("encodeError with nil error")
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if st, ok := err.(httpStatuser); ok {
		w.WriteHeader(st.Status())
	} else {
		w.WriteHeader(http.StatusInternalServerError)
	}
	ret := errorResponse{
		basicResponse: basicResponse{false, nil},
		Message:       err.Error(),
		Error:         ErrCodeUnknown,
	}
	if cd, ok := err.(errorCoder); ok {
		ret.Error = cd.ErrorCode()
	}
	if db, ok := err.(dataBearer); ok {
		if data := db.Data(); data != nil {
			if err, ok := data.(error); ok {
				ret.Details = err.Error()
			} else {
				ret.Details = data
			}
		}
	}
	json.NewEncoder(w).Encode(&ret)
}

// makeTokenDecoder returns a function that is used in every HTTP call to store the session token sent by the client
// inside the context
func makeTokenDecoder() httptransport.RequestFunc {
	return func(ctx context.Context, r *http.Request) context.Context {
		token := strings.TrimSpace(r.Header.Get(tokenHeader))
		if token == "" {
			return ctx
		}
		ctx = context.WithValue(ctx, ctxhelper.KeyToken, token)
		return ctx
	}
}

func makeContextInjector(logger *logrus.Entry) httptransport.RequestFunc {
	return func(ctx context.Context, r *http.Request) context.Context {
		return context.WithValue(ctx, ctxhelper.KeyLogger, logger.WithField(log.FldIP, r.RemoteAddr))
	}
}
