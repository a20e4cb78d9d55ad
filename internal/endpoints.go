package internal

import (
	"fmt"

	"github.com/go-kit/kit/endpoint"
	"golang.org/x/net/context"

	"github.com/derWhity/hackpulse/internal/models"
)

// ListingEndpoints is a collection of endpoints to the listing service
type ListingEndpoints struct {
	List   endpoint.Endpoint
	Get    endpoint.Endpoint
	Create endpoint.Endpoint
	Update endpoint.Endpoint
	Delete endpoint.Endpoint
	Stats  endpoint.Endpoint
	Tags   endpoint.Endpoint
}

// AuthEndpoints is a collection of endpoints for working with the auth service
type AuthEndpoints struct {
	Login  endpoint.Endpoint
	Logout endpoint.Endpoint
	WhoAmI endpoint.Endpoint
}

// ConfigEndpoints is a collection of endpoints for changing the tag catalog
type ConfigEndpoints struct {
	AddTag    endpoint.Endpoint
	RemoveTag endpoint.Endpoint
}

// The base for all responses which always contains a "success" property to show if the call was successful and a
// data element containing the result of the request
type basicResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

// dataResponse is used where the data element must be present even if it is a zero value
type dataResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// EndpointOptions configure the middlewares wrapped around the endpoints
type EndpointOptions struct {
	// Checks the session for admin-only endpoints
	Auth AuthService
	// Applied to every endpoint (e.g. the simulated latency)
	Middlewares []endpoint.Middleware
}

func (o EndpointOptions) wrap(e endpoint.Endpoint) endpoint.Endpoint {
	for i := len(o.Middlewares) - 1; i >= 0; i-- {
		e = o.Middlewares[i](e)
	}
	return e
}

func (o EndpointOptions) admin(e endpoint.Endpoint) endpoint.Endpoint {
	return o.wrap(MakeEnsureUserLoggedIn(o.Auth)(e))
}

// -- Listings ---------------------------------------------------------------------------------------------------------

// MakeListingEndpoints creates the endpoints needed to use the listing service
func MakeListingEndpoints(s ListingService, o EndpointOptions) ListingEndpoints {
	return ListingEndpoints{
		List:   o.wrap(makeListEndpoint(s)),
		Get:    o.wrap(makeGetEndpoint(s)),
		Create: o.admin(makeCreateEndpoint(s)),
		Update: o.admin(makeUpdateEndpoint(s)),
		Delete: o.admin(makeDeleteEndpoint(s)),
		Stats:  o.admin(makeStatsEndpoint(s)),
		Tags:   o.wrap(makeTagsEndpoint(s)),
	}
}

func makeListEndpoint(s ListingService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		filter, ok := request.(ListFilter)
		if !ok {
			return nil, fmt.Errorf("illegal list request")
		}
		list, err := s.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		return dataResponse{true, list}, nil
	}
}

func makeGetEndpoint(s ListingService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		id, ok := request.(string)
		if !ok {
			return nil, fmt.Errorf("illegal hackathon ID")
		}
		h, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		return basicResponse{true, h}, nil
	}
}

func makeCreateEndpoint(s ListingService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		in, ok := request.(models.HackathonInput)
		if !ok {
			return nil, fmt.Errorf("illegal hackathon data")
		}
		h, err := s.Create(ctx, in)
		if err != nil {
			return nil, err
		}
		return basicResponse{true, h}, nil
	}
}

func makeUpdateEndpoint(s ListingService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req, ok := request.(updateRequest)
		if !ok {
			return nil, fmt.Errorf("illegal update request")
		}
		h, err := s.Update(ctx, req.ID, req.Patch)
		if err != nil {
			return nil, err
		}
		return basicResponse{true, h}, nil
	}
}

func makeDeleteEndpoint(s ListingService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		id, ok := request.(string)
		if !ok {
			return nil, fmt.Errorf("illegal hackathon ID")
		}
		if err := s.Delete(ctx, id); err != nil {
			return nil, err
		}
		return basicResponse{true, nil}, nil
	}
}

func makeStatsEndpoint(s ListingService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		stats, err := s.Stats(ctx)
		if err != nil {
			return nil, err
		}
		return basicResponse{true, stats}, nil
	}
}

func makeTagsEndpoint(s ListingService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		return dataResponse{true, s.Tags(ctx)}, nil
	}
}

// -- Configuration ----------------------------------------------------------------------------------------------------

// MakeConfigEndpoints creates the endpoints needed to change the tag catalog
func MakeConfigEndpoints(s ConfigService, o EndpointOptions) ConfigEndpoints {
	return ConfigEndpoints{
		AddTag:    o.admin(makeAddTagEndpoint(s)),
		RemoveTag: o.admin(makeRemoveTagEndpoint(s)),
	}
}

func makeAddTagEndpoint(s ConfigService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req, ok := request.(tagRequest)
		if !ok {
			return nil, fmt.Errorf("illegal tag request")
		}
		if err := s.AddTag(ctx, req.Tag); err != nil {
			return nil, err
		}
		return dataResponse{true, s.Tags(ctx)}, nil
	}
}

func makeRemoveTagEndpoint(s ConfigService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req, ok := request.(tagRequest)
		if !ok {
			return nil, fmt.Errorf("illegal tag request")
		}
		if err := s.RemoveTag(ctx, req.Tag); err != nil {
			return nil, err
		}
		return dataResponse{true, s.Tags(ctx)}, nil
	}
}

// -- Auth -------------------------------------------------------------------------------------------------------------

// MakeAuthEndpoints builds the endpoints needed to communicate with the auth service
func MakeAuthEndpoints(s AuthService, o EndpointOptions) AuthEndpoints {
	return AuthEndpoints{
		Login:  o.wrap(makeLoginEndpoint(s)),
		Logout: o.wrap(makeLogoutEndpoint(s)),
		WhoAmI: o.wrap(makeWhoAmIEndpoint(s)),
	}
}

func makeLoginEndpoint(s AuthService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		req, ok := request.(loginRequest)
		if !ok {
			return nil, fmt.Errorf("illegal login request")
		}
		si, err := s.Login(ctx, req.Username, req.Password)
		if err != nil {
			return nil, err
		}
		return basicResponse{true, si}, nil
	}
}

// Only the holder of the current session may end it. Other callers get a success without any effect.
func makeLogoutEndpoint(s AuthService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		token, _ := request.(string)
		if !s.Authorize(ctx, token) {
			return basicResponse{true, nil}, nil
		}
		if err := s.Logout(ctx); err != nil {
			return nil, err
		}
		return basicResponse{true, nil}, nil
	}
}

func makeWhoAmIEndpoint(s AuthService) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (interface{}, error) {
		token, _ := request.(string)
		return dataResponse{true, s.Authorize(ctx, token)}, nil
	}
}
