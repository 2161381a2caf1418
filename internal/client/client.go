// Package client talks to a running wordbridge server over the connect JSON protocol.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/go-resty/resty/v2"
	"google.golang.org/genproto/googleapis/rpc/errdetails"

	apiv1 "github.com/at-ishikawa/wordbridge/internal/api/v1"
	"github.com/at-ishikawa/wordbridge/internal/server"
)

const defaultTimeout = 30 * time.Second

var ErrLoginFailed = errors.New("login failed")

type Client struct {
	httpClient *resty.Client
	baseURL    string
}

// New returns a client for the server at baseURL. The session cookie set by Login is kept
// in the cookie jar of the underlying http.Client, which the RPC calls share.
func New(baseURL string) *Client {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(defaultTimeout)
	client.SetHeader("Content-Type", "application/json")

	return &Client{
		httpClient: client,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

type loginError struct {
	Error string `json:"error"`
}

func (c *Client) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	var result LoginResponse
	var failure loginError
	res, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(loginRequest{Username: username, Password: password}).
		SetResult(&result).
		SetError(&failure).
		Post("/auth/login")
	if err != nil {
		return nil, fmt.Errorf("client.R().Post(/auth/login) > %w", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("%w: status %d: %s", ErrLoginFailed, res.StatusCode(), failure.Error)
	}
	return &result, nil
}

func (c *Client) Logout(ctx context.Context) error {
	res, err := c.httpClient.R().
		SetContext(ctx).
		Post("/auth/logout")
	if err != nil {
		return fmt.Errorf("client.R().Post(/auth/logout) > %w", err)
	}
	if res.StatusCode() != http.StatusNoContent {
		return fmt.Errorf("logout: status code: %d, body: %s", res.StatusCode(), string(res.Body()))
	}
	return nil
}

func (c *Client) ListLanguages(ctx context.Context) ([]apiv1.Language, error) {
	res, err := call[apiv1.ListLanguagesRequest, apiv1.ListLanguagesResponse](ctx, c, apiv1.DictionaryServiceListLanguagesProcedure, &apiv1.ListLanguagesRequest{}, readOptions...)
	if err != nil {
		return nil, err
	}
	return res.Languages, nil
}

func (c *Client) AddLanguage(ctx context.Context, req apiv1.AddLanguageRequest) (*apiv1.AddLanguageResponse, error) {
	return call[apiv1.AddLanguageRequest, apiv1.AddLanguageResponse](ctx, c, apiv1.DictionaryServiceAddLanguageProcedure, &req)
}

func (c *Client) Search(ctx context.Context, req apiv1.SearchRequest) ([]apiv1.Word, error) {
	res, err := call[apiv1.SearchRequest, apiv1.SearchResponse](ctx, c, apiv1.DictionaryServiceSearchProcedure, &req, readOptions...)
	if err != nil {
		return nil, err
	}
	return res.Words, nil
}

// ListWords browses words of languageID, or of every language when it is empty.
func (c *Client) ListWords(ctx context.Context, languageID string) ([]apiv1.Word, error) {
	res, err := call[apiv1.ListWordsRequest, apiv1.ListWordsResponse](ctx, c, apiv1.DictionaryServiceListWordsProcedure, &apiv1.ListWordsRequest{LanguageID: languageID}, readOptions...)
	if err != nil {
		return nil, err
	}
	return res.Words, nil
}

func (c *Client) AddWord(ctx context.Context, req apiv1.AddWordRequest) (*apiv1.AddWordResponse, error) {
	return call[apiv1.AddWordRequest, apiv1.AddWordResponse](ctx, c, apiv1.DictionaryServiceAddWordProcedure, &req)
}

func (c *Client) GetWord(ctx context.Context, id string) (*apiv1.Word, error) {
	res, err := call[apiv1.GetWordRequest, apiv1.GetWordResponse](ctx, c, apiv1.DictionaryServiceGetWordProcedure, &apiv1.GetWordRequest{ID: id}, readOptions...)
	if err != nil {
		return nil, err
	}
	return &res.Word, nil
}

// ListContributions lists the ledger of userID, or of the logged in user when userID is empty.
func (c *Client) ListContributions(ctx context.Context, userID string) ([]apiv1.Contribution, error) {
	res, err := call[apiv1.ListContributionsRequest, apiv1.ListContributionsResponse](ctx, c, apiv1.DictionaryServiceListContributionsProcedure, &apiv1.ListContributionsRequest{UserID: userID}, readOptions...)
	if err != nil {
		return nil, err
	}
	return res.Contributions, nil
}

func (c *Client) GetMe(ctx context.Context) (*apiv1.User, error) {
	res, err := call[apiv1.GetMeRequest, apiv1.GetMeResponse](ctx, c, apiv1.DictionaryServiceGetMeProcedure, &apiv1.GetMeRequest{}, readOptions...)
	if err != nil {
		return nil, err
	}
	return &res.User, nil
}

func (c *Client) Register(ctx context.Context, req apiv1.RegisterRequest) (*apiv1.User, error) {
	res, err := call[apiv1.RegisterRequest, apiv1.RegisterResponse](ctx, c, apiv1.DictionaryServiceRegisterProcedure, &req)
	if err != nil {
		return nil, err
	}
	return &res.User, nil
}

// readOptions send side-effect free procedures as HTTP GET.
var readOptions = []connect.ClientOption{
	connect.WithHTTPGet(),
	connect.WithIdempotency(connect.IdempotencyNoSideEffects),
}

// call issues one unary request through the http.Client that holds the session cookie.
// Failed calls are returned as *connect.Error, so callers can branch on connect.CodeOf.
func call[Req, Res any](ctx context.Context, c *Client, procedure string, req *Req, opts ...connect.ClientOption) (*Res, error) {
	opts = append([]connect.ClientOption{connect.WithCodec(server.JSONCodec{})}, opts...)
	rpc := connect.NewClient[Req, Res](c.httpClient.GetClient(), c.baseURL+procedure, opts...)
	res, err := rpc.CallUnary(ctx, connect.NewRequest(req))
	if err != nil {
		return nil, err
	}
	return res.Msg, nil
}

// FieldViolations returns the invalid request fields the server attached to err, if any.
func FieldViolations(err error) []*errdetails.BadRequest_FieldViolation {
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		return nil
	}
	var violations []*errdetails.BadRequest_FieldViolation
	for _, detail := range connectErr.Details() {
		msg, valueErr := detail.Value()
		if valueErr != nil {
			continue
		}
		if badRequest, ok := msg.(*errdetails.BadRequest); ok {
			violations = append(violations, badRequest.GetFieldViolations()...)
		}
	}
	return violations
}
