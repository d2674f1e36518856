package neissvc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/trezcool/edusurvey/core"
	"github.com/trezcool/edusurvey/core/school"
)

// Client queries the NEIS open data school directory.
type Client struct {
	baseURL  string
	apiKey   string
	pageSize int
	timeout  time.Duration
	rest     *rest.Client
}

var _ school.Directory = (*Client)(nil)

func NewClient(conf *core.Config) *Client {
	return &Client{
		baseURL:  conf.Neis.BaseURL,
		apiKey:   conf.Neis.APIKey,
		pageSize: conf.Neis.PageSize,
		timeout:  conf.Neis.Timeout,
		rest:     &rest.Client{HTTPClient: &http.Client{Timeout: conf.Neis.Timeout}},
	}
}

func (c *Client) LookupByCode(ctx context.Context, id school.Identifier) (school.Record, error) {
	params := map[string]string{"SD_SCHUL_CODE": id.StandardCode}
	if id.AuthorityCode != "" {
		params["ATPT_OFCDC_SC_CODE"] = id.AuthorityCode
	}

	env, err := c.fetch(ctx, params)
	if err != nil {
		return school.Record{}, err
	}
	if env.result().Code != codeSuccess {
		return school.Record{}, school.ErrNotFound
	}
	records := env.records()
	if len(records) == 0 {
		return school.Record{}, school.ErrNotFound
	}
	return records[0], nil
}

func (c *Client) LookupByName(ctx context.Context, name string) ([]school.Record, error) {
	name = core.CleanString(name)
	if name == "" {
		return []school.Record{}, nil
	}

	env, err := c.fetch(ctx, map[string]string{"SCHUL_NM": name})
	if err != nil {
		return nil, err
	}
	if env.result().Code != codeSuccess {
		return []school.Record{}, nil
	}
	return env.records(), nil
}

// Proxy forwards arbitrary dataset parameters and returns the raw directory answer.
// Caller parameters override the defaults.
func (c *Client) Proxy(ctx context.Context, params url.Values) (json.RawMessage, error) {
	query := make(map[string]string, len(params))
	for k := range params {
		query[k] = params.Get(k)
	}
	body, err := c.get(ctx, query)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, &school.LookupError{Op: "decode", Err: errors.New("invalid JSON response")}
	}
	return body, nil
}

func (c *Client) fetch(ctx context.Context, params map[string]string) (envelope, error) {
	body, err := c.get(ctx, params)
	if err != nil {
		return envelope{}, err
	}
	var env envelope
	if err = json.Unmarshal(body, &env); err != nil {
		return envelope{}, &school.LookupError{Op: "decode", Err: err}
	}
	return env, nil
}

func (c *Client) get(ctx context.Context, params map[string]string) ([]byte, error) {
	query := map[string]string{
		"Type":   "json",
		"pIndex": "1",
		"pSize":  strconv.Itoa(c.pageSize),
	}
	if c.apiKey != "" {
		query["KEY"] = c.apiKey
	}
	for k, v := range params {
		query[k] = v
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.rest.SendWithContext(ctx, rest.Request{
		Method:      rest.Get,
		BaseURL:     c.baseURL,
		Headers:     map[string]string{"Accept": "application/json"},
		QueryParams: query,
	})
	if err != nil {
		var uErr *url.Error
		if errors.As(err, &uErr) {
			uErr.URL = redact(uErr.URL)
		}
		return nil, &school.LookupError{Op: "get", Err: err}
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &school.LookupError{Op: "get", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}
	return []byte(resp.Body), nil
}

// redact drops the query string (and the API key with it) from logged URLs.
func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "directory"
	}
	u.RawQuery = ""
	return u.String()
}
