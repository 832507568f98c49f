package index

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"branec/internal/types"
)

// Remote queries a catalog service over HTTP. The connection is lazy: nothing
// is dialed until the first lookup, and every lookup is bounded by the
// configured timeout.
type Remote struct {
	base   *url.URL
	client *http.Client
}

// DefaultTimeout bounds a single catalog lookup when the caller does not
// configure one.
const DefaultTimeout = 30 * time.Second

// NewRemote validates the endpoint address and builds a client. The endpoint
// is not contacted here.
func NewRemote(endpoint string, timeout time.Duration) (*Remote, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid index endpoint %q: %w", endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid index endpoint %q: scheme must be http or https", endpoint)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid index endpoint %q: missing host", endpoint)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Remote{
		base:   u,
		client: &http.Client{Timeout: timeout},
	}, nil
}

// wire DTOs: types travel as their source spelling ("Int", "[String]").
type wireFunc struct {
	Name   string   `json:"name"`
	Params []string `json:"params"`
	Ret    string   `json:"ret"`
}

type wirePackage struct {
	Name      string     `json:"name"`
	Version   string     `json:"version"`
	Functions []wireFunc `json:"functions"`
}

type wireData struct {
	Name string `json:"name"`
}

// Package implements Index.
func (r *Remote) Package(ctx context.Context, name, version string) (PackageInfo, bool, error) {
	u := r.base.JoinPath("packages", name)
	if version != "" {
		q := u.Query()
		q.Set("version", version)
		u.RawQuery = q.Encode()
	}

	var wp wirePackage
	found, err := r.getJSON(ctx, u.String(), &wp)
	if err != nil || !found {
		return PackageInfo{}, false, err
	}

	info := PackageInfo{Name: wp.Name, Version: wp.Version}
	for _, f := range wp.Functions {
		spec := FuncSpec{Name: f.Name, Ret: parseTypeName(f.Ret)}
		for _, p := range f.Params {
			spec.Params = append(spec.Params, parseTypeName(p))
		}
		info.Functions = append(info.Functions, spec)
	}
	return info, true, nil
}

// Data implements Index.
func (r *Remote) Data(ctx context.Context, name string) (DataInfo, bool, error) {
	var wd wireData
	found, err := r.getJSON(ctx, r.base.JoinPath("datasets", name).String(), &wd)
	if err != nil || !found {
		return DataInfo{}, false, err
	}
	return DataInfo{Name: wd.Name}, true, nil
}

func (r *Remote) getJSON(ctx context.Context, url string, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close() //nolint:errcheck

	switch resp.StatusCode {
	case http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return false, fmt.Errorf("index returned malformed JSON: %w", err)
		}
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("index returned status %s", resp.Status)
	}
}

// parseTypeName maps a wire type spelling to a type; unknown spellings
// degrade to Any so a newer catalog does not break an older engine.
func parseTypeName(name string) *types.Type {
	if len(name) >= 2 && name[0] == '[' && name[len(name)-1] == ']' {
		return types.ArrayOf(parseTypeName(name[1 : len(name)-1]))
	}
	if t, ok := types.ByName(name); ok {
		return t
	}
	return types.AnyType
}
